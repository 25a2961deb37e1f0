// Package cachetest cung cấp cache.Cache in-memory cho test.
package cachetest

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"time"
)

var ErrUnavailable = errors.New("cachetest: cache unavailable")

// Memory lưu JSON giống RedisCache; DeletePattern dùng glob như SCAN MATCH.
// SetFailDeletePattern giả lập Redis lỗi khi invalidate.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	failDeletePattern  bool
	deletePatternCalls int
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletePatternCalls++
	if m.failDeletePattern {
		return ErrUnavailable
	}
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// SetFailDeletePattern bật/tắt lỗi DeletePattern an toàn với goroutine khác
func (m *Memory) SetFailDeletePattern(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDeletePattern = fail
}

func (m *Memory) DeletePatternCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletePatternCalls
}
