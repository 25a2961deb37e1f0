package cache

import (
	"context"
	"time"
)

// noopCache luôn miss. Dùng khi Redis bị tắt hoặc không kết nối được.
type noopCache struct{}

func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (noopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (noopCache) Delete(context.Context, ...string) error { return nil }

func (noopCache) DeletePattern(context.Context, string) error { return nil }

func (noopCache) Ping(context.Context) error { return nil }
