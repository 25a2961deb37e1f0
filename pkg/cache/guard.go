package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	defaultInvalidateRetries    = 3
	defaultInvalidateRetryDelay = 50 * time.Millisecond
)

// Guard điều phối read-through cache với invalidation.
//
// Mỗi lần Invalidate tăng generation. Lookup ghi nhớ generation trước khi
// đọc storage và chỉ Set nếu generation chưa đổi, nên kết quả load trước
// một mutation không thể ghi đè lên invalidation của mutation đó.
//
// Invalidate thất bại (sau retry) đưa Guard vào trạng thái dirty: mọi Get
// đều miss cho tới lần Invalidate thành công tiếp theo.
//
// Các cached repository cùng dùng 1 Guard vì product embed category.
type Guard struct {
	cache Cache

	mu    sync.RWMutex
	gen   uint64
	dirty bool

	retries    int
	retryDelay time.Duration
}

func NewGuard(c Cache) *Guard {
	return &Guard{
		cache:      c,
		retries:    defaultInvalidateRetries,
		retryDelay: defaultInvalidateRetryDelay,
	}
}

// Generation trả về generation hiện tại, gọi trước khi load từ storage
func (g *Guard) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gen
}

// Dirty: lần invalidation gần nhất thất bại
func (g *Guard) Dirty() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dirty
}

// Get luôn miss khi Guard dirty
func (g *Guard) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if g.Dirty() {
		return false, nil
	}
	return g.cache.Get(ctx, key, dest)
}

// SetIfCurrent chỉ ghi khi generation vẫn là gen. stored=false nghĩa là
// đã có invalidation xen giữa và value bị bỏ.
func (g *Guard) SetIfCurrent(ctx context.Context, gen uint64, key string, value interface{}, ttl time.Duration) (stored bool, err error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.gen != gen || g.dirty {
		return false, nil
	}
	if err := g.cache.Set(ctx, key, value, ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate xoá mọi key match patterns (có retry). Nếu vẫn lỗi thì xoá
// trực tiếp keys của record vừa ghi và chuyển sang dirty.
func (g *Guard) Invalidate(ctx context.Context, patterns []string, keys ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++

	var errs []error
	for _, pattern := range patterns {
		if err := g.deletePattern(ctx, pattern); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		g.dirty = false
		return nil
	}

	if len(keys) > 0 {
		if err := g.cache.Delete(ctx, keys...); err != nil {
			errs = append(errs, err)
		}
	}
	g.dirty = true
	return errors.Join(errs...)
}

func (g *Guard) deletePattern(ctx context.Context, pattern string) error {
	var err error
	for attempt := 0; attempt < g.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(g.retryDelay * time.Duration(attempt)):
			}
		}
		if err = g.cache.DeletePattern(ctx, pattern); err == nil {
			return nil
		}
	}
	return err
}
