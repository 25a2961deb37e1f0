package repository

import (
	"context"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"
)

// Cache key constants
const (
	CacheKeyPrefix     = "catalog:category:"
	categoryIDPrefix   = CacheKeyPrefix + "id:"
	categorySlugPrefix = CacheKeyPrefix + "slug:"

	// Product cache chứa category đã populate nên cũng phải xoá khi category đổi
	productCachePattern = "catalog:product:*"
)

// cachedRepository bọc 1 CategoryRepository, cache lookup theo id / slug.
// Chỉ cache record active; mọi mutation xoá toàn bộ prefix qua cache.Guard.
type cachedRepository struct {
	inner category.CategoryRepository
	guard *cache.Guard
	ttl   time.Duration
}

func NewCachedRepository(inner category.CategoryRepository, guard *cache.Guard, ttl time.Duration) category.CategoryRepository {
	return &cachedRepository{
		inner: inner,
		guard: guard,
		ttl:   ttl,
	}
}

func IDKey(id string) string {
	return categoryIDPrefix + id
}

func SlugKey(slug string) string {
	return categorySlugPrefix + slug
}

func (r *cachedRepository) ListActive(ctx context.Context) ([]category.Category, error) {
	return r.inner.ListActive(ctx)
}

func (r *cachedRepository) GetActiveByID(ctx context.Context, id string) (*category.Category, error) {
	return r.cachedLookup(ctx, IDKey(id), func() (*category.Category, error) {
		return r.inner.GetActiveByID(ctx, id)
	})
}

func (r *cachedRepository) GetActiveBySlug(ctx context.Context, slug string) (*category.Category, error) {
	return r.cachedLookup(ctx, SlugKey(slug), func() (*category.Category, error) {
		return r.inner.GetActiveBySlug(ctx, slug)
	})
}

// cachedLookup: generation lấy trước load, Set bị bỏ nếu có mutation xen giữa
func (r *cachedRepository) cachedLookup(ctx context.Context, key string, load func() (*category.Category, error)) (*category.Category, error) {
	var cached category.Category
	found, err := r.guard.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("category cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if found && err == nil {
		return &cached, nil
	}

	gen := r.guard.Generation()
	entity, err := load()
	if err != nil {
		return nil, err
	}

	stored, err := r.guard.SetIfCurrent(ctx, gen, key, entity, r.ttl)
	switch {
	case err != nil:
		logger.Warn("category cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	case !stored:
		logger.Debug("category cache set skipped", map[string]interface{}{"key": key})
	}
	return entity, nil
}

func (r *cachedRepository) Create(ctx context.Context, entity *category.Category) (*category.Category, error) {
	created, err := r.inner.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, created)
	return created, nil
}

func (r *cachedRepository) Update(ctx context.Context, id string, patch category.Patch) (*category.Category, error) {
	updated, err := r.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, updated)
	return updated, nil
}

func (r *cachedRepository) SoftDelete(ctx context.Context, id string) (*category.Category, error) {
	deleted, err := r.inner.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, deleted)
	return deleted, nil
}

func (r *cachedRepository) EnsureIndexes(ctx context.Context) error {
	return r.inner.EnsureIndexes(ctx)
}

// invalidate xoá prefix category và product; lỗi => Guard xoá keys của c
// và chuyển dirty
func (r *cachedRepository) invalidate(ctx context.Context, c *category.Category) {
	patterns := []string{CacheKeyPrefix + "*", productCachePattern}
	if err := r.guard.Invalidate(ctx, patterns, IDKey(c.ID), SlugKey(c.Slug)); err != nil {
		logger.Error("category cache invalidation failed, cache bypassed until next successful invalidation", err)
	}
}
