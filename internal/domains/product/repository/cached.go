package repository

import (
	"context"
	"time"

	"catalog-backend/internal/domains/product"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"
)

// Cache key constants
const (
	CacheKeyPrefix    = "catalog:product:"
	productIDPrefix   = CacheKeyPrefix + "id:"
	productSlugPrefix = CacheKeyPrefix + "slug:"
	productCatPrefix  = CacheKeyPrefix + "cat:"
)

// cachedRepository cache các lookup đơn lẻ (đã populate). List không cache.
// Category cached repository cũng xoá prefix này khi category đổi, qua
// cùng 1 cache.Guard.
type cachedRepository struct {
	inner product.ProductRepository
	guard *cache.Guard
	ttl   time.Duration
}

func NewCachedRepository(inner product.ProductRepository, guard *cache.Guard, ttl time.Duration) product.ProductRepository {
	return &cachedRepository{
		inner: inner,
		guard: guard,
		ttl:   ttl,
	}
}

func IDKey(id string) string {
	return productIDPrefix + id
}

func SlugKey(slug string) string {
	return productSlugPrefix + slug
}

func CategorySlugKey(categoryID, slug string) string {
	return productCatPrefix + categoryID + ":" + slug
}

func (r *cachedRepository) ListActive(ctx context.Context) ([]product.Product, error) {
	return r.inner.ListActive(ctx)
}

func (r *cachedRepository) GetActiveByID(ctx context.Context, id string) (*product.Product, error) {
	return r.cachedLookup(ctx, IDKey(id), func() (*product.Product, error) {
		return r.inner.GetActiveByID(ctx, id)
	})
}

func (r *cachedRepository) GetActiveBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return r.cachedLookup(ctx, SlugKey(slug), func() (*product.Product, error) {
		return r.inner.GetActiveBySlug(ctx, slug)
	})
}

func (r *cachedRepository) GetActiveBySlugInCategory(ctx context.Context, slug, categoryID string) (*product.Product, error) {
	return r.cachedLookup(ctx, CategorySlugKey(categoryID, slug), func() (*product.Product, error) {
		return r.inner.GetActiveBySlugInCategory(ctx, slug, categoryID)
	})
}

func (r *cachedRepository) cachedLookup(ctx context.Context, key string, load func() (*product.Product, error)) (*product.Product, error) {
	var cached product.Product
	found, err := r.guard.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("product cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
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
		logger.Warn("product cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	case !stored:
		logger.Debug("product cache set skipped", map[string]interface{}{"key": key})
	}
	return entity, nil
}

func (r *cachedRepository) Create(ctx context.Context, entity *product.Product) (*product.Product, error) {
	created, err := r.inner.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, created)
	return created, nil
}

func (r *cachedRepository) Update(ctx context.Context, id string, patch product.Patch) (*product.Product, error) {
	updated, err := r.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, updated)
	return updated, nil
}

func (r *cachedRepository) SoftDelete(ctx context.Context, id string) (*product.Product, error) {
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

// invalidate xoá prefix product; lỗi => Guard xoá keys của p và chuyển dirty
func (r *cachedRepository) invalidate(ctx context.Context, p *product.Product) {
	keys := []string{IDKey(p.ID), SlugKey(p.Slug), CategorySlugKey(p.CategoryID, p.Slug)}
	if err := r.guard.Invalidate(ctx, []string{CacheKeyPrefix + "*"}, keys...); err != nil {
		logger.Error("product cache invalidation failed, cache bypassed until next successful invalidation", err)
	}
}
