package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"catalog-backend/internal/domains/category"
	catrepo "catalog-backend/internal/domains/category/repository"
	"catalog-backend/internal/domains/product"
	prodrepo "catalog-backend/internal/domains/product/repository"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/utils"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/cache/cachetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCategoryRepo đếm số lần đọc xuống storage. blockNextRead (nếu set)
// giữ lần đọc kế tiếp lại sau khi đã lấy record, tới khi channel release đóng.
type fakeCategoryRepo struct {
	category.CategoryRepository

	mu    sync.Mutex
	byID  map[string]*category.Category
	reads int

	blockNextRead *blocker
}

type blocker struct {
	loaded  chan struct{}
	release chan struct{}
}

func newBlocker() *blocker {
	return &blocker{loaded: make(chan struct{}), release: make(chan struct{})}
}

func (r *fakeCategoryRepo) read(match func(*category.Category) bool) (*category.Category, error) {
	r.mu.Lock()
	r.reads++
	var found *category.Category
	for _, c := range r.byID {
		if c.Status == shared.StatusActive && match(c) {
			cp := *c
			found = &cp
		}
	}
	b := r.blockNextRead
	r.blockNextRead = nil
	r.mu.Unlock()

	if b != nil {
		close(b.loaded)
		<-b.release
	}
	if found == nil {
		return nil, category.ErrCategoryNotFound
	}
	return found, nil
}

func (r *fakeCategoryRepo) GetActiveByID(_ context.Context, id string) (*category.Category, error) {
	return r.read(func(c *category.Category) bool { return c.ID == id })
}

func (r *fakeCategoryRepo) GetActiveBySlug(_ context.Context, slug string) (*category.Category, error) {
	return r.read(func(c *category.Category) bool { return c.Slug == slug })
}

func (r *fakeCategoryRepo) mutate(id string, fn func(*category.Category)) (*category.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.Status != shared.StatusActive {
		return nil, category.ErrCategoryNotFound
	}
	fn(c)
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, id string, patch category.Patch) (*category.Category, error) {
	return r.mutate(id, func(c *category.Category) {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Slug != nil {
			c.Slug = *patch.Slug
		}
	})
}

func (r *fakeCategoryRepo) SoftDelete(_ context.Context, id string) (*category.Category, error) {
	return r.mutate(id, func(c *category.Category) { c.Status = shared.StatusDeleted })
}

func (r *fakeCategoryRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

type fakeProductRepo struct {
	product.ProductRepository

	mu    sync.Mutex
	byID  map[string]*product.Product
	cats  *fakeCategoryRepo
	reads int
}

func (r *fakeProductRepo) GetActiveByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	p, ok := r.byID[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	cp := *p
	r.cats.mu.Lock()
	cat := *r.cats.byID[p.CategoryID]
	r.cats.mu.Unlock()
	cp.Category = &cat
	return &cp, nil
}

type fixture struct {
	cat      *category.Category
	product  *product.Product
	cats     *fakeCategoryRepo
	products *fakeProductRepo
	mem      *cachetest.Memory
	guard    *cache.Guard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat, err := category.NewCategory("Áo Thun", "", "")
	require.NoError(t, err)
	p, err := product.NewProduct("Basic Tee", decimal.NewFromInt(199000), 3, cat.ID, utils.SlugStrict)
	require.NoError(t, err)

	cats := &fakeCategoryRepo{byID: map[string]*category.Category{cat.ID: cat}}
	mem := cachetest.NewMemory()
	return &fixture{
		cat:      cat,
		product:  p,
		cats:     cats,
		products: &fakeProductRepo{byID: map[string]*product.Product{p.ID: p}, cats: cats},
		mem:      mem,
		guard:    cache.NewGuard(mem),
	}
}

func (f *fixture) categoryRepo() category.CategoryRepository {
	return catrepo.NewCachedRepository(f.cats, f.guard, time.Minute)
}

func TestCachedRepository_HitAfterMiss(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := f.categoryRepo()

	first, err := repo.GetActiveByID(ctx, f.cat.ID)
	require.NoError(t, err)
	second, err := repo.GetActiveByID(ctx, f.cat.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.cats.readCount())
	assert.Equal(t, first.Slug, second.Slug)
	assert.True(t, f.mem.Has(catrepo.IDKey(f.cat.ID)))

	_, err = repo.GetActiveBySlug(ctx, "ao-thun")
	require.NoError(t, err)
	_, err = repo.GetActiveBySlug(ctx, "ao-thun")
	require.NoError(t, err)
	assert.Equal(t, 2, f.cats.readCount())
}

func TestCachedRepository_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := f.categoryRepo()

	for i := 0; i < 2; i++ {
		_, err := repo.GetActiveBySlug(ctx, "khong-co")
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	}
	assert.Equal(t, 2, f.cats.readCount())
}

func TestCachedRepository_SoftDeleteDuringInFlightRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := f.categoryRepo()

	b := newBlocker()
	f.cats.blockNextRead = b

	done := make(chan error, 1)
	go func() {
		got, err := repo.GetActiveByID(ctx, f.cat.ID)
		if err == nil {
			// lần đọc này bắt đầu trước khi xoá nên vẫn thấy active
			assert.Equal(t, shared.StatusActive, got.Status)
		}
		done <- err
	}()

	<-b.loaded
	_, err := repo.SoftDelete(ctx, f.cat.ID)
	require.NoError(t, err)
	close(b.release)
	require.NoError(t, <-done)

	assert.False(t, f.mem.Has(catrepo.IDKey(f.cat.ID)))

	_, err = repo.GetActiveByID(ctx, f.cat.ID)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	_, err = repo.GetActiveBySlug(ctx, f.cat.Slug)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestCachedRepository_FailedInvalidationBypassesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := f.categoryRepo()

	_, err := repo.GetActiveByID(ctx, f.cat.ID)
	require.NoError(t, err)
	_, err = repo.GetActiveBySlug(ctx, f.cat.Slug)
	require.NoError(t, err)

	f.mem.SetFailDeletePattern(true)
	_, err = repo.SoftDelete(ctx, f.cat.ID)
	require.NoError(t, err)

	assert.False(t, f.mem.Has(catrepo.IDKey(f.cat.ID)))
	assert.False(t, f.mem.Has(catrepo.SlugKey(f.cat.Slug)))
	assert.True(t, f.guard.Dirty())

	_, err = repo.GetActiveByID(ctx, f.cat.ID)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	_, err = repo.GetActiveBySlug(ctx, f.cat.Slug)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestCachedRepository_UpdateInvalidatesCategoryAndProductKeys(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cats := f.categoryRepo()
	products := prodrepo.NewCachedRepository(f.products, f.guard, time.Minute)

	_, err := cats.GetActiveByID(ctx, f.cat.ID)
	require.NoError(t, err)
	cached, err := products.GetActiveByID(ctx, f.product.ID)
	require.NoError(t, err)
	require.NotNil(t, cached.Category)
	assert.Equal(t, "ao-thun", cached.Category.Slug)
	assert.Equal(t, 2, f.mem.Len())

	name, slug := "Quần", "quan"
	_, err = cats.Update(ctx, f.cat.ID, category.Patch{Name: &name, Slug: &slug})
	require.NoError(t, err)
	assert.Equal(t, 0, f.mem.Len())

	fresh, err := products.GetActiveByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.reads)
	assert.Equal(t, "quan", fresh.Category.Slug)

	fetched, err := cats.GetActiveByID(ctx, f.cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "quan", fetched.Slug)
}

func TestCachedRepository_FailedMutationKeepsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := f.categoryRepo()

	_, err := repo.GetActiveByID(ctx, f.cat.ID)
	require.NoError(t, err)

	name := "x"
	_, err = repo.Update(ctx, utils.NewObjectID(), category.Patch{Name: &name})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.True(t, f.mem.Has(catrepo.IDKey(f.cat.ID)))
}
