package product

import "context"

// ProductRepository là storage boundary của product.
//
// Mọi read đều populate Category. Update/SoftDelete là find-and-modify
// atomic, chỉ match record active, và trả về record đã populate.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]Product, error)

	GetActiveByID(ctx context.Context, id string) (*Product, error)

	GetActiveBySlug(ctx context.Context, slug string) (*Product, error)

	// GetActiveBySlugInCategory match cả slug lẫn category reference
	GetActiveBySlugInCategory(ctx context.Context, slug, categoryID string) (*Product, error)

	Create(ctx context.Context, product *Product) (*Product, error)

	Update(ctx context.Context, id string, patch Patch) (*Product, error)

	SoftDelete(ctx context.Context, id string) (*Product, error)

	EnsureIndexes(ctx context.Context) error
}
