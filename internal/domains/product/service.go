package product

import (
	"context"

	"catalog-backend/internal/domains/category"
)

// CategoryLookup là phần read-only của category service mà product cần.
// category.CategoryService thoả mãn interface này.
type CategoryLookup interface {
	GetActiveByID(ctx context.Context, id string) (*category.Category, error)
	GetActiveBySlug(ctx context.Context, slug string) (*category.Category, error)
}

type ProductService interface {
	List(ctx context.Context) ([]ProductResp, error)

	// Resolve nhận id (24 hex) hoặc slug
	Resolve(ctx context.Context, identifier string) (*ProductResp, error)

	// GetInCategory resolve category theo slug rồi product theo slug trong
	// category đó. Trả category.ErrCategoryNotFound hoặc ErrProductNotFound.
	GetInCategory(ctx context.Context, categorySlug, productSlug string) (*ProductResp, error)

	Create(ctx context.Context, req *CreateProductReq) (*ProductResp, error)

	Update(ctx context.Context, id string, req *UpdateProductReq) (*ProductResp, error)

	Delete(ctx context.Context, id string) (*ProductResp, error)
}
