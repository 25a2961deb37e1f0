package category

import "context"

// CategoryService là business logic layer của category.
//
// GetActiveByID / GetActiveBySlug trả về entity (không phải DTO) vì
// product service dùng chúng để validate category reference.
type CategoryService interface {
	List(ctx context.Context) ([]CategoryResp, error)

	// Resolve nhận id (24 hex) hoặc slug
	Resolve(ctx context.Context, identifier string) (*CategoryResp, error)

	GetActiveByID(ctx context.Context, id string) (*Category, error)

	GetActiveBySlug(ctx context.Context, slug string) (*Category, error)

	Create(ctx context.Context, req *CreateCategoryReq) (*CategoryResp, error)

	Update(ctx context.Context, id string, req *UpdateCategoryReq) (*CategoryResp, error)

	Delete(ctx context.Context, id string) (*CategoryResp, error)
}
