package category

import "context"

// CategoryRepository là storage boundary của category.
//
// Mọi method Get*/List chỉ trả về record active. Update/SoftDelete là
// find-and-modify atomic trên 1 document, chỉ match record active.
// Uniqueness (name, slug) do unique index của storage đảm bảo; vi phạm
// được dịch thành ErrDuplicateCategory.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]Category, error)

	GetActiveByID(ctx context.Context, id string) (*Category, error)

	GetActiveBySlug(ctx context.Context, slug string) (*Category, error)

	Create(ctx context.Context, category *Category) (*Category, error)

	Update(ctx context.Context, id string, patch Patch) (*Category, error)

	// SoftDelete chuyển active → deleted và trả về record sau khi xoá
	SoftDelete(ctx context.Context, id string) (*Category, error)

	// EnsureIndexes tạo unique index / schema nếu chưa có
	EnsureIndexes(ctx context.Context) error
}
