package category

import (
	"strings"
	"time"

	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/utils"
)

// ============================================================
// ENTITY
// ============================================================
// Category là danh mục sản phẩm.
//
// STORAGE MAPPING (mongo: categories collection / postgres: categories table):
// ┌──────────────────────────────┐
// │ _id / id      24-hex, PK     │
// │ name          UNIQUE         │
// │ slug          UNIQUE         │
// │ description   default ""     │
// │ status        active|deleted │
// │ createdAt / updatedAt        │
// └──────────────────────────────┘
//
// Unique index áp dụng cho cả record đã soft-delete: name/slug của category
// đã xoá vẫn bị giữ chỗ.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Status      shared.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) IsDeleted() bool {
	return c.Status.IsDeleted()
}

// Patch chứa các field được phép update. nil = không đổi.
// Slug được service tính lại khi Name thay đổi.
type Patch struct {
	Name        *string
	Slug        *string
	Description *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.Description == nil
}

// NewCategory validate input, sinh slug và id.
//
// slugOverride rỗng → slug sinh từ name. Nếu có, nó vẫn được chuẩn hoá
// bằng cùng thuật toán để đảm bảo URL-safe.
func NewCategory(name, slugOverride, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "category name is required")
	}

	source := name
	if strings.TrimSpace(slugOverride) != "" {
		source = slugOverride
	}
	slug := utils.GenerateSlug(source)
	if slug == "" {
		return nil, ErrEmptySlug
	}

	now := time.Now().UTC()
	return &Category{
		ID:          utils.NewObjectID(),
		Name:        name,
		Slug:        slug,
		Description: description,
		Status:      shared.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
