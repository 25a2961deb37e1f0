package category

import (
	"time"

	"catalog-backend/internal/shared"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============================================================
// REQUEST DTOs
// ============================================================

// CreateCategoryReq là body của POST /categories
//
//	{
//	  "name": "Áo Thun Nam",
//	  "description": "..."
//	}
//
// Slug không bắt buộc; bỏ trống thì sinh từ name ("ao-thun-nam").
type CreateCategoryReq struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description"`
}

func (r CreateCategoryReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("category name is required"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&r.Slug, validation.RuneLength(0, 255)),
		validation.Field(&r.Description, validation.RuneLength(0, 1000)),
	)
}

// UpdateCategoryReq là body của PUT /categories/:id (partial update).
// nil = không update field đó.
type UpdateCategoryReq struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

func (r UpdateCategoryReq) Validate() error {
	if r.Name == nil && r.Slug == nil && r.Description == nil {
		return shared.ErrNothingToUpdate
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("category name cannot be empty"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.RuneLength(1, 255)),
		validation.Field(&r.Description, validation.RuneLength(0, 1000)),
	)
}

// ============================================================
// RESPONSE DTOs
// ============================================================
type CategoryResp struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Status      shared.Status `json:"status"`
	IsDeleted   bool          `json:"isDeleted"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func CategoryToResp(c *Category) *CategoryResp {
	if c == nil {
		return nil
	}
	return &CategoryResp{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Status:      c.Status,
		IsDeleted:   c.IsDeleted(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoriesToResp converts []Category to []CategoryResp (never nil)
func CategoriesToResp(categories []Category) []CategoryResp {
	resps := make([]CategoryResp, 0, len(categories))
	for i := range categories {
		resps = append(resps, *CategoryToResp(&categories[i]))
	}
	return resps
}
