package product

import (
	"errors"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ============================================================
// REQUEST DTOs
// ============================================================

// CreateProductReq là body của POST /products
//
//	{
//	  "name": "Áo Thun Basic",
//	  "price": 199000,
//	  "quantity": 10,
//	  "description": "...",
//	  "urlImg": "https://...",
//	  "category": "65f1c0e8a1b2c3d4e5f60718"
//	}
//
// price/quantity là pointer: phải có mặt trong body, nhưng 0 là hợp lệ.
type CreateProductReq struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int64           `json:"quantity"`
	Description string           `json:"description"`
	URLImg      string           `json:"urlImg"`
	Category    string           `json:"category"`
}

func (r CreateProductReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("product name is required"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&r.Price,
			validation.NotNil.Error("price is required"),
			validation.By(nonNegativePrice),
		),
		validation.Field(&r.Quantity,
			validation.NotNil.Error("quantity is required"),
			validation.Min(int64(0)).Error("quantity must be greater than or equal to 0"),
		),
		validation.Field(&r.Description, validation.RuneLength(0, 2000)),
		validation.Field(&r.URLImg, validation.RuneLength(0, 2048)),
		validation.Field(&r.Category, validation.Required.Error("category is required")),
	)
}

// UpdateProductReq là body của PUT /products/:id (partial update)
type UpdateProductReq struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int64           `json:"quantity"`
	Description *string          `json:"description"`
	URLImg      *string          `json:"urlImg"`
	Category    *string          `json:"category"`
}

func (r UpdateProductReq) IsEmpty() bool {
	return r.Name == nil && r.Price == nil && r.Quantity == nil &&
		r.Description == nil && r.URLImg == nil && r.Category == nil
}

func (r UpdateProductReq) Validate() error {
	if r.IsEmpty() {
		return shared.ErrNothingToUpdate
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("product name cannot be empty"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.Quantity,
			validation.Min(int64(0)).Error("quantity must be greater than or equal to 0"),
		),
		validation.Field(&r.Description, validation.RuneLength(0, 2000)),
		validation.Field(&r.URLImg, validation.RuneLength(0, 2048)),
		validation.Field(&r.Category, validation.NilOrNotEmpty.Error("category cannot be empty")),
	)
}

func nonNegativePrice(value interface{}) error {
	price, _ := value.(*decimal.Decimal)
	if price != nil && price.IsNegative() {
		return errors.New("price must be greater than or equal to 0")
	}
	return nil
}

// ============================================================
// RESPONSE DTOs
// ============================================================

// ProductResp luôn embed category đầy đủ, null nếu reference không còn
type ProductResp struct {
	ID          string                 `json:"_id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Price       decimal.Decimal        `json:"price"`
	Quantity    int64                  `json:"quantity"`
	Description string                 `json:"description"`
	URLImg      string                 `json:"urlImg"`
	Category    *category.CategoryResp `json:"category"`
	Status      shared.Status          `json:"status"`
	IsDeleted   bool                   `json:"isDeleted"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func ProductToResp(p *Product) *ProductResp {
	if p == nil {
		return nil
	}
	return &ProductResp{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		URLImg:      p.URLImg,
		Category:    category.CategoryToResp(p.Category),
		Status:      p.Status,
		IsDeleted:   p.IsDeleted(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProductsToResp(products []Product) []ProductResp {
	resps := make([]ProductResp, 0, len(products))
	for i := range products {
		resps = append(resps, *ProductToResp(&products[i]))
	}
	return resps
}
