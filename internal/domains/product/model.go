package product

import (
	"strings"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/utils"

	"github.com/shopspring/decimal"
)

// ============================================================
// ENTITY
// ============================================================
// Product thuộc về đúng 1 category (CategoryID). Khi đọc, Category được
// populate bằng record đầy đủ; nil nếu reference trỏ tới record không còn.
type Product struct {
	ID          string
	Name        string
	Slug        string
	Price       decimal.Decimal
	Quantity    int64
	Description string
	URLImg      string
	CategoryID  string
	Category    *category.Category
	Status      shared.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) IsDeleted() bool {
	return p.Status.IsDeleted()
}

// Patch: nil = không đổi
type Patch struct {
	Name        *string
	Slug        *string
	Price       *decimal.Decimal
	Quantity    *int64
	Description *string
	URLImg      *string
	CategoryID  *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.Price == nil && p.Quantity == nil &&
		p.Description == nil && p.URLImg == nil && p.CategoryID == nil
}

// NewProduct validate các field bắt buộc và sinh slug theo mode.
// Không kiểm tra category; việc đó thuộc về service.
func NewProduct(name string, price decimal.Decimal, quantity int64, categoryID string, mode utils.SlugMode) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "product name is required")
	}
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	slug := utils.Slugify(name, mode)
	if slug == "" {
		return nil, ErrEmptySlug
	}

	now := time.Now().UTC()
	return &Product{
		ID:         utils.NewObjectID(),
		Name:       name,
		Slug:       slug,
		Price:      price,
		Quantity:   quantity,
		CategoryID: strings.ToLower(categoryID),
		Status:     shared.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("price", "price must be greater than or equal to 0")
	}
	return nil
}

func ValidateQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewValidationError("quantity", "quantity must be greater than or equal to 0")
	}
	return nil
}
