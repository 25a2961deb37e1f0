package product

import (
	"errors"
	"net/http"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared"
)

// ============================================================
// SENTINEL ERRORS
// ============================================================
var (
	// ErrProductNotFound: không tồn tại HOẶC đã soft-delete
	ErrProductNotFound = errors.New("product not found")

	ErrDuplicateProduct = errors.New("product name or slug already exists")

	ErrEmptySlug = shared.NewValidationError("slug", "product slug cannot be empty after normalization")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateProduct)
}

// ============================================================
// ERROR → HTTP MAPPING
// ============================================================
// Category không tồn tại (reference sai, hoặc nested route) cũng là 404
// nhưng message khác product not found.
func GetHTTPStatusCode(err error) int {
	switch {
	case IsNotFound(err), category.IsNotFound(err):
		return http.StatusNotFound
	case IsDuplicate(err):
		return http.StatusBadRequest
	case shared.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func GetErrorCode(err error) string {
	switch {
	case IsNotFound(err):
		return "PRODUCT_NOT_FOUND"
	case category.IsNotFound(err):
		return "CATEGORY_NOT_FOUND"
	case IsDuplicate(err):
		return "PRODUCT_DUPLICATE"
	case shared.IsValidationError(err):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

func GetErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return "Product not found"
	case category.IsNotFound(err):
		return "Category not found"
	case IsDuplicate(err):
		return "Product name or slug already exists"
	case shared.IsValidationError(err):
		return err.Error()
	default:
		return "Internal server error"
	}
}
