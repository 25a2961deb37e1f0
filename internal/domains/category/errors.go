package category

import (
	"errors"
	"net/http"

	"catalog-backend/internal/shared"
)

// ============================================================
// SENTINEL ERRORS
// ============================================================
// Check bằng errors.Is(), kể cả khi đã wrap bằng fmt.Errorf("%w").
var (
	// ErrCategoryNotFound: không tồn tại HOẶC đã soft-delete.
	// Không phân biệt 2 trường hợp với client.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrDuplicateCategory: vi phạm unique index trên name hoặc slug
	ErrDuplicateCategory = errors.New("category name or slug already exists")

	// ErrEmptySlug: name/slug không còn ký tự nào sau khi chuẩn hoá
	ErrEmptySlug = shared.NewValidationError("slug", "category slug cannot be empty after normalization")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateCategory)
}

// ============================================================
// ERROR → HTTP MAPPING
// ============================================================
// Validation => 400, Not found => 404, Duplicate => 400.
// Còn lại => 500, handler đẩy qua generic error handler.
func GetHTTPStatusCode(err error) int {
	switch {
	case IsNotFound(err):
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
		return "CATEGORY_NOT_FOUND"
	case IsDuplicate(err):
		return "CATEGORY_DUPLICATE"
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
		return "Category not found"
	case IsDuplicate(err):
		return "Category name or slug already exists"
	case shared.IsValidationError(err):
		return err.Error()
	default:
		return "Internal server error"
	}
}
