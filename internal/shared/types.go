package shared

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============================================================
// LIFECYCLE
// ============================================================
// Status là trạng thái vòng đời của category/product.
//
//	active ──(soft delete)──▶ deleted
//
// Chỉ có 1 transition duy nhất, không có đường quay lại.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

func (s Status) IsDeleted() bool {
	return s == StatusDeleted
}

// ============================================================
// VALIDATION ERRORS
// ============================================================

// ErrNothingToUpdate được trả về khi PUT body không có field nào để update
var ErrNothingToUpdate = errors.New("nothing to update")

// ValidationError mô tả 1 field không hợp lệ
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError tạo validation error với field + message
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError matches ValidationError, ozzo validation errors and
// ErrNothingToUpdate anywhere in the chain.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return true
	}
	var ozzoErrs validation.Errors
	if errors.As(err, &ozzoErrs) {
		return true
	}
	var ozzoErr validation.Error
	if errors.As(err, &ozzoErr) {
		return true
	}
	return errors.Is(err, ErrNothingToUpdate)
}
