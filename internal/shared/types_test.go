package shared

import (
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func TestStatus_IsDeleted(t *testing.T) {
	assert.True(t, StatusDeleted.IsDeleted())
	assert.False(t, StatusActive.IsDeleted())
}

func TestIsValidationError(t *testing.T) {
	ozzoErr := validation.Errors{"name": errors.New("cannot be blank")}

	assert.True(t, IsValidationError(NewValidationError("name", "required")))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", NewValidationError("name", "required"))))
	assert.True(t, IsValidationError(ozzoErr))
	assert.True(t, IsValidationError(ErrNothingToUpdate))

	assert.False(t, IsValidationError(nil))
	assert.False(t, IsValidationError(errors.New("boom")))
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "name: required", NewValidationError("name", "required").Error())
	assert.Equal(t, "required", NewValidationError("", "required").Error())
}
