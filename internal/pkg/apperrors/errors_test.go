package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("loanAmount", "must be greater than zero")

	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "loanAmount", ve.Field)
	assert.Contains(t, err.Error(), "validation failed for field 'loanAmount'")
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := &ValidationError{Message: "end date must be after start date"}
	assert.Equal(t, "validation failed: end date must be after start date", err.Error())
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := WrapDatabaseError(cause, "failed to persist loan")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "[DB_ERROR] failed to persist loan", err.Error())
}

func TestAppErrorWithoutCode(t *testing.T) {
	err := &AppError{Message: "something went sideways"}
	assert.Equal(t, "something went sideways", err.Error())
}
