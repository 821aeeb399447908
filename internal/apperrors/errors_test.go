package apperrors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_IsErrValidation(t *testing.T) {
	err := NewValidationError("priority", "must be between 1 and 5, got %d", 9)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation error: priority: must be between 1 and 5, got 9", err.Error())

	wrapped := fmt.Errorf("update item: %w", err)
	var ve *ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "priority", ve.Field)
}

func TestImportError_UnwrapsBoth(t *testing.T) {
	err := &ImportError{Source: "payables.xlsx", Err: os.ErrNotExist}

	assert.ErrorIs(t, err, ErrImport)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "payables.xlsx")
}

func TestPersistenceError_UnwrapsBoth(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("save snapshot: %w", &PersistenceError{Target: "cash_items", Err: cause})

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrValidation)
}
