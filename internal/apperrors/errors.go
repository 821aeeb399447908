package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrImport indicates that an imported spreadsheet or payload was missing, unreadable or malformed.
// It is never fatal to the session: the previously stored snapshot remains authoritative.
var ErrImport = errors.New("import error")

// ErrNoData indicates that an import source was readable but carried no usable records.
var ErrNoData = errors.New("no data")

// ErrPersistence indicates that a snapshot document could not be written or read back.
var ErrPersistence = errors.New("persistence error")

// ErrConflict indicates that an operation could not complete because of a concurrent or duplicate state,
// e.g. an installment id collision that survived the retry budget.
var ErrConflict = errors.New("conflict")

// ValidationError describes a rejected input, naming the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ImportError wraps a failure reading an external import source.
type ImportError struct {
	Source string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrImport.Error(), e.Source, e.Err)
}

// Unwrap exposes both the ErrImport sentinel and the underlying cause.
func (e *ImportError) Unwrap() []error { return []error{ErrImport, e.Err} }

// PersistenceError wraps a failure writing or reading a snapshot document.
type PersistenceError struct {
	Target string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence.Error(), e.Target, e.Err)
}

// Unwrap exposes both the ErrPersistence sentinel and the underlying cause.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
