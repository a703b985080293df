package domain

import "fmt"

// ValidationError describes a field-level validation failure with enough
// context for callers to report which input was rejected and why.
type ValidationError struct {
	Field   string // The field that failed validation (e.g., "name", "front")
	Message string // Human-readable description of the failure
	Err     error  // Underlying sentinel error, usually ErrValidation
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
