package descriptor

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrMissingInput is returned when a required input document was not supplied.
	ErrMissingInput = errors.New("required input document is missing")

	// ErrMissingField is returned when a document lacks a field the merge depends on.
	ErrMissingField = errors.New("required field is missing")

	// ErrInvalidSection is returned when a descriptor section is not a mapping.
	ErrInvalidSection = errors.New("section must be a mapping")
)

// FieldError identifies the document field that stopped a compilation.
type FieldError struct {
	Document string // e.g., "platform.yml"
	Field    string // e.g., "platform.wmo_id"
	Err      error
}

func (e *FieldError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("%s: %s: %v", e.Document, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError creates a new FieldError.
func NewFieldError(document, field string, err error) *FieldError {
	return &FieldError{
		Document: document,
		Field:    field,
		Err:      err,
	}
}
