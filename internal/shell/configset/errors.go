// Package configset reads and writes the documents in a deployment's
// config/proc directory.
package configset

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrMissingFile is returned when a required config document does not exist.
	ErrMissingFile = errors.New("config file not found")

	// ErrParse is returned when a config document cannot be decoded.
	ErrParse = errors.New("config file cannot be parsed")

	// ErrNotDirectory is returned when a config directory path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// MissingFileError reports a required document absent from disk.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, ErrMissingFile)
}

func (e *MissingFileError) Unwrap() error {
	return ErrMissingFile
}

// ParseError reports a document whose content could not be decoded.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap exposes both ErrParse and the decoder's own error.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// NewParseError creates a new ParseError.
func NewParseError(path, message string, err error) *ParseError {
	return &ParseError{
		Path:    path,
		Message: message,
		Err:     err,
	}
}
