package services

import (
	"errors"
	"fmt"
)

// Sentinels the API layer maps to HTTP status codes. Store errors are wrapped
// with these so callers never import the store package.
var (
	ErrNotFound               = errors.New("journey session not found")
	ErrAlreadyExists          = errors.New("journey session already exists")
	ErrConcurrentModification = errors.New("journey session was modified concurrently")
)

// ValidationError reports a rejected request field, e.g. an empty message or
// an over-long founder name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
