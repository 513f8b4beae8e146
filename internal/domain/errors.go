package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a client, debt or payment id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrencyConflict is returned when an optimistic version check
	// fails. The operation is safe to retry.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	// ErrNotAuthorized is returned when the acting user may not operate on
	// the target client.
	ErrNotAuthorized = errors.New("not authorized for client")

	// ErrAlreadyValidated is returned when validating a payment twice.
	ErrAlreadyValidated = errors.New("payment already validated")
)

// ValidationError reports bad caller input. It is never retried.
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

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
