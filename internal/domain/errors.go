package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a unique key (model number, invoice number) is already taken
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when the resource is not in a state that allows the operation
	ErrConflict = errors.New("conflict occurred")

	// ErrInvalidPaymentProof is returned when a payment signature does not verify
	ErrInvalidPaymentProof = errors.New("invalid payment proof")

	// ErrInsufficientStock is returned when a sale exceeds the dealer's available quantity
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStorage is returned when the data store is unreachable or a write failed; callers may retry
	ErrStorage = errors.New("storage failure")
)

// ValidationError describes a single invalid field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is makes ValidationError match ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
