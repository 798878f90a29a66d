package bookkeeping

import (
	"errors"
	"fmt"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// Error categories. Every typed error below matches exactly one of these with
// errors.Is.
var (
	// ErrValidation is returned when input is incomplete or inconsistent.
	// Nothing is written.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced record does not exist.
	// Nothing is written.
	ErrNotFound = errors.New("reference not found")

	// ErrStorage is returned when the store rejects a write.
	ErrStorage = store.ErrStorage
)

// StorageError is the store's error type, re-exported for callers that only
// import this package.
type StorageError = store.StorageError

// ValidationError describes the first invalid input field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == nil || e.Value == "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ReferenceNotFoundError reports a missing stock row, party or record.
type ReferenceNotFoundError struct {
	// Kind is the kind of record looked up (e.g., "stock", "debtor").
	Kind string
	// Key is the chassis number, name or id that was not found.
	Key string
	// Message overrides the default description.
	Message string
}

// Error implements the error interface.
func (e *ReferenceNotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Key)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind, key string) *ReferenceNotFoundError {
	return &ReferenceNotFoundError{Kind: kind, Key: key}
}
