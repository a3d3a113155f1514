package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all backend implementations.
var (
	// ErrNotFound is returned by a Backend when no value is stored under the
	// requested key.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidKey is returned when a key is empty or cannot be mapped to
	// the backend's namespace.
	ErrInvalidKey = errors.New("invalid key")

	// ErrWriteFailed is returned when a backend cannot persist a value.
	ErrWriteFailed = errors.New("write failed")

	// ErrCorruptData is reported when a stored blob cannot be decoded.
	ErrCorruptData = errors.New("corrupt data")
)

// IsNotFoundError checks if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "tasks", "kv_entry")
	Operation string // The operation that failed (e.g., "get", "set")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
