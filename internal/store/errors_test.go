package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to read key: %w", ErrNotFound),
			expected: true,
		},
		{
			name:     "store error wrapping ErrNotFound",
			err:      NewStoreError("kv_entry", "get", "missing", ErrNotFound),
			expected: true,
		},
		{
			name:     "ErrWriteFailed",
			err:      ErrWriteFailed,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	originalErr := errors.New("disk full")
	storeErr := NewStoreError("tasks", "set", "failed to write blob", originalErr)

	expectedErrorString := "set operation on tasks failed: failed to write blob: disk full"
	if got := storeErr.Error(); got != expectedErrorString {
		t.Errorf("StoreError.Error() = %v, want %v", got, expectedErrorString)
	}

	if got := storeErr.Unwrap(); !errors.Is(got, originalErr) {
		t.Errorf("StoreError.Unwrap() not returning original error")
	}

	if !errors.Is(storeErr, originalErr) {
		t.Errorf("errors.Is() not recognizing the wrapped error")
	}

	bare := NewStoreError("tasks", "get", "no backend", nil)
	if got := bare.Error(); got != "get operation on tasks failed: no backend" {
		t.Errorf("StoreError.Error() = %v", got)
	}
}
