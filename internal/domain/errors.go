// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTaskID is returned when a task has a nil identifier.
	ErrEmptyTaskID = errors.New("task ID cannot be empty")

	// ErrEmptyTitle is returned when a task title is empty or whitespace only.
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrInvalidPriority is returned when a priority is not one of the known tiers.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrMissingCreatedAt is returned when a task has no creation timestamp.
	ErrMissingCreatedAt = errors.New("task creation time cannot be empty")
)
