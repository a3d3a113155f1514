package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single tracked work item. Its ID and CreatedAt never change after
// creation; Priority and Completed are mutated in place.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewTask creates an active Task with a fresh UUID and the current time.
// The title is required; an invalid priority is replaced by DefaultPriority.
// Returns an error if validation fails.
func NewTask(title, description string, priority Priority) (*Task, error) {
	return NewTaskAt(title, description, priority, time.Now())
}

// NewTaskAt is NewTask with an explicit creation time. The time is stored in
// UTC with millisecond precision so it survives serialization unchanged.
func NewTaskAt(title, description string, priority Priority, now time.Time) (*Task, error) {
	if !priority.IsValid() {
		priority = DefaultPriority
	}

	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Priority:    priority,
		Completed:   false,
		CreatedAt:   now.UTC().Truncate(time.Millisecond),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if t.CreatedAt.IsZero() {
		return ErrMissingCreatedAt
	}

	return nil
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// SetPriority replaces the priority tier.
// Returns ErrInvalidPriority if p is not a known tier.
func (t *Task) SetPriority(p Priority) error {
	if !p.IsValid() {
		return ErrInvalidPriority
	}
	t.Priority = p
	return nil
}
