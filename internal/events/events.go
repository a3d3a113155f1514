package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened to a task.
type Type string

// Event types emitted by the tracker.
const (
	TaskCreated      Type = "task_created"
	TaskToggled      Type = "task_toggled"
	TaskRecolored    Type = "task_recolored"
	TaskDeleted      Type = "task_deleted"
	TaskReclassified Type = "task_reclassified"
)

// ChangesCount reports whether events of this type alter the number of tasks.
func (t Type) ChangesCount() bool {
	return t == TaskCreated || t == TaskDeleted
}

// TaskEvent describes a single effective mutation of the task list.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type   Type      `json:"type"`
	TaskID uuid.UUID `json:"task_id"`

	// Count is the number of tasks in the list after the mutation
	Count int `json:"count"`

	CreatedAt time.Time `json:"created_at"`
}

// NewTaskEvent creates a TaskEvent stamped with a fresh id and the current time.
func NewTaskEvent(eventType Type, taskID uuid.UUID, count int) *TaskEvent {
	return &TaskEvent{
		ID:        uuid.New(),
		Type:      eventType,
		TaskID:    taskID,
		Count:     count,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// Discard is an EventEmitter that drops every event.
var Discard EventEmitter = discard{}

type discard struct{}

func (discard) EmitEvent(context.Context, *TaskEvent) error { return nil }
