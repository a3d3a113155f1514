package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// InMemoryEventEmitter calls every registered handler in registration order on
// the emitting goroutine. Handlers added during an emit see the next event.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter returns an emitter with no handlers. A nil logger
// falls back to slog.Default.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{logger: logger.With("component", "task_events")}
}

func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("task event handler registered", "handlers", n)
}

// EmitEvent delivers event to all handlers even when some fail, and returns
// the error of the first handler that failed.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	e.mu.RLock()
	snapshot := slices.Clone(e.handlers)
	e.mu.RUnlock()

	log := e.logger.With("event_type", event.Type, "task_id", event.TaskID, "count", event.Count)
	log.DebugContext(ctx, "dispatching task event", "event_id", event.ID, "handlers", len(snapshot))

	var first error
	for idx, h := range snapshot {
		err := h.HandleEvent(ctx, event)
		if err == nil {
			continue
		}
		log.ErrorContext(ctx, "task event handler failed", "handler", idx, "error", err)
		if first == nil {
			first = err
		}
	}
	return first
}
