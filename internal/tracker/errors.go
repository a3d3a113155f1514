package tracker

import "errors"

var (
	// ErrBusy is returned when a task is created while a previous creation is
	// still waiting for its classification.
	ErrBusy = errors.New("a task is already being classified")

	// ErrTaskNotFound is returned when an operation names an unknown task id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskGone is returned when an asynchronous result arrives for a task
	// that was deleted in the meantime. The list is left unchanged.
	ErrTaskGone = errors.New("task no longer exists")
)

// ErrAmbiguousRef is returned by Resolve when an id prefix matches more than
// one task.
var ErrAmbiguousRef = errors.New("task reference matches more than one task")
