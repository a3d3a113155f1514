package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/traffic-tasker/internal/domain"
)

// DefaultKey is the storage key the task collection is persisted under.
const DefaultKey = "traffic-light-tasks"

// TaskStore is the ordered task collection. New tasks are prepended, every
// mutation rewrites the whole collection to the backend, and mutations on an
// unknown id are silent no-ops.
//
// Persistence failures never reach the caller. They are logged and the
// in-memory state stays authoritative until the next successful write.
type TaskStore struct {
	mu      sync.RWMutex
	backend Backend
	key     string
	logger  *slog.Logger
	tasks   []domain.Task
}

// NewTaskStore creates an empty store persisting to key through backend.
// Call Load to rehydrate previously saved tasks.
func NewTaskStore(backend Backend, key string, logger *slog.Logger) (*TaskStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if key == "" {
		return nil, fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		backend: backend,
		key:     key,
		logger:  logger.With(slog.String("component", "task_store"), slog.String("key", key)),
	}, nil
}

// Load replaces the in-memory collection with the persisted one and returns
// the number of tasks loaded. A missing or undecodable value yields an empty
// collection.
func (s *TaskStore) Load(ctx context.Context) int {
	tasks, err := s.read(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.DebugContext(ctx, "no persisted tasks, starting empty")
		} else {
			s.logger.WarnContext(ctx, "discarding persisted tasks", slog.String("error", err.Error()))
		}
		tasks = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	return len(s.tasks)
}

func (s *TaskStore) read(ctx context.Context) ([]domain.Task, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, NewStoreError("tasks", "load", "failed to decode collection",
			fmt.Errorf("%w: %v", ErrCorruptData, err))
	}
	return tasks, nil
}

// persist writes the current collection. Callers must hold s.mu.
func (s *TaskStore) persist(ctx context.Context) {
	tasks := s.tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}

	raw, err := json.Marshal(tasks)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode tasks", slog.String("error", err.Error()))
		return
	}

	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		storeErr := NewStoreError("tasks", "save", "failed to persist collection", err)
		s.logger.ErrorContext(ctx, "failed to persist tasks",
			slog.String("error", storeErr.Error()),
			slog.Int("task_count", len(tasks)))
	}
}

func (s *TaskStore) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

// Add prepends task to the collection. It returns false without changing
// anything if a task with the same id is already present.
func (s *TaskStore) Add(ctx context.Context, task domain.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(task.ID) >= 0 {
		s.logger.WarnContext(ctx, "ignoring duplicate task id", slog.String("task_id", task.ID.String()))
		return false
	}

	s.tasks = slices.Insert(s.tasks, 0, task)
	s.persist(ctx)
	return true
}

// ToggleComplete flips the completion flag of the task with the given id and
// returns the updated task.
func (s *TaskStore) ToggleComplete(ctx context.Context, id uuid.UUID) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}

	s.tasks[i].Toggle()
	s.persist(ctx)
	return s.tasks[i], true
}

// SetPriority replaces the priority of the task with the given id. An unknown
// id or an invalid priority leaves the collection unchanged.
func (s *TaskStore) SetPriority(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	if err := s.tasks[i].SetPriority(p); err != nil {
		return s.tasks[i], false
	}

	s.persist(ctx)
	return s.tasks[i], true
}

// Remove deletes the task with the given id and reports whether it existed.
func (s *TaskStore) Remove(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.persist(ctx)
	return true
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id uuid.UUID) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i], true
}

// List returns the tasks in display order.
func (s *TaskStore) List() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.SortForDisplay(s.tasks)
}

// Snapshot returns the tasks in storage order, newest insertion first.
func (s *TaskStore) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}
