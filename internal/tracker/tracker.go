package tracker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/events"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/phrazzld/traffic-tasker/internal/schedule"
	"github.com/phrazzld/traffic-tasker/internal/store"
)

// DefaultAdvisoryDebounce is the idle delay before an advisory is requested.
const DefaultAdvisoryDebounce = 3 * time.Second

// Options tunes a Tracker.
type Options struct {
	// AdvisoryDebounce is the idle delay after a change in task count
	AdvisoryDebounce time.Duration

	// AdvisoryEnabled turns the debounced advisory on or off
	AdvisoryEnabled bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns Options with the advisory enabled at the default delay.
func DefaultOptions() Options {
	return Options{
		AdvisoryDebounce: DefaultAdvisoryDebounce,
		AdvisoryEnabled:  true,
	}
}

// AdvisoryState is the latest advisory along with the debounce generation
// that produced it.
type AdvisoryState struct {
	generation.Advisory
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateResult is the outcome of CreateTask.
type CreateResult struct {
	Task           domain.Task               `json:"task"`
	Classification generation.Classification `json:"classification"`
}

// Tracker coordinates the store, the classifier and the advisory scheduler.
type Tracker struct {
	store      *store.TaskStore
	classifier generation.Classifier
	emitter    *events.InMemoryEventEmitter
	logger     *slog.Logger
	opts       Options

	busy      atomic.Bool
	debouncer *schedule.Debouncer

	advMu     sync.RWMutex
	advisory  AdvisoryState
	hasAdvice bool

	countMu   sync.Mutex
	lastCount int
}

// New creates a Tracker. A nil emitter gets a private one; either way the
// tracker registers its advisory trigger on it.
func New(
	taskStore *store.TaskStore,
	classifier generation.Classifier,
	emitter *events.InMemoryEventEmitter,
	logger *slog.Logger,
	opts Options,
) (*Tracker, error) {
	if taskStore == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if classifier == nil {
		return nil, errors.New("classifier cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if emitter == nil {
		emitter = events.NewInMemoryEventEmitter(logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AdvisoryDebounce < 0 {
		opts.AdvisoryDebounce = 0
	}

	t := &Tracker{
		store:      taskStore,
		classifier: classifier,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "tracker")),
		opts:       opts,
		lastCount:  taskStore.Len(),
	}
	t.debouncer = schedule.NewDebouncer(opts.AdvisoryDebounce, t.runAdvisory, logger)
	emitter.RegisterHandler(events.HandlerFunc(t.handleEvent))

	return t, nil
}

// Start schedules the initial advisory when the loaded list is non-empty.
func (t *Tracker) Start(ctx context.Context) {
	count := t.store.Len()
	t.countMu.Lock()
	t.lastCount = count
	t.countMu.Unlock()

	t.logger.InfoContext(ctx, "tracker started", "task_count", count)
	if count > 0 && t.opts.AdvisoryEnabled {
		t.debouncer.Trigger()
	}
}

// Close stops the advisory scheduler and waits for a running request.
func (t *Tracker) Close() {
	t.debouncer.Stop()
}

// Busy reports whether a create is waiting for its classification.
func (t *Tracker) Busy() bool {
	return t.busy.Load()
}

// CreateTask classifies and adds a new active task. The title must not be
// blank. Classification failures fall back to the default priority.
func (t *Tracker) CreateTask(ctx context.Context, title, description string) (CreateResult, error) {
	if strings.TrimSpace(title) == "" {
		return CreateResult{}, domain.ErrEmptyTitle
	}

	if !t.busy.CompareAndSwap(false, true) {
		t.logger.WarnContext(ctx, "rejecting create while classification in flight")
		return CreateResult{}, ErrBusy
	}
	defer t.busy.Store(false)

	classification := t.classifier.Classify(ctx, title, description)

	task, err := domain.NewTaskAt(title, description, classification.Priority, t.opts.Now())
	if err != nil {
		return CreateResult{}, err
	}
	t.store.Add(ctx, *task)

	t.logger.InfoContext(ctx, "task created",
		"task_id", task.ID,
		"priority", task.Priority,
		"outcome", classification.Outcome)
	t.emit(ctx, events.TaskCreated, task.ID)

	return CreateResult{Task: *task, Classification: classification}, nil
}

// Toggle flips the completion flag of a task.
func (t *Tracker) Toggle(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	task, ok := t.store.ToggleComplete(ctx, id)
	if !ok {
		return domain.Task{}, ErrTaskNotFound
	}
	t.emit(ctx, events.TaskToggled, id)
	return task, nil
}

// SetPriority recolors a task, overriding any earlier classification.
func (t *Tracker) SetPriority(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Task, error) {
	if !p.IsValid() {
		return domain.Task{}, domain.ErrInvalidPriority
	}
	task, ok := t.store.SetPriority(ctx, id, p)
	if !ok {
		return domain.Task{}, ErrTaskNotFound
	}
	t.emit(ctx, events.TaskRecolored, id)
	return task, nil
}

// Delete removes a task. Deleting an unknown id is a no-op and reports false.
func (t *Tracker) Delete(ctx context.Context, id uuid.UUID) bool {
	if !t.store.Remove(ctx, id) {
		return false
	}
	t.emit(ctx, events.TaskDeleted, id)
	return true
}

// Reclassify asks the classifier again for an existing task. The result is
// applied only if the task still exists once the call returns.
func (t *Tracker) Reclassify(ctx context.Context, id uuid.UUID) (CreateResult, error) {
	task, ok := t.store.Get(id)
	if !ok {
		return CreateResult{}, ErrTaskNotFound
	}

	classification := t.classifier.Classify(ctx, task.Title, task.Description)

	updated, ok := t.store.SetPriority(ctx, id, classification.Priority)
	if !ok {
		t.logger.InfoContext(ctx, "dropping classification for deleted task", "task_id", id)
		return CreateResult{}, ErrTaskGone
	}
	t.emit(ctx, events.TaskReclassified, id)

	return CreateResult{Task: updated, Classification: classification}, nil
}

// Tasks returns the list in display order.
func (t *Tracker) Tasks() []domain.Task {
	return t.store.List()
}

// Task returns a single task.
func (t *Tracker) Task(id uuid.UUID) (domain.Task, bool) {
	return t.store.Get(id)
}

// Advisory returns the latest advisory. The second result is false when no
// advisory has been produced yet or the list is empty.
func (t *Tracker) Advisory() (AdvisoryState, bool) {
	if t.store.Len() == 0 {
		return AdvisoryState{}, false
	}
	t.advMu.RLock()
	defer t.advMu.RUnlock()
	return t.advisory, t.hasAdvice
}

// RefreshAdvisory requests an advisory immediately, superseding any pending
// debounced request. An empty list skips the request and reports false.
func (t *Tracker) RefreshAdvisory(ctx context.Context) (AdvisoryState, bool) {
	t.debouncer.Cancel()
	gen := t.debouncer.Generation()
	if !t.produceAdvisory(ctx, gen) {
		return AdvisoryState{}, false
	}
	return t.Advisory()
}

func (t *Tracker) emit(ctx context.Context, eventType events.Type, id uuid.UUID) {
	event := events.NewTaskEvent(eventType, id, t.store.Len())
	if err := t.emitter.EmitEvent(ctx, event); err != nil {
		t.logger.WarnContext(ctx, "event handler failed",
			"event_type", eventType,
			"task_id", id,
			"error", err)
	}
}

// handleEvent triggers the debounced advisory when the task count changes.
func (t *Tracker) handleEvent(ctx context.Context, event *events.TaskEvent) error {
	t.countMu.Lock()
	changed := event.Count != t.lastCount
	t.lastCount = event.Count
	t.countMu.Unlock()

	if !changed || !t.opts.AdvisoryEnabled {
		return nil
	}

	gen := t.debouncer.Trigger()
	t.logger.DebugContext(ctx, "advisory refresh scheduled",
		"generation", gen,
		"count", event.Count)
	return nil
}

func (t *Tracker) runAdvisory(ctx context.Context, gen uint64) {
	t.produceAdvisory(ctx, gen)
}

// produceAdvisory summarizes the current list and stores the result unless a
// newer generation has already been stored.
func (t *Tracker) produceAdvisory(ctx context.Context, gen uint64) bool {
	tasks := t.store.List()
	if len(tasks) == 0 {
		t.logger.DebugContext(ctx, "skipping advisory for empty list", "generation", gen)
		return false
	}

	advisory := t.classifier.Summarize(ctx, tasks)

	t.advMu.Lock()
	defer t.advMu.Unlock()
	if t.hasAdvice && t.advisory.Generation > gen {
		t.logger.DebugContext(ctx, "discarding stale advisory",
			"generation", gen,
			"current_generation", t.advisory.Generation)
		return true
	}
	t.advisory = AdvisoryState{
		Advisory:   advisory,
		Generation: gen,
		UpdatedAt:  t.opts.Now().UTC(),
	}
	t.hasAdvice = true

	t.logger.InfoContext(ctx, "advisory updated",
		"generation", gen,
		"outcome", advisory.Outcome)
	return true
}
