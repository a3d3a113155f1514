package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/events"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/phrazzld/traffic-tasker/internal/mocks"
	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
	"github.com/phrazzld/traffic-tasker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tracker    *Tracker
	store      *store.TaskStore
	backend    *store.MemoryBackend
	classifier *mocks.MockClassifier
	emitter    *events.InMemoryEventEmitter
	logs       *logger.TestLogBuffer
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	return newFixtureWithBackend(t, store.NewMemoryBackend(), opts)
}

func newFixtureWithBackend(t *testing.T, backend *store.MemoryBackend, opts Options) *fixture {
	t.Helper()

	l, logs := logger.NewTestLogger(t)
	ts, err := store.NewTaskStore(backend, store.DefaultKey, l)
	require.NoError(t, err)
	ts.Load(context.Background())

	classifier := &mocks.MockClassifier{}
	emitter := events.NewInMemoryEventEmitter(l)

	tr, err := New(ts, classifier, emitter, l, opts)
	require.NoError(t, err)
	t.Cleanup(tr.Close)

	return &fixture{
		tracker:    tr,
		store:      ts,
		backend:    backend,
		classifier: classifier,
		emitter:    emitter,
		logs:       logs,
	}
}

func noAdvisory() Options {
	return Options{AdvisoryEnabled: false}
}

func TestNew_Validation(t *testing.T) {
	l, _ := logger.NewTestLogger(t)
	ts, err := store.NewTaskStore(store.NewMemoryBackend(), store.DefaultKey, l)
	require.NoError(t, err)

	_, err = New(nil, &mocks.MockClassifier{}, nil, l, DefaultOptions())
	assert.Error(t, err)

	_, err = New(ts, nil, nil, l, DefaultOptions())
	assert.Error(t, err)

	_, err = New(ts, &mocks.MockClassifier{}, nil, nil, DefaultOptions())
	assert.Error(t, err)

	tr, err := New(ts, &mocks.MockClassifier{}, nil, l, DefaultOptions())
	require.NoError(t, err)
	tr.Close()
}

func TestCreateTask_UsesClassification(t *testing.T) {
	f := newFixture(t, noAdvisory())
	f.classifier.ClassifyFn = func(context.Context, string, string) generation.Classification {
		return generation.ClassifiedAs(domain.PriorityHigh)
	}

	res, err := f.tracker.CreateTask(context.Background(), "Fix outage", "prod is down")
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityHigh, res.Task.Priority)
	assert.False(t, res.Task.Completed)
	assert.Equal(t, generation.OutcomeSuccess, res.Classification.Outcome)
	assert.Equal(t, []string{"Fix outage"}, f.classifier.ClassifyTitles())

	stored, ok := f.tracker.Task(res.Task.ID)
	require.True(t, ok)
	assert.Equal(t, res.Task, stored)
	assert.False(t, f.tracker.Busy())
}

// A create whose remote call fails lands at the default priority, active.
func TestCreateTask_FailingRemoteFallsBack(t *testing.T) {
	l, _ := logger.NewTestLogger(t)
	ts, err := store.NewTaskStore(store.NewMemoryBackend(), store.DefaultKey, l)
	require.NoError(t, err)

	svc, err := generation.NewService(
		mocks.NewMockTextGeneratorWithError(errors.New("503 unavailable")), nil, time.Second, l)
	require.NoError(t, err)

	tr, err := New(ts, svc, nil, l, noAdvisory())
	require.NoError(t, err)
	defer tr.Close()

	res, err := tr.CreateTask(context.Background(), "Fix outage", "")
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityStandard, res.Task.Priority)
	assert.False(t, res.Task.Completed)
	assert.Equal(t, "", res.Task.Description)
	assert.True(t, res.Classification.IsFallback())
	assert.Equal(t, 1, ts.Len())
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	f := newFixture(t, noAdvisory())

	_, err := f.tracker.CreateTask(context.Background(), "   ", "desc")
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Empty(t, f.classifier.ClassifyTitles(), "blank titles never reach the classifier")
	assert.Equal(t, 0, f.store.Len())
}

func TestCreateTask_RejectsWhileBusy(t *testing.T) {
	f := newFixture(t, noAdvisory())

	entered := make(chan struct{})
	release := make(chan struct{})
	f.classifier.ClassifyFn = func(context.Context, string, string) generation.Classification {
		close(entered)
		<-release
		return generation.ClassifiedAs(domain.PriorityLow)
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.tracker.CreateTask(context.Background(), "first", "")
	}()

	<-entered
	assert.True(t, f.tracker.Busy())

	_, err := f.tracker.CreateTask(context.Background(), "second", "")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	assert.False(t, f.tracker.Busy())
	tasks := f.tracker.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Title)
}

func TestCreateTask_PersistsThroughBackend(t *testing.T) {
	backend := store.NewMemoryBackend()
	f := newFixtureWithBackend(t, backend, noAdvisory())

	res, err := f.tracker.CreateTask(context.Background(), "Write report", "")
	require.NoError(t, err)

	reloaded := newFixtureWithBackend(t, backend, noAdvisory())
	tasks := reloaded.tracker.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, res.Task, tasks[0])
}

func TestToggle(t *testing.T) {
	f := newFixture(t, noAdvisory())
	res, err := f.tracker.CreateTask(context.Background(), "Call vendor", "")
	require.NoError(t, err)

	toggled, err := f.tracker.Toggle(context.Background(), res.Task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = f.tracker.Toggle(context.Background(), res.Task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = f.tracker.Toggle(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSetPriority(t *testing.T) {
	f := newFixture(t, noAdvisory())
	res, err := f.tracker.CreateTask(context.Background(), "Call vendor", "")
	require.NoError(t, err)

	updated, err := f.tracker.SetPriority(context.Background(), res.Task.ID, domain.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, updated.Priority)

	_, err = f.tracker.SetPriority(context.Background(), res.Task.ID, "purple")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = f.tracker.SetPriority(context.Background(), uuid.New(), domain.PriorityHigh)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	stored, _ := f.tracker.Task(res.Task.ID)
	assert.Equal(t, domain.PriorityLow, stored.Priority)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, noAdvisory())
	res, err := f.tracker.CreateTask(context.Background(), "Call vendor", "")
	require.NoError(t, err)

	before := f.tracker.Tasks()
	assert.False(t, f.tracker.Delete(context.Background(), uuid.New()))
	assert.Equal(t, before, f.tracker.Tasks())

	assert.True(t, f.tracker.Delete(context.Background(), res.Task.ID))
	assert.Empty(t, f.tracker.Tasks())
}

func TestReclassify(t *testing.T) {
	f := newFixture(t, noAdvisory())
	res, err := f.tracker.CreateTask(context.Background(), "Plan offsite", "")
	require.NoError(t, err)

	f.classifier.ClassifyFn = func(context.Context, string, string) generation.Classification {
		return generation.ClassifiedAs(domain.PriorityLow)
	}

	out, err := f.tracker.Reclassify(context.Background(), res.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, out.Task.Priority)

	_, err = f.tracker.Reclassify(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestReclassify_TaskDeletedDuringCall(t *testing.T) {
	f := newFixture(t, noAdvisory())
	res, err := f.tracker.CreateTask(context.Background(), "Plan offsite", "")
	require.NoError(t, err)

	f.classifier.ClassifyFn = func(ctx context.Context, _, _ string) generation.Classification {
		f.tracker.Delete(ctx, res.Task.ID)
		return generation.ClassifiedAs(domain.PriorityHigh)
	}

	_, err = f.tracker.Reclassify(context.Background(), res.Task.ID)
	assert.ErrorIs(t, err, ErrTaskGone)
	assert.Empty(t, f.tracker.Tasks())
}

func TestEmitsEventPerMutation(t *testing.T) {
	f := newFixture(t, noAdvisory())

	var mu sync.Mutex
	var seen []events.Type
	f.emitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.TaskEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Type)
		return nil
	}))

	ctx := context.Background()
	res, err := f.tracker.CreateTask(ctx, "Ship release", "")
	require.NoError(t, err)
	_, err = f.tracker.Toggle(ctx, res.Task.ID)
	require.NoError(t, err)
	_, err = f.tracker.SetPriority(ctx, res.Task.ID, domain.PriorityHigh)
	require.NoError(t, err)
	_, err = f.tracker.Reclassify(ctx, res.Task.ID)
	require.NoError(t, err)
	f.tracker.Delete(ctx, uuid.New())
	f.tracker.Delete(ctx, res.Task.ID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []events.Type{
		events.TaskCreated,
		events.TaskToggled,
		events.TaskRecolored,
		events.TaskReclassified,
		events.TaskDeleted,
	}, seen)
}

func fastAdvisory() Options {
	return Options{AdvisoryEnabled: true, AdvisoryDebounce: 20 * time.Millisecond}
}

func TestAdvisory_DebouncedOnCountChange(t *testing.T) {
	f := newFixture(t, fastAdvisory())
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := f.tracker.CreateTask(ctx, title, "")
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		_, ok := f.tracker.Advisory()
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, f.classifier.SummarizeCount(), "a burst of creates yields one advisory")

	calls := f.classifier.SummarizeCalls()
	assert.Len(t, calls[0], 3)

	adv, ok := f.tracker.Advisory()
	require.True(t, ok)
	assert.Equal(t, "mock advice", adv.Text)
	assert.Equal(t, generation.OutcomeSuccess, adv.Outcome)
}

func TestAdvisory_NotTriggeredBySameCountMutations(t *testing.T) {
	f := newFixture(t, fastAdvisory())
	ctx := context.Background()

	res, err := f.tracker.CreateTask(ctx, "one", "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.classifier.SummarizeCount() == 1 },
		2*time.Second, 5*time.Millisecond)

	_, err = f.tracker.Toggle(ctx, res.Task.ID)
	require.NoError(t, err)
	_, err = f.tracker.SetPriority(ctx, res.Task.ID, domain.PriorityLow)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, f.classifier.SummarizeCount())
}

func TestAdvisory_EmptyListSkipsRequest(t *testing.T) {
	f := newFixture(t, fastAdvisory())
	ctx := context.Background()

	f.tracker.Start(ctx)
	res, err := f.tracker.CreateTask(ctx, "one", "")
	require.NoError(t, err)
	f.tracker.Delete(ctx, res.Task.ID)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, f.classifier.SummarizeCount())

	_, ok := f.tracker.Advisory()
	assert.False(t, ok)

	_, ok = f.tracker.RefreshAdvisory(ctx)
	assert.False(t, ok)
	assert.Equal(t, 0, f.classifier.SummarizeCount())
}

func TestStart_TriggersInitialAdvisoryForLoadedTasks(t *testing.T) {
	backend := store.NewMemoryBackend()
	seed := newFixtureWithBackend(t, backend, noAdvisory())
	_, err := seed.tracker.CreateTask(context.Background(), "carry over", "")
	require.NoError(t, err)

	f := newFixtureWithBackend(t, backend, fastAdvisory())
	f.tracker.Start(context.Background())

	require.Eventually(t, func() bool { return f.classifier.SummarizeCount() == 1 },
		2*time.Second, 5*time.Millisecond)
}

func TestAdvisory_DisabledNeverSummarizes(t *testing.T) {
	f := newFixture(t, Options{AdvisoryEnabled: false})
	ctx := context.Background()

	f.tracker.Start(ctx)
	_, err := f.tracker.CreateTask(ctx, "one", "")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, f.classifier.SummarizeCount())
}

func TestRefreshAdvisory_Fallback(t *testing.T) {
	f := newFixture(t, noAdvisory())
	f.classifier.SummarizeFn = func(context.Context, []domain.Task) generation.Advisory {
		return generation.FallbackAdvisory(errors.New("boom"))
	}

	_, err := f.tracker.CreateTask(context.Background(), "one", "")
	require.NoError(t, err)

	adv, ok := f.tracker.RefreshAdvisory(context.Background())
	require.True(t, ok)
	assert.Equal(t, generation.FallbackAdvisoryText, adv.Text)
	assert.True(t, adv.IsFallback())
}

func TestProduceAdvisory_StaleGenerationDoesNotOverwrite(t *testing.T) {
	f := newFixture(t, noAdvisory())
	_, err := f.tracker.CreateTask(context.Background(), "one", "")
	require.NoError(t, err)

	f.classifier.SummarizeFn = func(context.Context, []domain.Task) generation.Advisory {
		return generation.AdvisedAs("newer")
	}
	require.True(t, f.tracker.produceAdvisory(context.Background(), 5))

	f.classifier.SummarizeFn = func(context.Context, []domain.Task) generation.Advisory {
		return generation.AdvisedAs("older")
	}
	require.True(t, f.tracker.produceAdvisory(context.Background(), 3))

	adv, ok := f.tracker.Advisory()
	require.True(t, ok)
	assert.Equal(t, "newer", adv.Text)
	assert.Equal(t, uint64(5), adv.Generation)
}
