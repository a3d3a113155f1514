package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/traffic-tasker/internal/config"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/phrazzld/traffic-tasker/internal/mocks"
	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
	"github.com/phrazzld/traffic-tasker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend, dir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug", ShutdownTimeoutSeconds: 10},
		Storage: config.StorageConfig{
			Backend: backend,
			Dir:     dir,
			Key:     "traffic-light-tasks",
		},
		LLM: config.LLMConfig{
			ModelName:      "gemini-3-flash-preview",
			TimeoutSeconds: 15,
		},
		Advisory: config.AdvisoryConfig{DebounceSeconds: 3, Enabled: true},
		Auth:     config.AuthConfig{TokenLifetimeMinutes: 60},
	}
}

type countingBackend struct {
	store.Backend
	gets int
}

func (b *countingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.gets++
	return b.Backend.Get(ctx, key)
}

func TestNew_FileBackendPersistsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	l, _ := logger.NewTestLogger(t)
	ctx := context.Background()

	classifier := &mocks.MockClassifier{
		ClassifyFn: func(context.Context, string, string) generation.Classification {
			return generation.ClassifiedAs(domain.PriorityHigh)
		},
	}

	first, err := New(ctx, testConfig(config.BackendFile, dir), l, Options{Classifier: classifier})
	require.NoError(t, err)
	_, err = first.Tracker.CreateTask(ctx, "Fix outage", "")
	require.NoError(t, err)
	first.Close()

	second, err := New(ctx, testConfig(config.BackendFile, dir), l, Options{Classifier: classifier})
	require.NoError(t, err)
	defer second.Close()

	tasks := second.Tracker.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Fix outage", tasks[0].Title)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.Nil(t, second.DB())
}

func TestNew_MemoryBackendStartsEmpty(t *testing.T) {
	l, _ := logger.NewTestLogger(t)

	a, err := New(context.Background(), testConfig(config.BackendMemory, ""), l, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Tracker.Tasks())
	assert.False(t, a.Tracker.Busy())
}

func TestNew_WithoutAPIKeyUsesFallbackClassifier(t *testing.T) {
	l, buf := logger.NewTestLogger(t)
	ctx := context.Background()

	a, err := New(ctx, testConfig(config.BackendMemory, ""), l, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, generation.Unavailable{}, a.Classifier)
	logger.AssertLogContains(t, buf, "no Gemini API key configured")

	res, err := a.Tracker.CreateTask(ctx, "Fix outage", "prod down")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityStandard, res.Task.Priority)
	assert.Equal(t, generation.OutcomeFallback, res.Classification.Outcome)
}

func TestNew_InjectedBackend(t *testing.T) {
	l, _ := logger.NewTestLogger(t)
	backend := &countingBackend{Backend: store.NewMemoryBackend()}

	a, err := New(context.Background(), testConfig(config.BackendPostgres, ""), l, Options{
		Backend:    backend,
		Classifier: &mocks.MockClassifier{},
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 1, backend.gets)
	assert.Nil(t, a.DB())
}

func TestOpenBackend_UnknownBackend(t *testing.T) {
	l, _ := logger.NewTestLogger(t)

	_, _, err := OpenBackend(context.Background(), config.StorageConfig{Backend: "redis"}, l)
	assert.ErrorContains(t, err, `unknown storage backend "redis"`)
}

func TestOpenBackend_FileRequiresDir(t *testing.T) {
	l, _ := logger.NewTestLogger(t)

	_, _, err := OpenBackend(context.Background(), config.StorageConfig{Backend: config.BackendFile}, l)
	assert.Error(t, err)
}

func TestNewClassifier_BadPromptDir(t *testing.T) {
	l, _ := logger.NewTestLogger(t)

	cfg := testConfig(config.BackendMemory, "").LLM
	cfg.GeminiAPIKey = "AIzaTestKey"
	cfg.PromptTemplateDir = t.TempDir()
	broken := filepath.Join(cfg.PromptTemplateDir, generation.ClassifyTemplate)
	require.NoError(t, os.WriteFile(broken, []byte("{{ .Title "), 0o600))

	_, err := NewClassifier(context.Background(), cfg, l)
	assert.ErrorContains(t, err, "failed to load prompt templates")
}

func TestTrackerOptions(t *testing.T) {
	opts := TrackerOptions(config.AdvisoryConfig{DebounceSeconds: 5, Enabled: true})
	assert.Equal(t, 5*time.Second, opts.AdvisoryDebounce)
	assert.True(t, opts.AdvisoryEnabled)

	opts = TrackerOptions(config.AdvisoryConfig{DebounceSeconds: 0, Enabled: false})
	assert.Zero(t, opts.AdvisoryDebounce)
	assert.False(t, opts.AdvisoryEnabled)
}
