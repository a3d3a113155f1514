package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/traffic-tasker/internal/config"
	"github.com/phrazzld/traffic-tasker/internal/events"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/phrazzld/traffic-tasker/internal/platform/filestore"
	"github.com/phrazzld/traffic-tasker/internal/platform/gemini"
	"github.com/phrazzld/traffic-tasker/internal/platform/postgres"
	"github.com/phrazzld/traffic-tasker/internal/store"
	"github.com/phrazzld/traffic-tasker/internal/tracker"
)

// Options adjusts how New builds the application.
type Options struct {
	// Background disables the debounced advisory when false. One-shot
	// commands leave it off and ask for advisories explicitly.
	Background bool

	// Classifier replaces the configured classifier when non-nil.
	Classifier generation.Classifier

	// Backend replaces the configured storage backend when non-nil.
	Backend store.Backend
}

// App holds the shared dependencies and owns their cleanup.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Store      *store.TaskStore
	Emitter    *events.InMemoryEventEmitter
	Classifier generation.Classifier
	Tracker    *tracker.Tracker

	db *sql.DB
}

// New builds the application from cfg. The task list is loaded before New
// returns; Start must still be called to schedule the initial advisory.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	backend := opts.Backend
	if backend == nil {
		var err error
		backend, a.db, err = OpenBackend(ctx, cfg.Storage, logger)
		if err != nil {
			return nil, err
		}
	}

	var err error
	a.Store, err = store.NewTaskStore(backend, cfg.Storage.Key, logger)
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("failed to create task store: %w", err)
	}
	loaded := a.Store.Load(ctx)

	a.Classifier = opts.Classifier
	if a.Classifier == nil {
		a.Classifier, err = NewClassifier(ctx, cfg.LLM, logger)
		if err != nil {
			a.closeDB()
			return nil, err
		}
	}

	a.Emitter = events.NewInMemoryEventEmitter(logger)

	trackerOpts := TrackerOptions(cfg.Advisory)
	trackerOpts.AdvisoryEnabled = trackerOpts.AdvisoryEnabled && opts.Background
	a.Tracker, err = tracker.New(a.Store, a.Classifier, a.Emitter, logger, trackerOpts)
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("failed to create tracker: %w", err)
	}

	logger.Info("application initialized",
		"storage_backend", cfg.Storage.Backend,
		"tasks_loaded", loaded,
		"advisory_enabled", trackerOpts.AdvisoryEnabled)
	return a, nil
}

// Start schedules the initial advisory for a non-empty loaded list.
func (a *App) Start(ctx context.Context) {
	a.Tracker.Start(ctx)
}

// DB returns the database connection, or nil for non-postgres backends.
func (a *App) DB() *sql.DB {
	return a.db
}

// Close stops background work and releases the database connection.
func (a *App) Close() {
	if a.Tracker != nil {
		a.Tracker.Close()
	}
	a.closeDB()
	a.Logger.Info("application shutdown completed")
}

func (a *App) closeDB() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.Logger.Error("error closing database connection", "error", err)
	}
	a.db = nil
}

// TrackerOptions converts the advisory settings into tracker options.
func TrackerOptions(cfg config.AdvisoryConfig) tracker.Options {
	opts := tracker.DefaultOptions()
	opts.AdvisoryDebounce = cfg.Debounce()
	opts.AdvisoryEnabled = cfg.Enabled
	return opts
}

// OpenBackend creates the storage backend named by cfg.Backend. For postgres
// the schema is migrated and the connection is returned so it can be closed.
func OpenBackend(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.Backend, *sql.DB, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil, nil

	case config.BackendFile:
		backend, err := filestore.New(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		logger.Debug("using file storage", "dir", backend.Dir())
		return backend, nil, nil

	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return postgres.NewBackend(db, logger), db, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewClassifier returns the Gemini-backed classifier, or generation.Unavailable
// with a single warning when no API key is configured.
func NewClassifier(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Classifier, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("no Gemini API key configured, tasks will be classified as standard")
		return generation.Unavailable{}, nil
	}

	prompts := generation.DefaultPrompts()
	if cfg.PromptTemplateDir != "" {
		var err error
		prompts, err = generation.LoadPrompts(cfg.PromptTemplateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt templates: %w", err)
		}
	}

	generator, err := gemini.NewGenerator(ctx, logger.With("component", "llm_generator"), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}

	service, err := generation.NewService(generator, prompts, cfg.Timeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	logger.Info("LLM classifier initialized", "model", cfg.ModelName)
	return service, nil
}
