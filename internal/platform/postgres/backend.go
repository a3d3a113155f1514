package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
	"github.com/phrazzld/traffic-tasker/internal/store"
)

// DBTX is implemented by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Backend implements store.Backend on the kv_entries table.
type Backend struct {
	db     DBTX
	logger *slog.Logger
}

var _ store.Backend = (*Backend)(nil)

// NewBackend creates a Backend using db, which must already be migrated.
// If logger is nil, a default logger will be used.
func NewBackend(db DBTX, logger *slog.Logger) *Backend {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Backend{
		db:     db,
		logger: logger.With(slog.String("component", "kv_backend")),
	}
}

// Get implements store.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)

	if key == "" {
		return nil, store.ErrInvalidKey
	}

	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	err := b.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		mapped := MapError(err)
		if IsNotFoundError(mapped) {
			log.Debug("kv entry not found", slog.String("key", key))
			return nil, store.ErrNotFound
		}
		log.Error("failed to read kv entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("kv_entry", "get", "query failed", mapped)
	}

	return []byte(value), nil
}

// Set implements store.Backend. It inserts the key or replaces its value.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContextOrDefault(ctx, b.logger)

	if key == "" {
		return store.ErrInvalidKey
	}

	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := b.db.ExecContext(ctx, query, key, string(value)); err != nil {
		log.Error("failed to write kv entry",
			slog.String("key", key),
			slog.Int("bytes", len(value)),
			slog.String("error", err.Error()))
		return store.NewStoreError("kv_entry", "set", "upsert failed", MapError(err))
	}

	log.Debug("kv entry written", slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}
