package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/traffic-tasker/internal/config"
	"github.com/phrazzld/traffic-tasker/internal/platform/postgres"
)

// handleMigrations runs a goose command against the configured database.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Storage.Backend != config.BackendPostgres || cfg.Storage.DatabaseURL == "" {
		return errors.New("migrations need storage.backend=postgres and storage.database_url")
	}

	db, err := postgres.Open(ctx, cfg.Storage.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	logger.Info("executing migrations", "command", command)
	return postgres.Migrate(ctx, db, command, logger)
}
