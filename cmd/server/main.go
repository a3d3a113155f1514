// Package main implements the traffic-tasker HTTP server, which serves the
// task list and its advisories over a JSON API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/traffic-tasker/internal/app"
	"github.com/phrazzld/traffic-tasker/internal/config"
	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	migrateCmd := flag.String("migrate", "", "run a database migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	if err := run(*configFile, *migrateCmd); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configFile, migrateCmd string) error {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_backend", cfg.Storage.Backend)
	if cfg.Auth.Enabled() {
		l.Debug("auth configuration", "jwt_secret_present", true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, migrateCmd, l)
	}

	a, err := app.New(ctx, cfg, l, app.Options{Background: true})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	router, err := newRouter(a, l)
	if err != nil {
		return err
	}

	a.Start(ctx)
	return startHTTPServer(ctx, cfg.Server, router, l)
}
