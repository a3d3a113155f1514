package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/traffic-tasker/internal/config"
)

// ParseLevel converts a configured level name into a slog.Level.
// The second return value is false for unknown names, in which case
// slog.LevelInfo is returned.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup initializes the application's JSON logger on stdout at the level
// named in cfg and installs it as the slog default.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return New(cfg.LogLevel, os.Stdout), nil
}

// New builds a JSON logger writing to w and installs it as the slog default.
// An unknown level falls back to info with a warning. The CLI passes stderr
// here so stdout stays free for command output and the MCP transport.
func New(level string, w io.Writer) *slog.Logger {
	parsed, ok := ParseLevel(level)

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parsed}))
	slog.SetDefault(logger)

	if !ok && level != "" {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
	}

	return logger
}
