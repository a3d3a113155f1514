package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Advisory AdvisoryConfig `mapstructure:"advisory"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Storage backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StorageConfig selects where the task collection is persisted.
type StorageConfig struct {
	Backend     string `mapstructure:"backend" validate:"required,oneof=file postgres memory"`
	Dir         string `mapstructure:"dir" validate:"required_if=Backend file"`
	Key         string `mapstructure:"key" validate:"required"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
}

// LLMConfig contains all LLM integration related settings.
// An empty GeminiAPIKey runs the classifier in fallback-only mode.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	PromptTemplateDir string `mapstructure:"prompt_template_dir"`
}

// Timeout returns the per-call deadline for remote requests.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base backoff between attempts.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// AdvisoryConfig controls the debounced productivity tip.
type AdvisoryConfig struct {
	DebounceSeconds int  `mapstructure:"debounce_seconds" validate:"gte=0"`
	Enabled         bool `mapstructure:"enabled"`
}

// Debounce returns the idle delay before an advisory is requested.
func (c AdvisoryConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceSeconds) * time.Second
}

// AuthConfig contains API authentication settings. An empty JWTSecret
// disables authentication.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// Enabled reports whether API requests must carry a bearer token.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// TokenLifetime returns how long issued tokens stay valid.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}
