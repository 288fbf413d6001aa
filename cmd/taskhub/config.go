package main

import (
	"log/slog"
	"time"

	"github.com/StricklySoft/taskhub/pkg/auth"
	"github.com/StricklySoft/taskhub/pkg/clients/postgres"
	"github.com/StricklySoft/taskhub/pkg/clients/redis"
	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
	"github.com/StricklySoft/taskhub/pkg/ratelimit"
)

// Config is the full server configuration. Every field resolves from the
// environment with a TASKHUB_ prefix (e.g. TASKHUB_ADDR,
// TASKHUB_AUTH_JWKS_URL, TASKHUB_POSTGRES_URI), optionally layered over a
// YAML or JSON file named by TASKHUB_CONFIG.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `json:"addr" yaml:"addr" env:"ADDR" envDefault:":8080"`

	// ReadTimeout bounds the time spent reading a request, header included.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" env:"READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout bounds the time from the end of the request header read
	// to the end of the response write.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" env:"WRITE_TIMEOUT" envDefault:"15s"`

	// IdleTimeout bounds how long a keep-alive connection may sit idle.
	IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout" env:"IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout bounds the graceful drain of in-flight requests
	// after a termination signal.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// LogLevel is the minimum slog level: debug, info, warn or error.
	LogLevel string `json:"log_level" yaml:"log_level" env:"LOG_LEVEL" envDefault:"info"`

	// RateLimitEnabled toggles the Redis-backed request limiter. Disabling
	// it removes the middleware entirely rather than setting a huge limit.
	RateLimitEnabled bool `json:"rate_limit_enabled" yaml:"rate_limit_enabled" env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// Auth configures token verification against the identity provider.
	Auth auth.VerifierConfig `json:"auth" yaml:"auth"`

	// Postgres configures the task store connection pool.
	Postgres postgres.Config `json:"postgres" yaml:"postgres"`

	// Redis configures the rate-limit backend.
	Redis redis.Config `json:"redis" yaml:"redis"`

	// RateLimit configures the per-owner request budget.
	RateLimit ratelimit.Config `json:"rate_limit" yaml:"rate_limit"`
}

// Validate checks the server section and delegates to each dependency
// section. Redis and the limiter are validated only when rate limiting is
// enabled, so a limiter-less deployment needs no Redis at all.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return taskerr.New(taskerr.CodeValidationRequired, "config: listen address must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return taskerr.New(taskerr.CodeValidation, "config: shutdown timeout must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return taskerr.Newf(taskerr.CodeValidation, "config: unknown log level %q", c.LogLevel)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Postgres.Validate(); err != nil {
		return err
	}
	if c.RateLimitEnabled {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
		if err := c.RateLimit.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// slogLevel maps the configured level name to its slog.Level. Validate has
// already rejected unknown names.
func (c *Config) slogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
