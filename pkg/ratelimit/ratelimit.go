// Package ratelimit implements a fixed-window request limiter backed by
// Redis, so limits hold across replicas. Each key gets a counter that is
// incremented per request and expires at the end of the window; the
// first increment of a window sets the expiry.
//
// The limiter fails open: when Redis is unreachable the request is
// allowed and the failure is logged. Dropping traffic because the
// limiter's own dependency is down would turn a Redis outage into an
// API outage.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/StricklySoft/taskhub/pkg/clients/redis"
	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

const keyPrefix = "ratelimit:"

// Default limiter settings: 60 requests per 60-second window.
const (
	DefaultLimit  = 60
	DefaultWindow = 60 * time.Second
)

// Config holds the limiter settings.
type Config struct {
	// Limit is the maximum number of requests allowed per window.
	Limit int `env:"RATE_LIMIT_REQUESTS" envDefault:"60" yaml:"limit" json:"limit"`

	// Window is the fixed window length.
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s" yaml:"window" json:"window"`
}

// Validate checks the limiter settings.
func (c *Config) Validate() error {
	if c.Limit < 1 {
		return taskerr.Newf(taskerr.CodeValidation,
			"ratelimit: limit must be at least 1 (got %d)", c.Limit)
	}
	if c.Window < time.Second {
		return taskerr.Newf(taskerr.CodeValidation,
			"ratelimit: window must be at least 1s (got %s)", c.Window)
	}
	return nil
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Remaining is the number of requests left in the current window.
	Remaining int

	// RetryAfter is how long the caller should wait before retrying.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

// NewLimiter constructs a Limiter over the given Redis client. A nil
// logger falls back to slog.Default. Zero config fields get the
// package defaults.
func NewLimiter(client *redis.Client, cfg Config, logger *slog.Logger) (*Limiter, error) {
	if client == nil {
		return nil, taskerr.New(taskerr.CodeValidation,
			"ratelimit: redis client is required")
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		client: client,
		limit:  cfg.Limit,
		window: cfg.Window,
		logger: logger,
	}, nil
}

// Allow records one request for key and reports whether it fits in the
// current window. Redis failures are logged and the request allowed.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey)
	if err != nil {
		l.logger.WarnContext(ctx, "rate limiter unavailable, allowing request",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return Decision{Allowed: true, Remaining: l.limit}
	}

	// First hit of a fresh window starts its clock. INCR on the server
	// is atomic, so exactly one caller sees count == 1.
	if count == 1 {
		if _, err := l.client.Expire(ctx, redisKey, l.window); err != nil {
			l.logger.WarnContext(ctx, "failed to set rate limit window expiry",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}

	if count > int64(l.limit) {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: l.retryAfter(ctx, redisKey),
		}
	}

	return Decision{
		Allowed:   true,
		Remaining: l.limit - int(count),
	}
}

// Limit returns the configured per-window request cap.
func (l *Limiter) Limit() int {
	return l.limit
}

// retryAfter reads the window's remaining TTL. When the TTL is
// unavailable the full window length is reported, which over-waits
// rather than inviting an immediate retry.
func (l *Limiter) retryAfter(ctx context.Context, redisKey string) time.Duration {
	ttl, err := l.client.TTL(ctx, redisKey)
	if err != nil || ttl <= 0 {
		return l.window
	}
	return ttl
}

// Key builds the limiter key for a request: the path owner when known,
// otherwise the client IP.
func Key(ownerID, clientIP string) string {
	if ownerID != "" {
		return "owner:" + ownerID
	}
	return fmt.Sprintf("ip:%s", clientIP)
}
