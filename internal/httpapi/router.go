package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/StricklySoft/taskhub/pkg/ratelimit"
)

// RouterConfig carries the dependencies of the HTTP surface. Verifier
// and Tasks are required; Limiter and Health are optional (a nil
// Limiter disables rate limiting, a nil Health serves liveness only).
type RouterConfig struct {
	Verifier TokenVerifier
	Tasks    *TaskHandler
	Limiter  *ratelimit.Limiter
	Health   *HealthHandler
	Logger   *slog.Logger
}

// NewRouter builds the TaskHub route tree:
//
//	GET    /health                       aggregate health (no auth)
//	GET    /health/live                  liveness (no auth)
//	GET    /health/ready                 readiness (no auth)
//	GET    /auth/me                      identity echo
//	GET    /api/{userID}/tasks           list tasks
//	POST   /api/{userID}/tasks           create task
//	GET    /api/{userID}/tasks/{taskID}  get task
//	PATCH  /api/{userID}/tasks/{taskID}  update task
//	DELETE /api/{userID}/tasks/{taskID}  delete task
//
// Health endpoints skip authentication and rate limiting so probes keep
// working while the identity provider or Redis is down.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(SecurityHeaders)
	r.Use(RequestLogger(cfg.Logger))

	health := cfg.Health
	if health == nil {
		health = NewHealthHandler()
	}
	r.Get("/health", health.Health)
	r.Get("/health/live", health.Live)
	r.Get("/health/ready", health.Ready)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(cfg.Verifier))
		r.Get("/auth/me", Me)
	})

	r.Route("/api/{userID}/tasks", func(r chi.Router) {
		r.Use(Authenticate(cfg.Verifier))
		if cfg.Limiter != nil {
			r.Use(RateLimit(cfg.Limiter))
		}
		r.Get("/", cfg.Tasks.List)
		r.Post("/", cfg.Tasks.Create)
		r.Get("/{taskID}", cfg.Tasks.Get)
		r.Patch("/{taskID}", cfg.Tasks.Update)
		r.Delete("/{taskID}", cfg.Tasks.Delete)
	})

	return r
}
