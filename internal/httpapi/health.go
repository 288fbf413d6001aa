package httpapi

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 5 * time.Second

// Checker reports the health of a single dependency. Implemented by the
// postgres and redis clients.
type Checker interface {
	Health(ctx context.Context) error
}

// HealthHandler serves the health endpoints. Dependencies are checked
// in registration order with a shared timeout.
type HealthHandler struct {
	names    []string
	checkers []Checker
}

// NewHealthHandler constructs a HealthHandler with no dependencies
// registered.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Register adds a named dependency check.
func (h *HealthHandler) Register(name string, c Checker) {
	h.names = append(h.names, name)
	h.checkers = append(h.checkers, c)
}

type dependencyStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthReport struct {
	Status       string             `json:"status"`
	Dependencies []dependencyStatus `json:"dependencies,omitempty"`
}

func (h *HealthHandler) check(ctx context.Context) healthReport {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	report := healthReport{Status: "healthy"}
	for i, c := range h.checkers {
		dep := dependencyStatus{Name: h.names[i], Status: "healthy"}
		if err := c.Health(ctx); err != nil {
			dep.Status = "unhealthy"
			dep.Error = err.Error()
			report.Status = "unhealthy"
		}
		report.Dependencies = append(report.Dependencies, dep)
	}
	return report
}

// Health handles GET /health. The response is always 200: the process
// is up and able to answer, the body says how well.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.check(r.Context()))
}

// Live handles GET /health/live. Liveness is unconditional: if this
// handler runs, the process is alive.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Ready handles GET /health/ready. Readiness requires every dependency
// to pass; otherwise 503 so load balancers stop routing here.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	report := h.check(r.Context())
	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeData(w, status, report)
}
