package handler

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthCheck probes one dependency. A nil error means it is reachable.
type HealthCheck func(ctx context.Context) error

func DatabaseCheck(db *sql.DB) HealthCheck {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}

func RedisCheck(client *redis.Client) HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

type HealthHandler struct {
	checks    map[string]HealthCheck
	startTime time.Time
	version   string
	timeout   time.Duration
}

func NewHealthHandler(version string, checks map[string]HealthCheck) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		checks:    checks,
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a simple liveness check - just confirms the Go process is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.response("UP", map[string]Check{"process": {Status: "UP"}}))
}

// Live is an alias for Health - simple liveness check
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready reports DOWN with 503 when any dependency check fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]Check, len(names))
	status, httpStatus := "UP", http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = Check{Status: "DOWN", Message: "Cannot connect to " + name}
			status, httpStatus = "DOWN", http.StatusServiceUnavailable
			continue
		}
		checks[name] = Check{Status: "UP"}
	}

	writeJSON(w, httpStatus, h.response(status, checks))
}

func (h *HealthHandler) response(status string, checks map[string]Check) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
}
