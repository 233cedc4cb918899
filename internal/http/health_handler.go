package httpapi

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const checkTimeout = 2 * time.Second

type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
	Storage     string
}

// Check probes one backend the service depends on.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type CheckResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type HealthHandler struct {
	info    ServiceInfo
	started time.Time
	checks  []Check
}

func NewHealthHandler(info ServiceInfo, started time.Time, checks ...Check) *HealthHandler {
	return &HealthHandler{info: info, started: started, checks: checks}
}

// runChecks probes every backend in parallel. A failed probe never cancels the others.
func (h *HealthHandler) runChecks(ctx context.Context) ([]CheckResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	results := make([]CheckResult, len(h.checks))
	var g errgroup.Group
	for i, c := range h.checks {
		i, c := i, c
		g.Go(func() error {
			results[i] = CheckResult{Name: c.Name, OK: true}
			if err := c.Probe(ctx); err != nil {
				results[i] = CheckResult{Name: c.Name, OK: false, Error: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait()

	healthy := true
	for _, r := range results {
		healthy = healthy && r.OK
	}
	return results, healthy
}

var endpoints = map[string]string{
	"health":   "/health",
	"products": "/api/products",
	"cart":     "/api/cart",
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to the " + h.info.Name + " API",
		"version":   h.info.Version,
		"storage":   h.info.Storage,
		"endpoints": endpoints,
	})
}

// Health reports 503 with status DEGRADED when any backend check fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":      "OK",
		"timestamp":   timestamp(),
		"uptime":      time.Since(h.started).Seconds(),
		"environment": h.info.Environment,
		"storage":     h.info.Storage,
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		results, healthy := h.runChecks(r.Context())
		body["checks"] = results
		if !healthy {
			body["status"] = "DEGRADED"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, body)
}

func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success":            false,
		"error":              "Route not found",
		"message":            "The requested route " + r.URL.RequestURI() + " does not exist",
		"availableEndpoints": endpoints,
		"timestamp":          timestamp(),
	})
}

func (h *HealthHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" is not supported on "+r.URL.Path, nil)
}
