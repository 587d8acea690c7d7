package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
	}
}

// ServeHTTP handles GET /health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ReadinessChecker probes a single upstream dependency.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// ReadyHandler handles readiness requests by pinging registered upstreams.
type ReadyHandler struct {
	mu       sync.RWMutex
	checkers map[string]ReadinessChecker
}

// NewReadyHandler creates a new readiness handler.
func NewReadyHandler() *ReadyHandler {
	return &ReadyHandler{
		checkers: make(map[string]ReadinessChecker),
	}
}

// AddChecker registers a named dependency check.
func (h *ReadyHandler) AddChecker(name string, checker ReadinessChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// ServeHTTP handles GET /ready. Returns 503 when any dependency check
// fails; with no checkers registered the service is considered ready.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	ready := true
	checks := make(map[string]any, len(h.checkers))
	for name, checker := range h.checkers {
		if err := checker.Ping(r.Context()); err != nil {
			ready = false
			checks[name] = map[string]any{
				"ready": false,
				"error": err.Error(),
			}
			continue
		}
		checks[name] = map[string]any{"ready": true}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"ready":  ready,
		"checks": checks,
	})
}
