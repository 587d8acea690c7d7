package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

// StatusHandler exposes the outcome of the most recent sync run. The bridge
// keeps no persistent state, so this is the only place to see what the last
// run did without reading logs.
type StatusHandler struct {
	mu sync.RWMutex

	ran      bool
	lastRun  time.Time
	report   entity.SyncReport
	lastErr  string
	duration time.Duration
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Record stores the result of a completed sync run.
func (h *StatusHandler) Record(report entity.SyncReport, duration time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ran = true
	h.lastRun = time.Now().UTC()
	h.report = report
	h.duration = duration
	h.lastErr = ""
	if err != nil {
		h.lastErr = err.Error()
	}
}

// ServeHTTP handles GET /status
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if !h.ran {
		json.NewEncoder(w).Encode(map[string]any{"status": "waiting"})
		return
	}

	status := "success"
	switch {
	case h.report.Failed > 0:
		status = "partial"
	case h.lastErr != "":
		status = "error"
	}

	response := map[string]any{
		"status":     status,
		"last_run":   h.lastRun.Format(time.RFC3339),
		"duration":   h.duration.String(),
		"scanned":    h.report.Scanned,
		"indexed":    h.report.Indexed,
		"duplicates": h.report.Duplicates,
		"fetched":    h.report.Fetched,
		"created":    h.report.Created,
		"skipped":    h.report.Skipped,
		"failed":     h.report.Failed,
	}
	if h.lastErr != "" {
		response["error"] = h.lastErr
	}

	json.NewEncoder(w).Encode(response)
}
