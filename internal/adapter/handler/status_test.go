package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

func TestStatusHandler_BeforeFirstRun(t *testing.T) {
	h := NewStatusHandler()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp["status"] != "waiting" {
		t.Errorf("expected status 'waiting', got %v", resp["status"])
	}
}

func TestStatusHandler_AfterSuccessfulRun(t *testing.T) {
	h := NewStatusHandler()
	h.Record(entity.SyncReport{
		Scanned: 120,
		Indexed: 30,
		Fetched: 12,
		Created: 2,
		Skipped: 10,
	}, 3*time.Second, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp["status"] != "success" {
		t.Errorf("expected status 'success', got %v", resp["status"])
	}
	if resp["created"] != float64(2) {
		t.Errorf("expected created=2, got %v", resp["created"])
	}
	if resp["skipped"] != float64(10) {
		t.Errorf("expected skipped=10, got %v", resp["skipped"])
	}
	if _, ok := resp["error"]; ok {
		t.Error("expected no error field on success")
	}
}

func TestStatusHandler_PartialFailure(t *testing.T) {
	h := NewStatusHandler()
	h.Record(entity.SyncReport{Fetched: 3, Created: 2, Failed: 1},
		time.Second, errors.New("1 of 3 posts failed"))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp["status"] != "partial" {
		t.Errorf("expected status 'partial', got %v", resp["status"])
	}
	if resp["error"] != "1 of 3 posts failed" {
		t.Errorf("expected error message, got %v", resp["error"])
	}
}

func TestStatusHandler_MethodNotAllowed(t *testing.T) {
	h := NewStatusHandler()

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}
