package server

import (
	"log/slog"
	"net/http"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/adapter/handler/middleware"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/infrastructure/observability"
)

// Handlers holds all HTTP handlers.
type Handlers struct {
	Health  *handler.HealthHandler
	Ready   *handler.ReadyHandler
	Status  *handler.StatusHandler
	Metrics *handler.MetricsHandler
	Reload  *handler.ReloadHandler
}

// NewRouter creates the HTTP router with all handlers.
func NewRouter(handlers *Handlers, metrics *observability.Metrics, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.Handle("/health", handlers.Health)
	mux.Handle("/", handlers.Health) // Root path returns health

	if handlers.Ready != nil {
		mux.Handle("/ready", handlers.Ready)
	}

	if handlers.Status != nil {
		mux.Handle("/status", handlers.Status)
	}

	if handlers.Metrics != nil {
		mux.Handle("/metrics", handlers.Metrics)
	}

	if handlers.Reload != nil {
		mux.Handle("/-/reload", handlers.Reload)
	}

	// Apply middleware stack
	var h http.Handler = mux
	if metrics != nil {
		h = middleware.Observability(metrics)(h)
	}
	h = middleware.RequestID(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
