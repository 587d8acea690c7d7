package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

// Metrics holds all application metrics.
type Metrics struct {
	meter metric.Meter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsActive  metric.Int64UpDownCounter

	// Sync run metrics
	SyncRunsTotal   metric.Int64Counter
	SyncRunDuration metric.Float64Histogram

	// Reconciliation metrics
	MessagesScannedTotal   metric.Int64Counter
	MessagesIndexedTotal   metric.Int64Counter
	DuplicateMessagesTotal metric.Int64Counter
	EventsFetchedTotal     metric.Int64Counter

	// Publish metrics
	MessagesCreatedTotal metric.Int64Counter
	EventsSkippedTotal   metric.Int64Counter
	PublishErrorsTotal   metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}

	m.HTTPRequestsActive, err = meter.Int64UpDownCounter(
		"http.server.requests.active",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_active: %w", err)
	}

	// Sync run metrics
	m.SyncRunsTotal, err = meter.Int64Counter(
		"sync.runs.total",
		metric.WithDescription("Total number of sync runs"),
		metric.WithUnit("{runs}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sync_runs_total: %w", err)
	}

	m.SyncRunDuration, err = meter.Float64Histogram(
		"sync.run.duration",
		metric.WithDescription("Sync run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sync_run_duration: %w", err)
	}

	// Reconciliation metrics
	m.MessagesScannedTotal, err = meter.Int64Counter(
		"sync.messages.scanned.total",
		metric.WithDescription("Total number of channel messages scanned"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating messages_scanned_total: %w", err)
	}

	m.MessagesIndexedTotal, err = meter.Int64Counter(
		"sync.messages.indexed.total",
		metric.WithDescription("Total number of messages indexed by event URL"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating messages_indexed_total: %w", err)
	}

	m.DuplicateMessagesTotal, err = meter.Int64Counter(
		"sync.messages.duplicates.total",
		metric.WithDescription("Total number of duplicate messages found while indexing"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duplicate_messages_total: %w", err)
	}

	m.EventsFetchedTotal, err = meter.Int64Counter(
		"sync.events.fetched.total",
		metric.WithDescription("Total number of calendar events fetched"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events_fetched_total: %w", err)
	}

	// Publish metrics
	m.MessagesCreatedTotal, err = meter.Int64Counter(
		"sync.messages.created.total",
		metric.WithDescription("Total number of event messages posted"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating messages_created_total: %w", err)
	}

	m.EventsSkippedTotal, err = meter.Int64Counter(
		"sync.events.skipped.total",
		metric.WithDescription("Total number of events skipped as already posted"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events_skipped_total: %w", err)
	}

	m.PublishErrorsTotal, err = meter.Int64Counter(
		"sync.publish.errors.total",
		metric.WithDescription("Total number of failed message posts"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating publish_errors_total: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSyncRun records the outcome of one full sync run from its report.
func (m *Metrics) RecordSyncRun(ctx context.Context, report entity.SyncReport, duration time.Duration, err error) {
	status := "success"
	switch {
	case report.Failed > 0:
		status = "partial"
	case err != nil:
		status = "error"
	}
	runAttrs := metric.WithAttributes(attribute.String("status", status))

	m.SyncRunsTotal.Add(ctx, 1, runAttrs)
	m.SyncRunDuration.Record(ctx, duration.Seconds(), runAttrs)

	m.MessagesScannedTotal.Add(ctx, int64(report.Scanned))
	m.MessagesIndexedTotal.Add(ctx, int64(report.Indexed))
	m.DuplicateMessagesTotal.Add(ctx, int64(report.Duplicates))
	m.EventsFetchedTotal.Add(ctx, int64(report.Fetched))
	m.MessagesCreatedTotal.Add(ctx, int64(report.Created))
	m.EventsSkippedTotal.Add(ctx, int64(report.Skipped))
	m.PublishErrorsTotal.Add(ctx, int64(report.Failed))
}
