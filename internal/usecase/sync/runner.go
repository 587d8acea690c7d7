package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

// ErrPartialPublish is returned when the run completed but at least one
// create action failed to publish. The report still carries the full counts.
var ErrPartialPublish = errors.New("one or more event messages failed to publish")

const (
	defaultScanLimit = 200
	defaultDaysAhead = 7
)

// Options tunes a Runner. Zero values fall back to defaults.
type Options struct {
	// ScanLimit is the number of most recent channel messages to inspect
	// when rebuilding the message index.
	ScanLimit int

	// DaysAhead bounds the future window of fetched events.
	DaysAhead int

	// Clock overrides the time source, for tests.
	Clock Clock
}

// Runner executes one sync pass: scan history, build the index, fetch
// events, reconcile and publish the create actions. A Runner holds no
// per-run state; Execute may be called repeatedly and every invocation is
// independent.
type Runner struct {
	scanner   HistoryScanner
	source    EventSource
	publisher Publisher
	logger    Logger
	clock     Clock
	scanLimit int
	daysAhead int
}

// NewRunner creates a Runner with dependencies.
func NewRunner(scanner HistoryScanner, source EventSource, publisher Publisher, logger Logger, opts Options) *Runner {
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = defaultScanLimit
	}
	if opts.DaysAhead <= 0 {
		opts.DaysAhead = defaultDaysAhead
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	return &Runner{
		scanner:   scanner,
		source:    source,
		publisher: publisher,
		logger:    logger,
		clock:     opts.Clock,
		scanLimit: opts.ScanLimit,
		daysAhead: opts.DaysAhead,
	}
}

// Execute performs a single sync run.
//
// Scan and fetch failures abort the run before anything is published. A
// per-event publish failure is logged and counted, and the remaining create
// actions still run; if any failed, Execute returns the report together with
// ErrPartialPublish so callers can flip the exit status.
func (r *Runner) Execute(ctx context.Context) (*entity.SyncReport, error) {
	report := &entity.SyncReport{}

	matched, scanned, err := r.scanner.ScanHistory(ctx, r.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("scanning channel history: %w", err)
	}
	report.Scanned = scanned

	index, duplicates := BuildIndex(matched)
	report.Indexed = len(index)
	report.Duplicates = len(duplicates)
	for _, dup := range duplicates {
		r.logger.Warn("duplicate event URL in channel history, keeping most recent message",
			"event_url", dup.EventURL,
			"message_ref", string(dup.Ref),
		)
	}
	r.logger.Info("message index rebuilt",
		"messages_scanned", scanned,
		"index_size", len(index),
		"duplicates", len(duplicates),
	)

	now := r.clock.Now().UTC()
	from, to := now, now.AddDate(0, 0, r.daysAhead)
	events, err := r.source.FetchEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar events: %w", err)
	}
	report.Fetched = len(events)
	r.logger.Info("events fetched",
		"count", len(events),
		"time_min", from.Format(time.RFC3339),
		"time_max", to.Format(time.RFC3339),
	)

	if len(events) == 0 {
		r.logger.Info("no events to sync")
		return report, nil
	}

	// Posted messages should land in chronological order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	for _, action := range Reconcile(index, events) {
		switch action.Kind {
		case entity.ActionSkip:
			report.Skipped++
			r.logger.Debug("event already posted, skipping",
				"event_id", action.Event.ID,
				"event_url", action.Event.URL,
				"message_ref", string(action.Existing),
			)

		case entity.ActionCreate:
			ref, err := r.publisher.Publish(ctx, action.Event)
			if err != nil {
				report.Failed++
				r.logger.Error("failed to publish event message",
					"publisher", r.publisher.Name(),
					"event_id", action.Event.ID,
					"event_url", action.Event.URL,
					"error", err,
				)
				continue
			}
			report.Created++
			r.logger.Info("event message created",
				"publisher", r.publisher.Name(),
				"event_id", action.Event.ID,
				"message_ref", string(ref),
				"summary", action.Event.Summary,
			)
		}
	}

	r.logger.Info("sync completed",
		"total", report.Fetched,
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)

	if report.HasFailures() {
		return report, ErrPartialPublish
	}
	return report, nil
}
