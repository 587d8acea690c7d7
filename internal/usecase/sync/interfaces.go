package sync

import (
	"context"
	"time"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

// HistoryScanner reads recent channel history and extracts event URLs.
type HistoryScanner interface {
	// ScanHistory inspects up to limit of the most recent channel messages
	// (newest first, service-native order) and returns the ones carrying a
	// recognizable calendar event URL, along with the total number of
	// messages inspected. Malformed messages are dropped, not reported;
	// transport and auth failures are returned as errors.
	ScanHistory(ctx context.Context, limit int) (matched []entity.PostedMessage, scanned int, err error)
}

// EventSource fetches calendar events within a time window. The source is
// expected to deduplicate events itself and to return valid event URLs.
type EventSource interface {
	FetchEvents(ctx context.Context, from, to time.Time) ([]entity.Event, error)
}

// Publisher posts exactly one chat message per call, best effort.
type Publisher interface {
	// Publish posts a message for the event and returns its reference.
	Publish(ctx context.Context, event entity.Event) (entity.MessageRef, error)

	// Name returns the publisher identifier (e.g. "slack").
	Name() string
}

// Logger defines the contract for logging within use cases.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
