package googlecal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-bridge/internal/domain/errors"
)

// defaultSummary is used when a calendar event has no title.
const defaultSummary = "No Title"

// Client fetches events from a single Google Calendar. Implements the
// sync.EventSource interface.
type Client struct {
	service    *calendar.Service
	calendarID string
	maxResults int64
}

// NewClient creates a client for the given calendar.
func NewClient(service *calendar.Service, calendarID string, maxResults int64) *Client {
	return &Client{
		service:    service,
		calendarID: calendarID,
		maxResults: maxResults,
	}
}

// FetchEvents returns single-instance events between from and to, ordered by
// start time. Recurring events are expanded so each occurrence carries its
// own event URL.
func (c *Client) FetchEvents(ctx context.Context, from, to time.Time) ([]entity.Event, error) {
	result, err := c.service.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(c.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, categorizeCalendarError(err, "listing calendar events")
	}

	events := make([]entity.Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, convertEvent(item))
	}
	return events, nil
}

// convertEvent maps an API event to the domain entity. The HtmlLink is kept
// verbatim as the event URL; it is the reconciliation key and must match
// what earlier runs posted byte for byte.
func convertEvent(item *calendar.Event) entity.Event {
	event := entity.Event{
		ID:          item.Id,
		URL:         item.HtmlLink,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
	}
	if event.Summary == "" {
		event.Summary = defaultSummary
	}

	event.Start, event.AllDay = parseEventTime(item.Start)
	if end, _ := parseEventTime(item.End); !end.IsZero() {
		event.End = end
	}

	for _, attendee := range item.Attendees {
		if attendee.Resource || attendee.Email == "" {
			continue
		}
		event.Attendees = append(event.Attendees, attendee.Email)
	}

	return event
}

// parseEventTime reads an event boundary, which carries either a timestamp
// or a bare date for all-day events.
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, false
	}
	if edt.Date != "" {
		t, err := time.Parse("2006-01-02", edt.Date)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// categorizeCalendarError wraps Calendar API errors as transient or
// permanent domain errors.
func categorizeCalendarError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		// Quota and server-side failures are worth retrying; auth and
		// request errors are not.
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return domainerrors.NewTransientError(
				fmt.Sprintf("%s: google api error %d", operation, apiErr.Code),
				err,
			)
		}
		return domainerrors.NewPermanentError(
			fmt.Sprintf("%s: google api error %d", operation, apiErr.Code),
			err,
		)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: network error", operation),
			err,
		)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: context timeout", operation),
			err,
		)
	}

	return domainerrors.NewPermanentError(
		fmt.Sprintf("%s: %v", operation, err),
		err,
	)
}
