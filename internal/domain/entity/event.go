package entity

import "time"

// Event is a calendar event as returned by the calendar service.
// Events are immutable once fetched; the bridge never writes back to the
// calendar.
type Event struct {
	// ID is the calendar service's own event identifier.
	ID string

	// URL is the event's public, canonical URL. It is the join key between
	// the calendar and the chat channel and is compared byte-for-byte.
	URL string

	// Summary is the event title.
	Summary string

	// Description is the free-form event body, possibly empty.
	Description string

	// Location is the event location, possibly empty.
	Location string

	// Start and End are the authoritative schedule for the event.
	Start time.Time
	End   time.Time

	// AllDay marks date-only events.
	AllDay bool

	// Attendees holds attendee email addresses.
	Attendees []string
}
