package slack

import "strings"

// Google Calendar event URL shapes as emitted in the event htmlLink field.
// Matching is an exact prefix check; no further normalization happens here
// or anywhere else, so the URL stored in the message must be the htmlLink
// verbatim for the index lookup to hit.
var eventURLPrefixes = []string{
	"https://www.google.com/calendar/event",
	"https://calendar.google.com/calendar/event",
}

// IsEventURL reports whether s looks like a calendar event URL.
func IsEventURL(s string) bool {
	for _, prefix := range eventURLPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
