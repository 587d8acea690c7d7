package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

// colorEvent is the Google Calendar blue used as the attachment color bar.
const colorEvent = "#4285F4"

// maxFieldLength caps attachment field values; Slack truncates long fields
// itself but inconsistently, so we cut deterministically.
const maxFieldLength = 1024

// maxAttendeesShown bounds the attendee list in the message.
const maxAttendeesShown = 10

// MessageBuilder constructs Slack attachments for calendar events. The
// attachment title link carries the event URL, which is what the history
// scanner extracts on later runs; changing the layout must keep the title
// link intact or duplicate prevention breaks.
type MessageBuilder struct{}

// NewMessageBuilder creates a new message builder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// BuildEventAttachment creates the attachment for an event message.
func (b *MessageBuilder) BuildEventAttachment(event entity.Event) slack.Attachment {
	var fields []slack.AttachmentField

	if timeText := b.formatEventTime(event); timeText != "" {
		fields = append(fields, slack.AttachmentField{
			Title: "⏰ Time",
			Value: timeText,
		})
	}

	if event.Location != "" {
		fields = append(fields, slack.AttachmentField{
			Title: "📍 Location",
			Value: truncate(event.Location, maxFieldLength),
		})
	}

	if event.Description != "" {
		fields = append(fields, slack.AttachmentField{
			Title: "📝 Description",
			Value: truncate(event.Description, maxFieldLength),
		})
	}

	if len(event.Attendees) > 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "👥 Attendees",
			Value: b.formatAttendees(event.Attendees),
		})
	}

	return slack.Attachment{
		Color:     colorEvent,
		Title:     event.Summary,
		TitleLink: event.URL,
		Fields:    fields,
	}
}

// formatEventTime renders the event schedule: a date for all-day events, a
// date plus start-end time range otherwise.
func (b *MessageBuilder) formatEventTime(event entity.Event) string {
	if event.Start.IsZero() {
		return ""
	}

	if event.AllDay {
		return event.Start.Format("January 2, 2006")
	}

	text := event.Start.Format("January 2, 2006 at 3:04 PM")
	if !event.End.IsZero() {
		text += " - " + event.End.Format("3:04 PM")
	}
	return text
}

// formatAttendees lists the first attendees and summarizes the rest.
func (b *MessageBuilder) formatAttendees(attendees []string) string {
	shown := attendees
	if len(shown) > maxAttendeesShown {
		shown = shown[:maxAttendeesShown]
	}
	text := strings.Join(shown, ", ")
	if extra := len(attendees) - len(shown); extra > 0 {
		text += fmt.Sprintf(" (+%d more)", extra)
	}
	return text
}

// truncate cuts s to at most max characters, marking the cut with an
// ellipsis. The limit counts runes, not bytes, so the cut never lands
// inside a multi-byte character.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
