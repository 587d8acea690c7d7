package slack

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

func testEvent() entity.Event {
	return entity.Event{
		ID:      "e1",
		URL:     "https://www.google.com/calendar/event?eid=e1",
		Summary: "Team Standup",
		Start:   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestBuildEventAttachment_TitleLinkCarriesEventURL(t *testing.T) {
	b := NewMessageBuilder()
	att := b.BuildEventAttachment(testEvent())

	assert.Equal(t, "Team Standup", att.Title)
	assert.Equal(t, "https://www.google.com/calendar/event?eid=e1", att.TitleLink)
	assert.Equal(t, colorEvent, att.Color)

	// The scanner must be able to recover the URL from what we post.
	assert.True(t, IsEventURL(att.TitleLink))
}

func TestBuildEventAttachment_TimeField(t *testing.T) {
	b := NewMessageBuilder()
	att := b.BuildEventAttachment(testEvent())

	require.NotEmpty(t, att.Fields)
	assert.Equal(t, "⏰ Time", att.Fields[0].Title)
	assert.Equal(t, "September 1, 2026 at 10:00 AM - 10:30 AM", att.Fields[0].Value)
}

func TestBuildEventAttachment_AllDay(t *testing.T) {
	event := testEvent()
	event.AllDay = true
	event.End = time.Time{}

	att := NewMessageBuilder().BuildEventAttachment(event)

	require.NotEmpty(t, att.Fields)
	assert.Equal(t, "September 1, 2026", att.Fields[0].Value)
}

func TestBuildEventAttachment_OptionalFields(t *testing.T) {
	event := testEvent()
	event.Location = "Room 4"
	event.Description = "Weekly sync"
	event.Attendees = []string{"a@example.com", "b@example.com"}

	att := NewMessageBuilder().BuildEventAttachment(event)

	titles := make([]string, 0, len(att.Fields))
	for _, f := range att.Fields {
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{"⏰ Time", "📍 Location", "📝 Description", "👥 Attendees"}, titles)
}

func TestBuildEventAttachment_TruncatesDescription(t *testing.T) {
	event := testEvent()
	event.Description = strings.Repeat("x", 2000)

	att := NewMessageBuilder().BuildEventAttachment(event)

	var desc string
	for _, f := range att.Fields {
		if f.Title == "📝 Description" {
			desc = f.Value
		}
	}
	require.NotEmpty(t, desc)
	assert.Len(t, desc, maxFieldLength)
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestBuildEventAttachment_TruncationKeepsValidUTF8(t *testing.T) {
	event := testEvent()
	event.Description = strings.Repeat("日", 2000)

	att := NewMessageBuilder().BuildEventAttachment(event)

	var desc string
	for _, f := range att.Fields {
		if f.Title == "📝 Description" {
			desc = f.Value
		}
	}
	require.NotEmpty(t, desc)
	assert.True(t, utf8.ValidString(desc))
	assert.Equal(t, maxFieldLength, utf8.RuneCountInString(desc))
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestBuildEventAttachment_MultiByteWithinCharLimitKept(t *testing.T) {
	// 600 characters but 1800 bytes; the limit counts characters, so the
	// field must survive whole.
	event := testEvent()
	event.Description = strings.Repeat("日", 600)

	att := NewMessageBuilder().BuildEventAttachment(event)

	var desc string
	for _, f := range att.Fields {
		if f.Title == "📝 Description" {
			desc = f.Value
		}
	}
	assert.Equal(t, event.Description, desc)
}

func TestBuildEventAttachment_AttendeeOverflow(t *testing.T) {
	event := testEvent()
	for i := 0; i < 12; i++ {
		event.Attendees = append(event.Attendees, "person@example.com")
	}

	att := NewMessageBuilder().BuildEventAttachment(event)

	var attendees string
	for _, f := range att.Fields {
		if f.Title == "👥 Attendees" {
			attendees = f.Value
		}
	}
	assert.Contains(t, attendees, "(+2 more)")
	assert.Equal(t, maxAttendeesShown, strings.Count(attendees, "@example.com"))
}

func TestBuildEventAttachment_NoStartTime(t *testing.T) {
	event := entity.Event{Summary: "No schedule", URL: "https://cal/e"}

	att := NewMessageBuilder().BuildEventAttachment(event)

	assert.Empty(t, att.Fields)
}
