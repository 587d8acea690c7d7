package slack

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

func TestIsEventURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"www form", "https://www.google.com/calendar/event?eid=abc123", true},
		{"calendar subdomain form", "https://calendar.google.com/calendar/event?eid=abc123", true},
		{"bare prefix", "https://www.google.com/calendar/event", true},
		{"unrelated google url", "https://www.google.com/search?q=calendar", false},
		{"different host", "https://example.com/calendar/event?eid=abc", false},
		{"http scheme", "http://www.google.com/calendar/event?eid=abc", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEventURL(tt.url))
		})
	}
}

func TestOwnMessage(t *testing.T) {
	c := &Client{botUserID: "U123", botID: "B456"}

	tests := []struct {
		name string
		msg  slack.Message
		want bool
	}{
		{"by bot user id", message("U123", ""), true},
		{"by bot id", message("", "B456"), true},
		{"other user", message("U999", ""), false},
		{"other bot", message("", "B999"), false},
		{"no author", message("", ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ownMessage(tt.msg))
		})
	}
}

func TestOwnMessage_UnresolvedIdentity(t *testing.T) {
	// Before Authenticate both identity fields are empty; nothing may match,
	// or the scanner would index other users' messages.
	c := &Client{}

	assert.False(t, c.ownMessage(message("", "")))
	assert.False(t, c.ownMessage(message("U123", "")))
}

func TestExtractEventURL(t *testing.T) {
	eventURL := "https://www.google.com/calendar/event?eid=abc"

	tests := []struct {
		name string
		msg  slack.Message
		want string
	}{
		{
			"attachment with event link",
			withAttachments(slack.Attachment{TitleLink: eventURL}),
			eventURL,
		},
		{
			"first matching attachment wins",
			withAttachments(
				slack.Attachment{TitleLink: "https://example.com/other"},
				slack.Attachment{TitleLink: eventURL},
				slack.Attachment{TitleLink: "https://calendar.google.com/calendar/event?eid=second"},
			),
			eventURL,
		},
		{
			"no attachments",
			slack.Message{},
			"",
		},
		{
			"attachment without link",
			withAttachments(slack.Attachment{Title: "plain"}),
			"",
		},
		{
			"non-event link",
			withAttachments(slack.Attachment{TitleLink: "https://example.com/page"}),
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractEventURL(tt.msg))
		})
	}
}

func TestMessageRef(t *testing.T) {
	ref := messageRef("C123", "1724659200.000100")
	assert.Equal(t, "C123:1724659200.000100", string(ref))
}

func message(user, botID string) slack.Message {
	msg := slack.Message{}
	msg.User = user
	msg.BotID = botID
	return msg
}

func withAttachments(atts ...slack.Attachment) slack.Message {
	msg := slack.Message{}
	msg.Attachments = atts
	return msg
}
