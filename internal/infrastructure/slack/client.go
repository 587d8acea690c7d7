package slack

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-bridge/internal/domain/errors"
)

// Client wraps the Slack API client with the two channel operations the
// bridge needs: scanning recent history and posting event messages.
// Implements the sync.HistoryScanner and sync.Publisher interfaces.
type Client struct {
	api       *slack.Client
	channelID string
	builder   *MessageBuilder

	// Own chat identity, resolved by Authenticate. Only messages authored
	// by this identity count when rebuilding the index.
	botUserID string
	botID     string
}

// NewClient creates a new Slack client.
func NewClient(botToken, channelID string, apiURL ...string) *Client {
	var api *slack.Client
	if len(apiURL) > 0 && apiURL[0] != "" {
		// Use custom API URL (for testing against a mock server)
		api = slack.New(botToken, slack.OptionAPIURL(apiURL[0]))
	} else {
		api = slack.New(botToken)
	}

	return &Client{
		api:       api,
		channelID: channelID,
		builder:   NewMessageBuilder(),
	}
}

// Authenticate verifies the bot token and resolves the bot's own identity.
// Must be called before ScanHistory; an auth failure is fatal for the run.
func (c *Client) Authenticate(ctx context.Context) error {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return categorizeSlackError(err, "authenticating with slack")
	}
	c.botUserID = resp.UserID
	c.botID = resp.BotID
	return nil
}

// ScanHistory retrieves up to limit of the most recent channel messages
// (newest first) and extracts calendar event URLs from the bridge's own
// messages. Messages from other authors or without a recognizable event
// link are skipped, never fatal.
func (c *Client) ScanHistory(ctx context.Context, limit int) ([]entity.PostedMessage, int, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: c.channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, categorizeSlackError(err, "fetching channel history")
	}

	var matched []entity.PostedMessage
	for _, msg := range resp.Messages {
		if !c.ownMessage(msg) {
			continue
		}
		url := extractEventURL(msg)
		if url == "" {
			continue
		}
		matched = append(matched, entity.PostedMessage{
			Ref:      messageRef(c.channelID, msg.Timestamp),
			EventURL: url,
		})
	}

	return matched, len(resp.Messages), nil
}

// Publish posts one message for the event and returns its reference in the
// format "channel:timestamp".
func (c *Client) Publish(ctx context.Context, event entity.Event) (entity.MessageRef, error) {
	attachment := c.builder.BuildEventAttachment(event)

	channelID, timestamp, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return "", categorizeSlackError(err, "posting event message")
	}

	return messageRef(channelID, timestamp), nil
}

// Name returns the publisher identifier.
func (c *Client) Name() string {
	return "slack"
}

// Ping checks API reachability for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.AuthTestContext(ctx)
	return err
}

// ownMessage reports whether msg was authored by the bridge's own chat
// identity.
func (c *Client) ownMessage(msg slack.Message) bool {
	if c.botUserID != "" && msg.User == c.botUserID {
		return true
	}
	if c.botID != "" && msg.BotID == c.botID {
		return true
	}
	return false
}

// extractEventURL returns the first attachment title link that matches the
// calendar event URL shape, or "" when the message carries none.
func extractEventURL(msg slack.Message) string {
	for _, att := range msg.Attachments {
		if IsEventURL(att.TitleLink) {
			return att.TitleLink
		}
	}
	return ""
}

// messageRef formats a message reference as "channel:timestamp".
func messageRef(channelID, timestamp string) entity.MessageRef {
	return entity.MessageRef(fmt.Sprintf("%s:%s", channelID, timestamp))
}

// categorizeSlackError wraps Slack API errors as transient or permanent
// domain errors.
func categorizeSlackError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Rate limiting - transient
	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: rate limited", operation),
			err,
		)
	}

	// Network errors - transient
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: network error", operation),
			err,
		)
	}

	// Slack API errors
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		switch slackErr.Err {
		// Server errors - transient
		case "internal_error", "fatal_error", "service_unavailable":
			return domainerrors.NewTransientError(
				fmt.Sprintf("%s: slack server error", operation),
				err,
			)

		// Everything else (invalid_auth, account_inactive, token_revoked,
		// no_permission, channel_not_found, not_in_channel, is_archived,
		// unknown errors) - permanent
		default:
			return domainerrors.NewPermanentError(
				fmt.Sprintf("%s: %s", operation, slackErr.Err),
				err,
			)
		}
	}

	// Context errors - transient
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: context timeout", operation),
			err,
		)
	}

	// Default to permanent error
	return domainerrors.NewPermanentError(
		fmt.Sprintf("%s: %v", operation, err),
		err,
	)
}
