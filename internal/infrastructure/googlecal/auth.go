package googlecal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewCalendarService builds an authenticated read-only Calendar API service
// from an OAuth client secret file and a previously obtained user token.
// Token acquisition itself is out of scope; the token file must already
// exist, produced by a one-time interactive consent flow.
func NewCalendarService(ctx context.Context, credentialsFile, tokenFile string) (*calendar.Service, error) {
	credentials, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file %s: %w", credentialsFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(credentials, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, err
	}

	client := oauthConfig.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return service, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token file %s: %w", path, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}

	return &token, nil
}
