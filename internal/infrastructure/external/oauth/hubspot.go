package oauth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// HubSpotRefresher renews HubSpot access tokens with the refresh_token grant
type HubSpotRefresher struct {
	config *oauth2.Config
	client *http.Client
}

// NewHubSpotRefresher creates a refresher for the HubSpot OAuth app.
// client may be nil to use the default HTTP client.
func NewHubSpotRefresher(clientID, clientSecret, tokenURL string, client *http.Client) *HubSpotRefresher {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &HubSpotRefresher{
		config: config,
		client: client,
	}
}

// RefreshToken exchanges the refresh token for a new access token.
// HubSpot may rotate the refresh token; the returned token carries the one to store.
func (h *HubSpotRefresher) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("failed to refresh token: missing refresh token")
	}
	if h.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, h.client)
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
	}

	tokenSource := h.config.TokenSource(ctx, token)
	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if newToken.RefreshToken == "" {
		newToken.RefreshToken = refreshToken
	}

	return newToken, nil
}
