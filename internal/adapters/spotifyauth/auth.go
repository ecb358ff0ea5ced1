// Package spotifyauth runs the Spotify authorization-code flow.
package spotifyauth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	oauthspotify "golang.org/x/oauth2/spotify"

	"github.com/ewilliams-labs/typetune/internal/core/ports"
)

// Scopes requested from the listener.
var Scopes = []string{"user-top-read", "user-read-private"}

// Authenticator wraps an oauth2.Config for Spotify.
type Authenticator struct {
	config     *oauth2.Config
	httpClient *http.Client
}

var _ ports.Authenticator = (*Authenticator)(nil)

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithEndpoint overrides the Spotify accounts endpoint.
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(a *Authenticator) { a.config.Endpoint = ep }
}

// WithHTTPClient sets the client used for token exchange.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Authenticator) { a.httpClient = c }
}

// New constructs an Authenticator.
func New(clientID, clientSecret, redirectURL string, opts ...Option) *Authenticator {
	a := &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     oauthspotify.Endpoint,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuthURL returns the consent page URL carrying state.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (a *Authenticator) Exchange(ctx context.Context, code string) (string, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("spotifyauth: exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("spotifyauth: exchange returned no access token")
	}
	return tok.AccessToken, nil
}
