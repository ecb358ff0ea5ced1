package ports

import (
	"context"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

// SpotifyProvider reads a listener's catalog data on behalf of their access token.
type SpotifyProvider interface {
	TopTracks(ctx context.Context, token string, limit int, timeRange string) ([]domain.TopTrack, error)
	Track(ctx context.Context, token, trackID string) (domain.TrackRef, error)
	Artist(ctx context.Context, token, artistID string) (domain.Artist, error)
}

// Authenticator runs the Spotify authorization-code flow.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}
