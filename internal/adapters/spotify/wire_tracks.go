package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/logging"
)

// TopTracks fetches the listener's top tracks and enriches each with the
// genres and popularity of its first artist.
func (c *Client) TopTracks(ctx context.Context, token string, limit int, timeRange string) ([]domain.TopTrack, error) {
	topURL, err := url.Parse(c.baseURL + "/me/top/tracks")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid top tracks url: %w", err)
	}
	query := topURL.Query()
	query.Set("limit", strconv.Itoa(limit))
	query.Set("time_range", timeRange)
	topURL.RawQuery = query.Encode()

	var body topTracksResponse
	if err := c.getJSON(ctx, token, topURL.String(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: top tracks: %w", err)
	}

	artistIDs := make([]string, 0, len(body.Items))
	for _, st := range body.Items {
		if len(st.Artists) > 0 && st.Artists[0].ID != "" {
			artistIDs = append(artistIDs, st.Artists[0].ID)
		}
	}

	artists, err := c.artistsBatch(ctx, token, artistIDs)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: artists for top tracks: %w", err)
	}

	tracks := make([]domain.TopTrack, 0, len(body.Items))
	for _, st := range body.Items {
		var artist *spotifyArtist
		if len(st.Artists) > 0 {
			artist = artists[st.Artists[0].ID]
		}
		tracks = append(tracks, mapTopTrack(st, artist))
	}

	logging.Ctx(ctx).Debug().
		Int("tracks", len(tracks)).
		Int("artists", len(artists)).
		Str("time_range", timeRange).
		Msg("spotify adapter: top tracks fetched")
	return tracks, nil
}

// Track fetches a single catalog track.
func (c *Client) Track(ctx context.Context, token, trackID string) (domain.TrackRef, error) {
	var st spotifyTrack
	if err := c.getJSON(ctx, token, fmt.Sprintf("%s/tracks/%s", c.baseURL, url.PathEscape(trackID)), &st); err != nil {
		return domain.TrackRef{}, fmt.Errorf("spotify adapter: track %s: %w", trackID, err)
	}
	if len(st.Artists) == 0 {
		return domain.TrackRef{}, fmt.Errorf("spotify adapter: track %s has no artists", trackID)
	}
	return mapTrackRef(st), nil
}
