package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

// maxArtistsPerRequest is Spotify's limit for the /artists batch endpoint.
const maxArtistsPerRequest = 50

// Artist fetches the full artist object.
func (c *Client) Artist(ctx context.Context, token, artistID string) (domain.Artist, error) {
	var sa spotifyArtist
	if err := c.getJSON(ctx, token, fmt.Sprintf("%s/artists/%s", c.baseURL, url.PathEscape(artistID)), &sa); err != nil {
		return domain.Artist{}, fmt.Errorf("spotify adapter: artist %s: %w", artistID, err)
	}
	return mapArtist(sa), nil
}

// artistsBatch fetches artists by id, deduplicated and chunked to the API limit.
func (c *Client) artistsBatch(ctx context.Context, token string, ids []string) (map[string]*spotifyArtist, error) {
	result := make(map[string]*spotifyArtist, len(ids))
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	for start := 0; start < len(unique); start += maxArtistsPerRequest {
		end := min(start+maxArtistsPerRequest, len(unique))

		artistsURL, err := url.Parse(c.baseURL + "/artists")
		if err != nil {
			return nil, fmt.Errorf("invalid artists url: %w", err)
		}
		query := artistsURL.Query()
		query.Set("ids", strings.Join(unique[start:end], ","))
		artistsURL.RawQuery = query.Encode()

		var body artistsResponse
		if err := c.getJSON(ctx, token, artistsURL.String(), &body); err != nil {
			return nil, err
		}
		for _, a := range body.Artists {
			if a != nil && a.ID != "" {
				result[a.ID] = a
			}
		}
	}

	return result, nil
}
