package domain

// SharedResult is a persisted inference result that can be fetched by ResultID.
type SharedResult struct {
	ResultID   string           `json:"result_id"`
	MBTI       string           `json:"mbti"`
	Summary    string           `json:"summary"`
	Breakdown  Breakdown        `json:"breakdown"`
	TracksUsed []map[string]any `json:"tracks_used"`
	User       *string          `json:"user"`
	SpotifyID  *string          `json:"spotify_id"`
}
