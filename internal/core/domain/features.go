package domain

import (
	"github.com/goccy/go-json"
)

// FeatureRecord is the per-track input to personality inference.
// Numeric fields are nil when the upstream record did not carry them.
type FeatureRecord struct {
	Popularity       *float64 `json:"popularity"`
	DurationMs       *float64 `json:"duration_ms"`
	ArtistPopularity *float64 `json:"artist_popularity"`
	ArtistGenres     []string `json:"artist_genres"`
}

// UnmarshalJSON decodes a record leniently: a field of the wrong type is
// treated as absent instead of failing the whole record. Keys other than
// the four feature fields are ignored, so full top-track payloads decode.
func (f *FeatureRecord) UnmarshalJSON(data []byte) error {
	*f = FeatureRecord{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	f.Popularity = decodeNumber(fields["popularity"])
	f.DurationMs = decodeNumber(fields["duration_ms"])
	f.ArtistPopularity = decodeNumber(fields["artist_popularity"])

	if raw, ok := fields["artist_genres"]; ok {
		var genres []string
		if err := json.Unmarshal(raw, &genres); err == nil {
			f.ArtistGenres = genres
		}
	}
	return nil
}

func decodeNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Float returns a pointer to v, for building records in code.
func Float(v float64) *float64 {
	return &v
}
