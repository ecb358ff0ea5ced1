package domain

// TopTrack is one entry of a listener's top tracks, flattened with the
// genres and popularity of its first artist. Its JSON shape is a superset of
// FeatureRecord, so clients can post it back for inference unchanged.
type TopTrack struct {
	TrackName        string   `json:"track_name"`
	TrackID          string   `json:"track_id"`
	Album            string   `json:"album"`
	AlbumImage       string   `json:"album_image"`
	ReleaseDate      string   `json:"release_date"`
	DurationMs       int      `json:"duration_ms"`
	Popularity       int      `json:"popularity"`
	Explicit         bool     `json:"explicit"`
	ArtistNames      []string `json:"artist_names"`
	ArtistIDs        []string `json:"artist_ids"`
	ArtistGenres     []string `json:"artist_genres"`
	ArtistPopularity int      `json:"artist_popularity"`
}

// TrackRef identifies a catalog track and its primary artist.
type TrackRef struct {
	ID         string
	Title      string
	ArtistID   string
	ArtistName string
}

// Artist holds the catalog details used for artist insights.
type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
	ImageURL   string
	SpotifyURL string
}

// ArtistInsight is a short generated biography plus catalog facts.
type ArtistInsight struct {
	ArtistName  string   `json:"artist_name"`
	Image       string   `json:"image"`
	Genres      []string `json:"genres"`
	Popularity  int      `json:"popularity"`
	SpotifyURL  string   `json:"spotify_url"`
	Summary     string   `json:"summary"`
	SourcesUsed []string `json:"sources_used"`
}

// TrackLyrics is the lyrics lookup result for a catalog track.
type TrackLyrics struct {
	Lyrics  string `json:"lyrics"`
	Summary string `json:"summary"`
	Track   struct {
		Title  string `json:"title"`
		Artist string `json:"artist"`
	} `json:"track"`
}
