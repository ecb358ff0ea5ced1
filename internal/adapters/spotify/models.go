package spotify

// spotifyImage is one entry of an album or artist image list.
type spotifyImage struct {
	URL string `json:"url"`
}

// spotifyArtistRef is the simplified artist object embedded in tracks.
type spotifyArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []spotifyImage `json:"images"`
}

// spotifyTrack represents the Spotify API response for a track.
type spotifyTrack struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	DurationMs int                `json:"duration_ms"`
	Popularity int                `json:"popularity"`
	Explicit   bool               `json:"explicit"`
	Album      spotifyAlbum       `json:"album"`
	Artists    []spotifyArtistRef `json:"artists"`
}

// spotifyArtist is the full artist object.
type spotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Genres       []string       `json:"genres"`
	Popularity   int            `json:"popularity"`
	Images       []spotifyImage `json:"images"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type topTracksResponse struct {
	Items []spotifyTrack `json:"items"`
}

// artistsResponse is the /artists batch body. Unknown ids come back as null.
type artistsResponse struct {
	Artists []*spotifyArtist `json:"artists"`
}
