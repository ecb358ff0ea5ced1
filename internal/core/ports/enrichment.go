package ports

import "context"

// LyricsProvider looks up song lyrics by title and artist.
// It returns domain.ErrLyricsNotFound when the provider has none.
type LyricsProvider interface {
	Lyrics(ctx context.Context, title, artist string) (string, error)
}

// Summarizer writes a short artist biography from collected facts.
type Summarizer interface {
	SummarizeArtist(ctx context.Context, artistName, info string) (string, error)
}
