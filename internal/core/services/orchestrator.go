package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/core/personality"
	"github.com/ewilliams-labs/typetune/internal/core/ports"
	"github.com/ewilliams-labs/typetune/internal/logging"
)

// ErrEmptyCode is returned when the OAuth callback carries no authorization code.
var ErrEmptyCode = errors.New("service: authorization code is empty")

// Recorder receives service-level events for metrics.
type Recorder interface {
	InferenceCompleted(typeCode string)
	UpstreamCall(service string, err error)
}

type noopRecorder struct{}

func (noopRecorder) InferenceCompleted(string)  {}
func (noopRecorder) UpstreamCall(string, error) {}

// Deps are the ports the Orchestrator drives.
type Deps struct {
	Spotify    ports.SpotifyProvider
	Auth       ports.Authenticator
	Results    ports.ResultRepository
	Lyrics     ports.LyricsProvider
	Summarizer ports.Summarizer
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithInsightCache caches artist insights by track id.
func WithInsightCache(c ports.InsightCache) Option {
	return func(o *Orchestrator) { o.insights = c }
}

// WithRecorder routes service events to r.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithTopTracks sets how many top tracks are requested and over which time range.
func WithTopTracks(limit int, timeRange string) Option {
	return func(o *Orchestrator) {
		o.topLimit = limit
		o.timeRange = timeRange
	}
}

// WithIDGenerator replaces uuid.NewString for result ids.
func WithIDGenerator(f func() string) Option {
	return func(o *Orchestrator) { o.newID = f }
}

// Orchestrator coordinates the inference engine, Spotify, enrichment providers and result storage.
type Orchestrator struct {
	spotify    ports.SpotifyProvider
	auth       ports.Authenticator
	repo       ports.ResultRepository
	lyrics     ports.LyricsProvider
	summarizer ports.Summarizer
	insights   ports.InsightCache
	recorder   Recorder

	topLimit  int
	timeRange string
	newID     func() string
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		spotify:    deps.Spotify,
		auth:       deps.Auth,
		repo:       deps.Results,
		lyrics:     deps.Lyrics,
		summarizer: deps.Summarizer,
		recorder:   noopRecorder{},
		topLimit:   24,
		timeRange:  "medium_term",
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Infer runs the personality engine over a listener's track metadata.
func (o *Orchestrator) Infer(ctx context.Context, features []domain.FeatureRecord) (domain.InferenceResult, error) {
	if len(features) == 0 {
		return domain.InferenceResult{}, domain.ErrNoFeatures
	}
	result := personality.Infer(features)
	o.recorder.InferenceCompleted(result.TypeCode)
	logging.Ctx(ctx).Debug().
		Int("tracks", len(features)).
		Str("mbti", result.TypeCode).
		Msg("inference completed")
	return result, nil
}

// LoginURL returns the Spotify authorization URL for a fresh state value.
func (o *Orchestrator) LoginURL() string {
	return o.auth.AuthURL(o.newID())
}

// ExchangeCode trades an authorization code for an access token.
func (o *Orchestrator) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrEmptyCode
	}
	token, err := o.auth.Exchange(ctx, code)
	o.recorder.UpstreamCall("spotify_auth", err)
	if err != nil {
		return "", fmt.Errorf("service: token exchange: %w", err)
	}
	return token, nil
}

// TopTracks fetches the listener's top tracks.
func (o *Orchestrator) TopTracks(ctx context.Context, token string) ([]domain.TopTrack, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	tracks, err := o.spotify.TopTracks(ctx, token, o.topLimit, o.timeRange)
	o.recorder.UpstreamCall("spotify", err)
	if err != nil {
		return nil, fmt.Errorf("service: fetch top tracks: %w", err)
	}
	return tracks, nil
}

// Lyrics looks up the lyrics of a catalog track.
func (o *Orchestrator) Lyrics(ctx context.Context, token, trackID string) (domain.TrackLyrics, error) {
	if token == "" {
		return domain.TrackLyrics{}, domain.ErrUnauthorized
	}
	track, err := o.spotify.Track(ctx, token, trackID)
	o.recorder.UpstreamCall("spotify", err)
	if err != nil {
		return domain.TrackLyrics{}, fmt.Errorf("service: fetch track: %w", err)
	}

	text, err := o.lyrics.Lyrics(ctx, track.Title, track.ArtistName)
	o.recorder.UpstreamCall("lyrics", err)
	if err != nil {
		return domain.TrackLyrics{}, fmt.Errorf("service: fetch lyrics: %w", err)
	}

	var out domain.TrackLyrics
	out.Lyrics = text
	out.Summary = fmt.Sprintf("Lyrics fetched for '%s' by %s.", track.Title, track.ArtistName)
	out.Track.Title = track.Title
	out.Track.Artist = track.ArtistName
	return out, nil
}

// ArtistInsight builds a short biography of a track's first artist.
func (o *Orchestrator) ArtistInsight(ctx context.Context, token, trackID string) (domain.ArtistInsight, error) {
	if token == "" {
		return domain.ArtistInsight{}, domain.ErrUnauthorized
	}
	// The track lookup also checks the token, so cache hits never skip it.
	track, err := o.spotify.Track(ctx, token, trackID)
	o.recorder.UpstreamCall("spotify", err)
	if err != nil {
		return domain.ArtistInsight{}, fmt.Errorf("service: fetch track: %w", err)
	}
	if o.insights != nil {
		if cached, ok := o.insights.Get(trackID); ok {
			return cached, nil
		}
	}

	artist, err := o.spotify.Artist(ctx, token, track.ArtistID)
	o.recorder.UpstreamCall("spotify", err)
	if err != nil {
		return domain.ArtistInsight{}, fmt.Errorf("service: fetch artist: %w", err)
	}

	sources := make([]string, 0, 2)
	info := ""
	if len(artist.Genres) > 0 {
		sources = append(sources, "spotify")
		info = fmt.Sprintf("Genres: %s.\n", strings.Join(artist.Genres, ", "))
	}
	if strings.TrimSpace(info) == "" {
		info = fmt.Sprintf("Write a 100-word bio for %s, a musical artist.", track.ArtistName)
	}

	summary, err := o.summarizer.SummarizeArtist(ctx, track.ArtistName, info)
	o.recorder.UpstreamCall("llm", err)
	if err != nil {
		return domain.ArtistInsight{}, fmt.Errorf("service: summarize artist: %w", err)
	}
	sources = append(sources, "llm")

	genres := artist.Genres
	if genres == nil {
		genres = []string{}
	}
	insight := domain.ArtistInsight{
		ArtistName:  artist.Name,
		Image:       artist.ImageURL,
		Genres:      genres,
		Popularity:  artist.Popularity,
		SpotifyURL:  artist.SpotifyURL,
		Summary:     summary,
		SourcesUsed: sources,
	}
	if o.insights != nil {
		o.insights.Set(trackID, insight)
	}
	return insight, nil
}

// WarmArtistInsight fills the insight cache for trackID. Failures are logged, not returned.
func (o *Orchestrator) WarmArtistInsight(ctx context.Context, token, trackID string) {
	if o.insights == nil {
		return
	}
	if _, err := o.ArtistInsight(ctx, token, trackID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("track_id", trackID).Msg("artist insight warm-up failed")
	}
}

// SaveResult stores a shared result under a new id and returns that id.
func (o *Orchestrator) SaveResult(ctx context.Context, r domain.SharedResult) (string, error) {
	r.ResultID = o.newID()
	if r.TracksUsed == nil {
		r.TracksUsed = []map[string]any{}
	}
	if err := o.repo.Save(ctx, r); err != nil {
		return "", fmt.Errorf("service: save result: %w", err)
	}
	return r.ResultID, nil
}

// GetResult loads a shared result by id.
func (o *Orchestrator) GetResult(ctx context.Context, id string) (domain.SharedResult, error) {
	r, err := o.repo.GetByID(ctx, id)
	if err != nil {
		return domain.SharedResult{}, fmt.Errorf("service: load result: %w", err)
	}
	return r, nil
}

// Ping checks the result store.
func (o *Orchestrator) Ping(ctx context.Context) error {
	if err := o.repo.Ping(ctx); err != nil {
		return fmt.Errorf("service: storage ping: %w", err)
	}
	return nil
}
