package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/typetune/internal/adapters/insightcache"
	"github.com/ewilliams-labs/typetune/internal/adapters/sqlite"
	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/core/services"
	"github.com/ewilliams-labs/typetune/internal/metrics"
	"github.com/ewilliams-labs/typetune/internal/worker"
)

// --- Mocks ---

// The Handler depends on the concrete *Orchestrator, so tests build a real
// one over mock ports.

type mockSpotify struct {
	tracks    []domain.TopTrack
	topErr    error
	track     domain.TrackRef
	trackErr  error
	artist    domain.Artist
	artistErr error
}

func (m *mockSpotify) TopTracks(ctx context.Context, token string, limit int, timeRange string) ([]domain.TopTrack, error) {
	return m.tracks, m.topErr
}

func (m *mockSpotify) Track(ctx context.Context, token, trackID string) (domain.TrackRef, error) {
	if m.trackErr != nil {
		return domain.TrackRef{}, m.trackErr
	}
	if m.track.ID != "" {
		return m.track, nil
	}
	return domain.TrackRef{ID: trackID, Title: "Kyoto", ArtistID: "a1", ArtistName: "Phoebe Bridgers"}, nil
}

func (m *mockSpotify) Artist(ctx context.Context, token, artistID string) (domain.Artist, error) {
	if m.artistErr != nil {
		return domain.Artist{}, m.artistErr
	}
	if m.artist.ID != "" {
		return m.artist, nil
	}
	return domain.Artist{ID: artistID, Name: "Phoebe Bridgers", Genres: []string{"indie pop"}, Popularity: 77}, nil
}

type mockAuth struct {
	token string
	err   error
}

func (m *mockAuth) AuthURL(state string) string {
	return "https://accounts.spotify.com/authorize?state=" + state
}

func (m *mockAuth) Exchange(ctx context.Context, code string) (string, error) {
	return m.token, m.err
}

type mockLyrics struct {
	text string
	err  error
}

func (m *mockLyrics) Lyrics(ctx context.Context, title, artist string) (string, error) {
	return m.text, m.err
}

type mockSummarizer struct {
	summary string
	err     error
}

func (m *mockSummarizer) SummarizeArtist(ctx context.Context, artistName, info string) (string, error) {
	return m.summary, m.err
}

type mockRepo struct {
	pingErr error
}

func (m *mockRepo) Save(ctx context.Context, r domain.SharedResult) error { return nil }

func (m *mockRepo) GetByID(ctx context.Context, id string) (domain.SharedResult, error) {
	return domain.SharedResult{}, domain.ErrNotFound
}

func (m *mockRepo) Ping(ctx context.Context) error { return m.pingErr }

// newTestHandler wires a handler over deps, filling unset ports with defaults.
func newTestHandler(t *testing.T, deps services.Deps, opts ...Option) *Handler {
	t.Helper()
	if deps.Spotify == nil {
		deps.Spotify = &mockSpotify{}
	}
	if deps.Auth == nil {
		deps.Auth = &mockAuth{token: "access-1"}
	}
	if deps.Results == nil {
		deps.Results = &mockRepo{}
	}
	if deps.Lyrics == nil {
		deps.Lyrics = &mockLyrics{text: "Day off in Kyoto"}
	}
	if deps.Summarizer == nil {
		deps.Summarizer = &mockSummarizer{summary: "A sad-girl-indie staple."}
	}
	svc := services.NewOrchestrator(deps, services.WithIDGenerator(func() string { return "id-1" }))
	return NewHandler(svc, nil, opts...)
}

func doRequest(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var (
	jsonHeaders = map[string]string{"Content-Type": "application/json"}
	authHeaders = map[string]string{"Authorization": "Bearer tok"}
)

// --- Tests ---

func TestHandler_InferMBTI(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		headers        map[string]string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: valid features return the inference",
			body:           `{"audio_features":[{"popularity":90,"duration_ms":180000,"artist_popularity":85,"artist_genres":["pop","dance pop"]}]}`,
			headers:        jsonHeaders,
			expectedStatus: http.StatusOK,
			expectedBody:   `"mbti":"E`,
		},
		{
			name:           "Success: top-track payload with extra fields",
			body:           `{"audio_features":[{"track_name":"Kyoto","popularity":"n/a","duration_ms":184000,"artist_genres":["indie pop"]}]}`,
			headers:        jsonHeaders,
			expectedStatus: http.StatusOK,
			expectedBody:   `"top_genres":["indie pop"]`,
		},
		{
			name:           "Bad Request: empty list",
			body:           `{"audio_features":[]}`,
			headers:        jsonHeaders,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "No audio features provided",
		},
		{
			name:           "Bad Request: missing list",
			body:           `{}`,
			headers:        jsonHeaders,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "No audio features provided",
		},
		{
			name:           "Bad Request: malformed json",
			body:           `{"audio_features":`,
			headers:        jsonHeaders,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "Unsupported media type",
			body:           `{"audio_features":[{}]}`,
			headers:        map[string]string{"Content-Type": "text/plain"},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, services.Deps{})
			rec := doRequest(h, http.MethodPost, "/mbti", tt.body, tt.headers)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
			if tt.expectedBody != "" && !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_InferMBTI_ResponseShape(t *testing.T) {
	h := newTestHandler(t, services.Deps{})
	rec := doRequest(h, http.MethodPost, "/mbti", `{"audio_features":[{"popularity":50}]}`, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		MBTI      string `json:"mbti"`
		Summary   string `json:"summary"`
		Breakdown struct {
			TopGenres []string                  `json:"top_genres"`
			Logic     map[string]map[string]any `json:"mbti_logic"`
		} `json:"breakdown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.MBTI) != 4 || !strings.HasPrefix(got.Summary, "Based on your music metadata, you're "+got.MBTI) {
		t.Fatalf("unexpected result %+v", got)
	}
	for _, axis := range []string{"E vs I", "S vs N", "T vs F", "J vs P"} {
		v, ok := got.Breakdown.Logic[axis]
		if !ok {
			t.Fatalf("missing axis %q", axis)
		}
		for _, key := range []string{"direction", "value", "reason"} {
			if _, ok := v[key]; !ok {
				t.Fatalf("axis %q missing %q", axis, key)
			}
		}
	}
	if got.Breakdown.TopGenres == nil {
		t.Fatalf("top_genres must be a list")
	}
}

func TestHandler_Auth(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		auth           *mockAuth
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Login returns authorize url",
			target:         "/login",
			auth:           &mockAuth{},
			expectedStatus: http.StatusOK,
			expectedBody:   `"url":"https://accounts.spotify.com/authorize?state=id-1"`,
		},
		{
			name:           "Callback exchanges code",
			target:         "/callback?code=abc",
			auth:           &mockAuth{token: "access-1"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"access_token":"access-1"`,
		},
		{
			name:           "Callback without code",
			target:         "/callback",
			auth:           &mockAuth{token: "access-1"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Could not fetch token",
		},
		{
			name:           "Callback exchange failure",
			target:         "/callback?code=expired",
			auth:           &mockAuth{err: errors.New("invalid_grant")},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Could not fetch token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, services.Deps{Auth: tt.auth})
			rec := doRequest(h, http.MethodGet, tt.target, "", nil)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_TopTracks(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		spotify        *mockSpotify
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Unauthorized: missing token",
			spotify:        &mockSpotify{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Missing Spotify access token",
		},
		{
			name:           "Success",
			headers:        authHeaders,
			spotify:        &mockSpotify{tracks: []domain.TopTrack{{TrackID: "t1", TrackName: "Kyoto", ArtistGenres: []string{}}}},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tracks":[{"track_name":"Kyoto","track_id":"t1"`,
		},
		{
			name:           "Success: no tracks is an empty list",
			headers:        authHeaders,
			spotify:        &mockSpotify{},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tracks":[]`,
		},
		{
			name:           "Spotify failure",
			headers:        authHeaders,
			spotify:        &mockSpotify{topErr: &domain.UpstreamStatusError{Service: "spotify", Status: 401}},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Error fetching top tracks: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, services.Deps{Spotify: tt.spotify})
			rec := doRequest(h, http.MethodGet, "/top-tracks", "", tt.headers)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_TopTracksWarmsInsights(t *testing.T) {
	cache, err := insightcache.New(100, time.Minute)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer cache.Close()

	sp := &mockSpotify{tracks: []domain.TopTrack{{TrackID: "t1"}, {TrackID: "t2"}, {TrackID: "t3"}}}
	svc := services.NewOrchestrator(services.Deps{
		Spotify:    sp,
		Auth:       &mockAuth{},
		Results:    &mockRepo{},
		Lyrics:     &mockLyrics{},
		Summarizer: &mockSummarizer{summary: "warm"},
	}, services.WithInsightCache(cache))

	pool := worker.NewPool(svc, 10)
	pool.Start(1)
	h := NewHandler(svc, pool, WithWarmup(2))

	rec := doRequest(h, http.MethodGet, "/top-tracks", "", authHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	defer pool.Stop()

	warmed := func() bool {
		cache.Wait()
		for _, id := range []string{"t1", "t2"} {
			if got, ok := cache.Get(id); !ok || got.Summary != "warm" {
				return false
			}
		}
		return true
	}
	deadline := time.Now().Add(5 * time.Second)
	for !warmed() {
		if time.Now().After(deadline) {
			t.Fatalf("expected insights for t1 and t2 to be warmed")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := cache.Get("t3"); ok {
		t.Errorf("only the first 2 tracks should be warmed")
	}
}

func TestHandler_Lyrics(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		spotify        *mockSpotify
		lyrics         *mockLyrics
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Unauthorized: missing token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Success",
			headers:        authHeaders,
			lyrics:         &mockLyrics{text: "Day off in Kyoto"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"summary":"Lyrics fetched for 'Kyoto' by Phoebe Bridgers.","track":{"title":"Kyoto","artist":"Phoebe Bridgers"}`,
		},
		{
			name:           "Spotify status is mirrored",
			headers:        authHeaders,
			spotify:        &mockSpotify{trackErr: fmt.Errorf("spotify adapter: %w", &domain.UpstreamStatusError{Service: "spotify", Status: 404})},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Spotify track fetch failed",
		},
		{
			name:           "Lyrics not found",
			headers:        authHeaders,
			lyrics:         &mockLyrics{err: domain.ErrLyricsNotFound},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Lyrics not found",
		},
		{
			name:           "Invalid lyrics response",
			headers:        authHeaders,
			lyrics:         &mockLyrics{err: fmt.Errorf("decode response: %w", domain.ErrBadResponse)},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Invalid lyrics API response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := services.Deps{}
			if tt.spotify != nil {
				deps.Spotify = tt.spotify
			}
			if tt.lyrics != nil {
				deps.Lyrics = tt.lyrics
			}
			h := newTestHandler(t, deps)
			rec := doRequest(h, http.MethodGet, "/lyrics/t1", "", tt.headers)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_ArtistInsight(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		summarizer     *mockSummarizer
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Unauthorized: missing token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Success",
			headers:        authHeaders,
			summarizer:     &mockSummarizer{summary: "Indie darling."},
			expectedStatus: http.StatusOK,
			expectedBody:   `"summary":"Indie darling.","sources_used":["spotify","llm"]`,
		},
		{
			name:           "Summarizer failure",
			headers:        authHeaders,
			summarizer:     &mockSummarizer{err: errors.New("llm down")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Artist insight error: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := services.Deps{}
			if tt.summarizer != nil {
				deps.Summarizer = tt.summarizer
			}
			h := newTestHandler(t, deps)
			rec := doRequest(h, http.MethodGet, "/artist-insight/t1", "", tt.headers)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_SaveAndGetResult(t *testing.T) {
	repo, err := sqlite.NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	defer repo.Close()

	h := newTestHandler(t, services.Deps{Results: repo})

	body := `{
		"mbti": "INFP",
		"summary": "Based on your music metadata, you're INFP",
		"breakdown": {"avg_track_popularity": 30, "top_genres": ["lo-fi"], "mbti_logic": {"E vs I": {"direction": "I", "value": 70, "reason": "r"}}},
		"tracks_used": [{"track_name": "Kyoto", "popularity": 71}],
		"user": "dana"
	}`
	rec := doRequest(h, http.MethodPost, "/save-result", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"result_id":"id-1"`) {
		t.Fatalf("save: unexpected body %s", rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/result/id-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got domain.SharedResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ResultID != "id-1" || got.MBTI != "INFP" || got.User == nil || *got.User != "dana" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Breakdown.MBTILogic["E vs I"].Value != 70 || len(got.TracksUsed) != 1 {
		t.Fatalf("unexpected breakdown or tracks %+v", got)
	}
	if strings.Contains(rec.Body.String(), `"_id"`) {
		t.Fatalf("store-internal ids must not leak: %s", rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/result/missing", "", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Result not found") {
		t.Fatalf("missing: expected 404 Result not found, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_SaveResultValidation(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedBody string
	}{
		{
			name:         "mbti too long",
			body:         `{"mbti":"INFPX","summary":"s","breakdown":{},"tracks_used":[]}`,
			expectedBody: "mbti (len)",
		},
		{
			name:         "missing summary",
			body:         `{"mbti":"INFP","breakdown":{},"tracks_used":[]}`,
			expectedBody: "summary (required)",
		},
		{
			name:         "missing tracks_used",
			body:         `{"mbti":"INFP","summary":"s","breakdown":{}}`,
			expectedBody: "tracks_used (required)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, services.Deps{})
			rec := doRequest(h, http.MethodPost, "/save-result", tt.body, jsonHeaders)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d, body: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	m := metrics.New()
	h := newTestHandler(t, services.Deps{}, WithMetrics(m))

	rec := doRequest(h, http.MethodGet, "/ping", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("ping: got %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"storage":"ok"`) {
		t.Fatalf("health: got %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `typetune_http_requests_total{method="GET",route="/ping",status="200"} 1`) {
		t.Fatalf("expected ping to be counted, got:\n%s", rec.Body.String())
	}

	degraded := newTestHandler(t, services.Deps{Results: &mockRepo{pingErr: errors.New("disk full")}})
	rec = doRequest(degraded, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded health: expected 503, got %d", rec.Code)
	}
}

func TestHandler_CORS(t *testing.T) {
	h := newTestHandler(t, services.Deps{}, WithCORS([]string{"https://typetune.vercel.app"}))

	rec := doRequest(h, http.MethodOptions, "/mbti", "", map[string]string{
		"Origin":                        "https://typetune.vercel.app",
		"Access-Control-Request-Method": "POST",
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://typetune.vercel.app" {
		t.Fatalf("allowed origin: got %q", got)
	}

	rec = doRequest(h, http.MethodGet, "/ping", "", map[string]string{"Origin": "https://evil.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin %q for foreign origin", got)
	}
}

func TestHandler_RateLimit(t *testing.T) {
	h := newTestHandler(t, services.Deps{}, WithRateLimit(1, time.Minute))

	first := doRequest(h, http.MethodGet, "/login", "", nil)
	second := doRequest(h, http.MethodGet, "/login", "", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", second.Code)
	}

	// Health checks are not rate limited.
	if rec := doRequest(h, http.MethodGet, "/ping", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("ping: got %d", rec.Code)
	}
}
