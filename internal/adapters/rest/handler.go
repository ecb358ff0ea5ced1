package rest

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/ewilliams-labs/typetune/internal/core/services"
	"github.com/ewilliams-labs/typetune/internal/metrics"
	"github.com/ewilliams-labs/typetune/internal/worker"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc      *services.Orchestrator // Dependency on the Core Service
	pool     *worker.Pool           // Optional; warms artist insights after /top-tracks
	metrics  *metrics.Metrics       // Optional
	validate *validator.Validate
	router   chi.Router

	corsOrigins  []string
	rateRequests int
	rateWindow   time.Duration
	warmupTracks int
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records request metrics and serves GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithCORS allows browser calls from origins.
func WithCORS(origins []string) Option {
	return func(h *Handler) { h.corsOrigins = origins }
}

// WithRateLimit limits each client IP to requests per window. Zero disables it.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(h *Handler) {
		h.rateRequests = requests
		h.rateWindow = window
	}
}

// WithWarmup sets how many top tracks get their artist insight prefetched.
func WithWarmup(tracks int) Option {
	return func(h *Handler) { h.warmupTracks = tracks }
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, pool *worker.Pool, opts ...Option) *Handler {
	h := &Handler{
		svc:          svc,
		pool:         pool,
		validate:     newValidator(),
		warmupTracks: 5,
	}
	for _, opt := range opts {
		opt(h)
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.metrics))
	r.Use(chimiddleware.Recoverer)
	if len(h.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           86400,
		}))
	}

	// Health Check
	r.Get("/ping", h.Ping)
	r.Get("/health", h.HealthCheck)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if h.rateRequests > 0 {
			r.Use(httprate.LimitByIP(h.rateRequests, h.rateWindow))
		}

		// Spotify sign-in
		r.Get("/login", h.Login)
		r.Get("/callback", h.Callback)

		// Listener data and inference
		r.Get("/top-tracks", h.TopTracks)
		r.Post("/mbti", h.InferMBTI)

		// Enrichment
		r.Get("/lyrics/{trackID}", h.Lyrics)
		r.Get("/artist-insight/{trackID}", h.ArtistInsight)

		// Result sharing
		r.Post("/save-result", h.SaveResult)
		r.Get("/result/{resultID}", h.GetResult)
	})

	h.router = r
}

// Ping handles GET /ping
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthCheck reports whether the API and its result store are reachable.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "storage": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "ok", "message": "TypeTune is live 🎶"})
}

// newValidator reports failing fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
