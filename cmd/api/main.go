package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/typetune/internal/adapters/breaker"
	"github.com/ewilliams-labs/typetune/internal/adapters/insightcache"
	"github.com/ewilliams-labs/typetune/internal/adapters/lyrics"
	"github.com/ewilliams-labs/typetune/internal/adapters/mongo"
	"github.com/ewilliams-labs/typetune/internal/adapters/openrouter"
	"github.com/ewilliams-labs/typetune/internal/adapters/rest"
	"github.com/ewilliams-labs/typetune/internal/adapters/spotify"
	"github.com/ewilliams-labs/typetune/internal/adapters/spotifyauth"
	"github.com/ewilliams-labs/typetune/internal/adapters/sqlite"
	"github.com/ewilliams-labs/typetune/internal/config"
	"github.com/ewilliams-labs/typetune/internal/core/ports"
	"github.com/ewilliams-labs/typetune/internal/core/services"
	"github.com/ewilliams-labs/typetune/internal/logging"
	"github.com/ewilliams-labs/typetune/internal/metrics"
	"github.com/ewilliams-labs/typetune/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logging.Fatal().Err(err).Msg("typetune api exited")
	}
}

func run(ctx context.Context) error {
	// 1. Configuration
	// Crash early if required config is missing.
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err := cfg.RequireSpotifyCredentials(); err != nil {
		return err
	}

	// 2. Driven adapters
	// -- Result storage
	repo, closeRepo, err := openResults(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeRepo()

	// -- Spotify
	spotifyClient := spotify.NewClient(
		&http.Client{Timeout: 15 * time.Second},
		cfg.Spotify.APIBaseURL,
		spotify.WithRetry(cfg.Spotify.MaxRetries, cfg.Spotify.RetryBackoff),
	)
	auth := spotifyauth.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURL)

	// -- Enrichment
	cbCfg := breaker.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		OpenTimeout:      cfg.Breaker.OpenTimeout,
	}
	lyricsClient := lyrics.NewClient(cfg.Lyrics.BaseURL, cfg.Lyrics.APIKey, &http.Client{Timeout: 15 * time.Second}, cbCfg)
	summarizer := openrouter.NewClient(openrouter.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Referer: cfg.LLM.Referer,
		Title:   cfg.LLM.Title,
		Timeout: cfg.LLM.Timeout,
		Breaker: cbCfg,
	})
	if cfg.LLM.APIKey == "" {
		logging.Warn().Msg("llm.api_key is not set; artist insights will fail")
	}

	cache, err := insightcache.New(cfg.Insight.CacheEntries, cfg.Insight.CacheTTL)
	if err != nil {
		return err
	}
	defer cache.Close()

	m := metrics.New()

	// 3. Core
	svc := services.NewOrchestrator(services.Deps{
		Spotify:    spotifyClient,
		Auth:       auth,
		Results:    repo,
		Lyrics:     lyricsClient,
		Summarizer: summarizer,
	},
		services.WithInsightCache(cache),
		services.WithRecorder(m),
		services.WithTopTracks(cfg.Spotify.TopLimit, cfg.Spotify.TimeRange),
	)

	pool := worker.NewPool(svc, cfg.Insight.QueueSize)
	pool.Start(cfg.Insight.Workers)
	defer pool.Stop()

	// 4. Driving adapter
	handler := rest.NewHandler(svc, pool,
		rest.WithMetrics(m),
		rest.WithCORS(cfg.Server.CORSOrigins),
		rest.WithRateLimit(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow),
		rest.WithWarmup(cfg.Insight.WarmupTracks),
	)

	// 5. Serve
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", cfg.Server.Addr).
			Str("storage", cfg.Storage.Driver).
			Msg("🎶 TypeTune API is running")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown error")
		}
	}
	return nil
}

// openResults opens the configured result store and returns its closer.
func openResults(ctx context.Context, cfg config.StorageConfig) (ports.ResultRepository, func(), error) {
	switch cfg.Driver {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		adapter, err := mongo.NewAdapter(connectCtx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		return adapter, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := adapter.Close(closeCtx); err != nil {
				logging.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}, nil
	default:
		adapter, err := sqlite.NewAdapter(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return adapter, func() {
			if err := adapter.Close(); err != nil {
				logging.Warn().Err(err).Msg("sqlite close failed")
			}
		}, nil
	}
}
