// Package config loads TypeTune's runtime configuration.
//
// Values are layered, lowest precedence first:
//  1. defaults from New()
//  2. a YAML file named by TYPETUNE_CONFIG, if set
//  3. environment variables prefixed TYPETUNE_, with "__" separating
//     sections, e.g. TYPETUNE_SPOTIFY__CLIENT_ID
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Spotify SpotifyConfig `koanf:"spotify"`
	Lyrics  LyricsConfig  `koanf:"lyrics"`
	LLM     LLMConfig     `koanf:"llm"`
	Breaker BreakerConfig `koanf:"breaker"`
	Insight InsightConfig `koanf:"insight"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"` // 0 disables rate limiting
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console; empty picks console on a terminal
}

type StorageConfig struct {
	Driver      string `koanf:"driver"` // sqlite or mongo
	SQLitePath  string `koanf:"sqlite_path"`
	MongoURI    string `koanf:"mongo_uri"`
	MongoDBName string `koanf:"mongo_database"`
}

type SpotifyConfig struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	RedirectURL  string        `koanf:"redirect_url"`
	APIBaseURL   string        `koanf:"api_base_url"`
	MaxRetries   int           `koanf:"max_retries"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`
	TopLimit     int           `koanf:"top_limit"`
	TimeRange    string        `koanf:"time_range"`
}

type LyricsConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

type LLMConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	Referer string        `koanf:"referer"`
	Title   string        `koanf:"title"`
	Timeout time.Duration `koanf:"timeout"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
}

type InsightConfig struct {
	Workers      int           `koanf:"workers"`
	QueueSize    int           `koanf:"queue_size"`
	WarmupTracks int           `koanf:"warmup_tracks"` // top tracks prefetched per /top-tracks call
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	CacheEntries int64         `koanf:"cache_entries"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins: []string{
				"https://typetune.vercel.app",
				"http://localhost:5173",
				"http://localhost:3000",
			},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Driver:      "sqlite",
			SQLitePath:  "typetune.db",
			MongoDBName: "typetune",
		},
		Spotify: SpotifyConfig{
			APIBaseURL:   "https://api.spotify.com/v1",
			MaxRetries:   3,
			RetryBackoff: 500 * time.Millisecond,
			TopLimit:     24,
			TimeRange:    "medium_term",
		},
		Lyrics: LyricsConfig{
			BaseURL: "https://some-random-api.com",
		},
		LLM: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "openrouter/horizon-alpha",
			Referer: "https://typetune.vercel.app",
			Title:   "TypeTune",
			Timeout: 30 * time.Second,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		Insight: InsightConfig{
			Workers:      2,
			QueueSize:    100,
			WarmupTracks: 5,
			CacheTTL:     6 * time.Hour,
			CacheEntries: 5000,
		},
	}
}
