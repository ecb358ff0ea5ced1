// Package lyrics fetches song lyrics from some-random-api.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/typetune/internal/adapters/breaker"
	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/core/ports"
)

const defaultBaseURL = "https://some-random-api.com"

// maxBodyBytes bounds how much of a lyrics response is read.
const maxBodyBytes = 1 << 20

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[string]
}

var _ ports.LyricsProvider = (*Client)(nil)

type lyricsResponse struct {
	Lyrics string `json:"lyrics"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, cbCfg breaker.Config) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		cb: breaker.New[string]("lyrics", cbCfg, func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrLyricsNotFound)
		}),
	}
}

// Lyrics returns the lyrics for title by artist.
func (c *Client) Lyrics(ctx context.Context, title, artist string) (string, error) {
	text, err := c.cb.Execute(func() (string, error) {
		return c.fetch(ctx, title, artist)
	})
	if err != nil {
		return "", fmt.Errorf("lyrics: %w", err)
	}
	return text, nil
}

func (c *Client) fetch(ctx context.Context, title, artist string) (string, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("artist", artist)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lyrics?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed lyricsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w: %w", domain.ErrBadResponse, err)
	}
	if resp.StatusCode == http.StatusNotFound || strings.TrimSpace(parsed.Lyrics) == "" {
		return "", domain.ErrLyricsNotFound
	}
	return parsed.Lyrics, nil
}
