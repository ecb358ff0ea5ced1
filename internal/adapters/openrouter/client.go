// Package openrouter provides an adapter for OpenAI-compatible chat completion
// APIs such as OpenRouter. It writes short artist biographies.
package openrouter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/typetune/internal/adapters/breaker"
	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/core/ports"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openrouter/horizon-alpha"
	systemPrompt   = "You are a helpful music expert."
	temperature    = 0.7
	maxTokens      = 300
)

const bioPrompt = "Using the following info, write a short ~100-word biography of the musical artist '%s'. " +
	"Focus on genre, background, notable achievements, and overall style. Make it sound casual, music-savvy, " +
	"and human, like something from a fan blog or artist spotlight.\n\nINFO:\n%s"

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Referer string
	Title   string
	Timeout time.Duration
	Breaker breaker.Config
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	referer    string
	title      string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[string]
}

var _ ports.Summarizer = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		referer:    cfg.Referer,
		title:      cfg.Title,
		httpClient: &http.Client{Timeout: timeout},
		cb:         breaker.New[string]("llm", cfg.Breaker, nil),
	}
}

// SummarizeArtist asks the model for a short biography of artistName based on info.
func (c *Client) SummarizeArtist(ctx context.Context, artistName, info string) (string, error) {
	summary, err := c.cb.Execute(func() (string, error) {
		return c.complete(ctx, fmt.Sprintf(bioPrompt, artistName, info))
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: %w", err)
	}
	return summary, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.UpstreamStatusError{Service: "llm", Status: resp.StatusCode}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w: %w", domain.ErrBadResponse, err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", errors.New(parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty response: %w", domain.ErrBadResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}
