package gemini

import (
	"log/slog"
	"net/http"
)

// Option configures a Backend.
type Option func(*config)

type config struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	models     Models
	logger     *slog.Logger
}

// WithAPIKey sets the API key (default: $GEMINI_API_KEY).
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithModels replaces the SDK client, mainly for tests.
func WithModels(m Models) Option {
	return func(c *config) {
		c.models = m
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
