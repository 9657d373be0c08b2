package ollama

import (
	"log/slog"
	"net/http"
)

// Option configures a Backend.
type Option func(*config)

type config struct {
	host       string
	httpClient *http.Client
	options    map[string]any
	logger     *slog.Logger
}

// WithHost sets the server address, e.g. "http://gpu-box:11434".
func WithHost(host string) Option {
	return func(c *config) {
		c.host = host
	}
}

// WithHTTPClient sets the HTTP client. The default client bypasses proxy
// settings and applies no timeout of its own; per-call timeouts come from
// jersey.Request.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithOptions adds model options (e.g. "num_ctx") sent with every request.
// They override temperature and num_predict derived from the request.
func WithOptions(opts map[string]any) Option {
	return func(c *config) {
		c.options = opts
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
