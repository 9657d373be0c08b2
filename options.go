package jersey

import (
	"encoding/json"
	"log/slog"
	"time"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	deriver      Deriver
	extract      func(string) (string, error)
	prompt       string
	systemPrompt string
	format       json.RawMessage
	maxTokens    int
	temperature  float64
	keepAlive    time.Duration
	timeout      time.Duration
	logger       *slog.Logger
}

func defaultConfig() config {
	return config{
		deriver:      DeriveGroundTruth,
		extract:      ExtractJSONObject,
		prompt:       DefaultPrompt,
		systemPrompt: DefaultSystemPrompt,
		format:       DefaultFormat,
		maxTokens:    DefaultMaxTokens,
		keepAlive:    DefaultKeepAlive,
		timeout:      DefaultTimeout,
		logger:       slog.Default(),
	}
}

// WithDeriver sets the ground-truth strategy (default: DeriveGroundTruth).
func WithDeriver(d Deriver) Option {
	return func(c *config) {
		if d != nil {
			c.deriver = d
		}
	}
}

// WithQuoteAwareExtraction switches free-text parsing to
// ExtractJSONObjectQuoted.
func WithQuoteAwareExtraction() Option {
	return func(c *config) {
		c.extract = ExtractJSONObjectQuoted
	}
}

// WithSingleSubject switches to the scalar one-player schema and prompts
// (SingleSubjectFormat, SingleSubjectSystemPrompt, SingleSubjectPrompt).
// Scalar replies decode to one-element sequences and score like the list
// form. Apply WithPrompt afterwards to override the user prompt.
func WithSingleSubject() Option {
	return func(c *config) {
		c.format = SingleSubjectFormat
		c.systemPrompt = SingleSubjectSystemPrompt
		c.prompt = SingleSubjectPrompt
	}
}

// WithPrompt sets the user prompt (default: DefaultPrompt).
func WithPrompt(p string) Option {
	return func(c *config) {
		c.prompt = p
	}
}

// WithSystemPrompt sets the system prompt (default: DefaultSystemPrompt).
func WithSystemPrompt(p string) Option {
	return func(c *config) {
		c.systemPrompt = p
	}
}

// WithFormat sets the response schema (default: DefaultFormat). A nil
// format leaves the response unconstrained.
func WithFormat(f json.RawMessage) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithMaxTokens caps generated tokens (default: 200).
func WithMaxTokens(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTemperature sets sampling temperature (default: 0).
func WithTemperature(t float64) Option {
	return func(c *config) {
		c.temperature = t
	}
}

// WithKeepAlive sets how long a model server keeps the model loaded (default: 10m).
func WithKeepAlive(d time.Duration) Option {
	return func(c *config) {
		c.keepAlive = d
	}
}

// WithTimeout bounds each backend call (default: 120s).
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
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
