package onnx

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-jersey/inference"
)

// Option configures a Backend.
type Option func(*config)

type config struct {
	threshold float32
	poolSize  int
	inputSize int
	names     inference.IONames
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		threshold: 0.5,
		poolSize:  runtime.NumCPU(),
		inputSize: 224,
		names:     inference.DefaultIONames,
		logger:    slog.Default(),
	}
}

// WithThreshold sets the probability cutoff (default: 0.5).
func WithThreshold(t float32) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithPoolSize sets the ONNX session pool size (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithInputSize sets the square input resolution (default: 224).
func WithInputSize(px int) Option {
	return func(c *config) {
		if px > 0 {
			c.inputSize = px
		}
	}
}

// WithIONames overrides the model's tensor names
// (default: "pixel_values" in, "logits" out).
func WithIONames(names inference.IONames) Option {
	return func(c *config) {
		if names.Input != "" && names.Output != "" {
			c.names = names
		}
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
