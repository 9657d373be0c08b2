package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	jersey "github.com/jamesainslie/go-jersey"
	"github.com/jamesainslie/go-jersey/backend/gemini"
	"github.com/jamesainslie/go-jersey/backend/ollama"
	"github.com/jamesainslie/go-jersey/backend/onnx"
	"github.com/jamesainslie/go-jersey/backend/openai"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend kind.
var ErrUnknownBackend = errors.New("bench: unknown backend")

// OpenConfig carries the settings Open passes on to backend constructors.
type OpenConfig struct {
	OllamaHost string
	Threshold  float32 // onnx probability cutoff; 0 keeps the default
	PoolSize   int
	Logger     *slog.Logger
}

// Open creates a backend from a "kind:arg" string: "ollama:<model>",
// "openai:<model>", "gemini:<model>" or "onnx:<model path>".
func Open(ctx context.Context, ref string, cfg OpenConfig) (jersey.Backend, error) {
	kind, arg, ok := strings.Cut(ref, ":")
	if !ok || arg == "" {
		return nil, fmt.Errorf("%w: %q (want kind:arg)", ErrUnknownBackend, ref)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		b   jersey.Backend
		err error
	)
	switch kind {
	case "ollama":
		opts := []ollama.Option{ollama.WithLogger(logger)}
		if cfg.OllamaHost != "" {
			opts = append(opts, ollama.WithHost(cfg.OllamaHost))
		}
		b, err = ollama.New(arg, opts...)
	case "openai":
		b = openai.New(arg, openai.WithLogger(logger))
	case "gemini":
		b, err = gemini.New(ctx, arg, gemini.WithLogger(logger))
	case "onnx":
		opts := []onnx.Option{onnx.WithLogger(logger), onnx.WithPoolSize(cfg.PoolSize)}
		if cfg.Threshold > 0 {
			opts = append(opts, onnx.WithThreshold(cfg.Threshold))
		}
		b, err = onnx.New(arg, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// OpenAll opens a comma-separated list of backend refs. On error the
// backends opened so far are closed.
func OpenAll(ctx context.Context, refs string, cfg OpenConfig) ([]jersey.Backend, error) {
	var backends []jersey.Backend
	for _, ref := range strings.Split(refs, ",") {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		b, err := Open(ctx, ref, cfg)
		if err != nil {
			_ = CloseAll(backends)
			return nil, err
		}
		backends = append(backends, b)
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: no backends in %q", ErrUnknownBackend, refs)
	}
	return backends, nil
}

// CloseAll closes every backend holding resources.
func CloseAll(backends []jersey.Backend) error {
	var errs []error
	for _, b := range backends {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
