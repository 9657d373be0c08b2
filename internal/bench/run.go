package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	jersey "github.com/jamesainslie/go-jersey"
)

// Config holds run parameters.
type Config struct {
	// ContinueOnError keeps going after a failed image instead of
	// stopping the run. Failed images add no row.
	ContinueOnError bool

	// Options are passed to every jersey.Evaluator.
	Options []jersey.Option
}

// Result is the outcome of one backend over one dataset.
type Result struct {
	Backend  string
	Table    *jersey.Table
	Report   jersey.Report
	Failures int
	Elapsed  time.Duration

	// Err holds the aggregation error, typically jersey.ErrZeroWeight
	// when no image carried ground truth.
	Err error
}

// Run evaluates every image with b. Without ContinueOnError the first
// failure aborts the run and is returned alongside the partial result.
func Run(ctx context.Context, b jersey.Backend, images []jersey.Image, cfg Config) (Result, error) {
	ev := jersey.New(b, cfg.Options...)
	res := Result{Backend: b.Name(), Table: ev.Table()}

	start := time.Now()
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}

		if _, err := ev.Evaluate(ctx, img); err != nil {
			res.Failures++
			if !cfg.ContinueOnError {
				res.Elapsed = time.Since(start)
				res.Report, res.Err = ev.Report()
				return res, fmt.Errorf("%s: %w", img.ID, err)
			}
		}
	}
	res.Elapsed = time.Since(start)

	res.Report, res.Err = ev.Report()
	if res.Err != nil && !errors.Is(res.Err, jersey.ErrZeroWeight) {
		return res, res.Err
	}
	return res, nil
}
