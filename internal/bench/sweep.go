package bench

import (
	"context"
	"fmt"
	"sort"

	jersey "github.com/jamesainslie/go-jersey"
	"github.com/jamesainslie/go-jersey/backend/onnx"
)

// Compare runs each backend over the same images and returns results
// sorted by overall accuracy, best first. Ties keep the input order.
// When a backend fails the remaining ones are skipped; the results so far,
// including the failed backend's partial table, are returned with the error.
func Compare(ctx context.Context, backends []jersey.Backend, images []jersey.Image, cfg Config) ([]Result, error) {
	results := make([]Result, 0, len(backends))
	for _, b := range backends {
		res, err := Run(ctx, b, images, cfg)
		results = append(results, res)
		if err != nil {
			sortByAccuracy(results)
			return results, fmt.Errorf("%s: %w", b.Name(), err)
		}
	}

	sortByAccuracy(results)
	return results, nil
}

func sortByAccuracy(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Report.OverallAccuracy > results[j].Report.OverallAccuracy
	})
}

// SweepResult holds the outcome for one threshold value.
type SweepResult struct {
	Threshold float32
	Result    Result
}

// SweepThresholds generates threshold values from min to max with given step.
func SweepThresholds(min, max, step float32) []float32 {
	var thresholds []float32
	for t := min; t < max; t += step {
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates the ONNX classifier at each threshold and returns results
// sorted by overall accuracy. On a failed run it returns the results so far,
// in threshold order, with the error.
func Sweep(ctx context.Context, modelPath string, images []jersey.Image, cfg Config, thresholds []float32, opts ...onnx.Option) ([]SweepResult, error) {
	var results []SweepResult

	for _, threshold := range thresholds {
		b, err := onnx.New(modelPath, append(opts, onnx.WithThreshold(threshold))...)
		if err != nil {
			return nil, err
		}

		res, err := Run(ctx, b, images, cfg)
		_ = b.Close()
		results = append(results, SweepResult{Threshold: threshold, Result: res})
		if err != nil {
			return results, fmt.Errorf("threshold %.3f: %w", threshold, err)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Result.Report.OverallAccuracy > results[j].Result.Report.OverallAccuracy
	})

	return results, nil
}
