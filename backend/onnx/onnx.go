// Package onnx implements jersey.Backend with a local multi-label jersey
// number classifier run through ONNX Runtime.
//
// The model takes one ImageNet-normalized NCHW float32 image and produces
// one logit per jersey number 0..99. Every number whose sigmoid
// probability exceeds the threshold is predicted.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	jersey "github.com/jamesainslie/go-jersey"
	"github.com/jamesainslie/go-jersey/inference"
)

// NumClasses is the size of the classifier output: numbers 0..99.
const NumClasses = 100

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("onnx: model file not found")

	// ErrInvalidModel indicates the model file exists but cannot be loaded.
	ErrInvalidModel = errors.New("onnx: invalid model format")

	// ErrOutputShape indicates the model produced the wrong number of logits.
	ErrOutputShape = errors.New("onnx: unexpected output size")
)

// Backend classifies images with a pool of ONNX sessions. It is safe for
// concurrent use.
type Backend struct {
	name      string
	pool      *inference.Pool
	threshold float32
	inputSize int
	logger    *slog.Logger
}

// New loads the classifier at modelPath.
func New(modelPath string, opts ...Option) (*Backend, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	pool, err := inference.NewPool(modelPath, cfg.poolSize, cfg.names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	return &Backend{
		name:      "onnx:" + modelPath,
		pool:      pool,
		threshold: cfg.threshold,
		inputSize: cfg.inputSize,
		logger:    cfg.logger,
	}, nil
}

// Name returns "onnx:<model path>".
func (b *Backend) Name() string { return b.name }

// Threshold returns the probability cutoff.
func (b *Backend) Threshold() float32 { return b.threshold }

// Extract decodes the image, runs the classifier and returns a Record.
// Prompts, formats and token limits do not apply and are ignored.
func (b *Backend) Extract(ctx context.Context, req jersey.Request) (jersey.Output, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	pixels, err := Preprocess(req.Image, b.inputSize)
	if err != nil {
		return jersey.Output{}, &jersey.BackendError{Backend: b.Name(), Err: err}
	}

	shape := []int64{1, 3, int64(b.inputSize), int64(b.inputSize)}
	logits, err := b.pool.Infer(ctx, pixels, shape)
	if err != nil {
		return jersey.Output{}, &jersey.BackendError{Backend: b.Name(), Err: err}
	}
	if len(logits) != NumClasses {
		return jersey.Output{}, &jersey.BackendError{
			Backend: b.Name(),
			Err:     fmt.Errorf("%w: got %d, want %d", ErrOutputShape, len(logits), NumClasses),
		}
	}

	prediction := Decode(logits, b.threshold)
	b.logger.Debug("onnx classification",
		"image", req.ImagePath,
		"numbers", prediction.Numbers(),
		"threshold", b.threshold,
	)
	return jersey.Output{Record: &prediction}, nil
}

// Close releases the session pool.
func (b *Backend) Close() error {
	if b.pool == nil {
		return nil
	}
	return b.pool.Close()
}

// Decode turns logits into a Prediction holding every class whose
// probability exceeds threshold, most confident first. Last names and
// colors are not predicted and stay nil.
func Decode(logits []float32, threshold float32) jersey.Prediction {
	type hit struct {
		number int
		prob   float32
	}

	var hits []hit
	for i, l := range logits {
		if p := sigmoid(l); p > threshold {
			hits = append(hits, hit{number: i, prob: p})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].prob > hits[j].prob })

	pred := jersey.Prediction{
		Number:     make([]*int, len(hits)),
		LastName:   make([]*string, len(hits)),
		Color:      make([]*string, len(hits)),
		Confidence: make([]*float64, len(hits)),
	}
	for i, h := range hits {
		n := h.number
		c := float64(h.prob)
		pred.Number[i] = &n
		pred.Confidence[i] = &c
	}
	return pred
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}
