package jersey

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// Image is one dataset entry. ID is the identifier ground truth is derived
// from, normally the file path.
type Image struct {
	ID       string
	Data     []byte
	MIMEType string
}

// ReadImage loads an image file and sniffs its content type.
func ReadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	return Image{
		ID:       path,
		Data:     data,
		MIMEType: http.DetectContentType(data),
	}, nil
}

// Evaluator runs one backend over a dataset and records the results in a
// single Table. It is not safe for concurrent use.
type Evaluator struct {
	backend Backend
	table   *Table
	cfg     config
	logger  *slog.Logger
}

// New creates an Evaluator with an empty table for backend.
func New(backend Backend, opts ...Option) *Evaluator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Evaluator{
		backend: backend,
		table:   NewTable(backend.Name()),
		cfg:     cfg,
		logger:  cfg.logger.With("backend", backend.Name()),
	}
}

// Evaluate sends img to the backend, scores the prediction against the
// ground truth derived from the image's base name and appends the sample.
// On error nothing is appended; rows from earlier calls are unaffected.
func (e *Evaluator) Evaluate(ctx context.Context, img Image) (Sample, error) {
	out, err := e.backend.Extract(ctx, Request{
		Image:        img.Data,
		ImagePath:    img.ID,
		MIMEType:     img.MIMEType,
		Prompt:       e.cfg.prompt,
		SystemPrompt: e.cfg.systemPrompt,
		Format:       e.cfg.format,
		MaxTokens:    e.cfg.maxTokens,
		Temperature:  e.cfg.temperature,
		KeepAlive:    e.cfg.keepAlive,
		Timeout:      e.cfg.timeout,
	})
	if err != nil {
		e.logger.Warn("backend call failed", "image", img.ID, "error", err)
		return Sample{}, err
	}

	prediction, err := e.normalize(out)
	if err != nil {
		e.logger.Warn("unusable backend output", "image", img.ID, "error", err)
		return Sample{}, fmt.Errorf("%s: %w", img.ID, err)
	}

	truth := e.cfg.deriver(filepath.Base(img.ID))
	sample := NewSample(img.ID, prediction, truth)
	e.table.Append(sample)

	e.logger.Debug("sample scored",
		"image", img.ID,
		"predicted", prediction.Numbers(),
		"truth", truth,
		"accuracy", sample.Accuracy,
		"hallucination_rate", sample.HallucinationRate,
	)
	return sample, nil
}

func (e *Evaluator) normalize(out Output) (Prediction, error) {
	if out.Record != nil {
		return *out.Record, nil
	}
	return ParsePrediction(out.Text, e.cfg.extract)
}

// Table returns the run's table.
func (e *Evaluator) Table() *Table { return e.table }

// Report aggregates the rows appended so far.
func (e *Evaluator) Report() (Report, error) {
	return Aggregate(e.table)
}
