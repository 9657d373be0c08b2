package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	jersey "github.com/jamesainslie/go-jersey"
	"github.com/jamesainslie/go-jersey/internal/bench"
)

func main() {
	backend := flag.String("backend", "ollama:deepseek-ocr", "Backend: ollama:MODEL, openai:MODEL, gemini:MODEL or onnx:PATH")
	prompt := flag.String("prompt", "", "User prompt sent with the image (default depends on -single)")
	single := flag.Bool("single", false, "Ask for one player with the scalar schema")
	threshold := flag.Float64("threshold", 0.5, "ONNX probability threshold")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: jersey-cli [OPTIONS] IMAGE")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	img, err := jersey.ReadImage(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	b, err := bench.Open(ctx, *backend, bench.OpenConfig{Threshold: float32(*threshold), PoolSize: 1, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating backend: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = bench.CloseAll([]jersey.Backend{b}) }() // Cleanup error ignored in CLI

	opts := []jersey.Option{jersey.WithLogger(logger)}
	if *single {
		opts = append(opts, jersey.WithSingleSubject())
	}
	if *prompt != "" {
		opts = append(opts, jersey.WithPrompt(*prompt))
	}

	ev := jersey.New(b, opts...)
	sample, err := ev.Evaluate(ctx, img)
	if err != nil {
		var be *jersey.BackendError
		if errors.As(err, &be) && be.Body != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\nResponse body: %s\n", err, be.Body)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Image: %s\n", filepath.Base(img.ID))
	fmt.Printf("Backend: %s\n", b.Name())
	if sample.Prediction.RawText != "" {
		fmt.Printf("Raw: %s\n", sample.Prediction.RawText)
	}
	fmt.Printf("Predicted: %v\n", sample.Prediction.Numbers())
	fmt.Printf("Truth: %v\n", sample.GroundTruth)
	fmt.Printf("Accuracy: %.4f\n", sample.Accuracy)
	fmt.Printf("Hallucination rate: %.4f\n", sample.HallucinationRate)
}
