package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	jersey "github.com/jamesainslie/go-jersey"
	"github.com/jamesainslie/go-jersey/backend/onnx"
	"github.com/jamesainslie/go-jersey/internal/bench"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		dataDir     = flag.String("dir", "testdata/jerseys", "Directory containing labeled images")
		backends    = flag.String("backends", defaultBackends(), "Comma-separated backends: ollama:MODEL, openai:MODEL, gemini:MODEL, onnx:PATH")
		ollamaHost  = flag.String("ollama-host", "", "Ollama server address (default: $OLLAMA_HOST)")
		prompt      = flag.String("prompt", jersey.DefaultPrompt, "User prompt sent with each image")
		quoteAware  = flag.Bool("quote-aware", false, "Ignore braces inside JSON strings when extracting")
		timeout     = flag.Duration("timeout", jersey.DefaultTimeout, "Per-image backend timeout")
		skipErrors  = flag.Bool("skip-errors", false, "Continue past images whose backend call fails")
		preview     = flag.Int("preview", 5, "Rows of each table to print (0 disables)")
		threshold   = flag.Float64("threshold", 0.5, "ONNX probability threshold")
		poolSize    = flag.Int("pool", 0, "ONNX session pool size (default: NumCPU)")
		sweep       = flag.Bool("sweep", false, "Run an ONNX threshold sweep (requires one onnx:PATH backend)")
		sweepMin    = flag.Float64("sweep-min", 0.1, "Sweep minimum threshold")
		sweepMax    = flag.Float64("sweep-max", 0.95, "Sweep maximum threshold")
		sweepStep   = flag.Float64("sweep-step", 0.05, "Sweep step size")
		verbose     = flag.Bool("v", false, "Debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("jersey-bench %s (%s, %s)\n", version, commit, date)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	images, err := bench.LoadDataset(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d images from %s\n\n", len(images), *dataDir)

	opts := []jersey.Option{
		jersey.WithPrompt(*prompt),
		jersey.WithTimeout(*timeout),
		jersey.WithLogger(logger),
	}
	if *quoteAware {
		opts = append(opts, jersey.WithQuoteAwareExtraction())
	}
	cfg := bench.Config{ContinueOnError: *skipErrors, Options: opts}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *sweep {
		modelPath, ok := strings.CutPrefix(*backends, "onnx:")
		if !ok || strings.Contains(modelPath, ",") {
			fmt.Fprintln(os.Stderr, "error: -sweep requires -backends onnx:PATH")
			os.Exit(1)
		}
		runSweep(ctx, modelPath, images, cfg, *poolSize, logger,
			float32(*sweepMin), float32(*sweepMax), float32(*sweepStep))
		return
	}

	open := bench.OpenConfig{
		OllamaHost: *ollamaHost,
		Threshold:  float32(*threshold),
		PoolSize:   *poolSize,
		Logger:     logger,
	}
	list, err := bench.OpenAll(ctx, *backends, open)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening backends: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = bench.CloseAll(list) }()

	results, runErr := bench.Compare(ctx, list, images, cfg)

	if *preview > 0 {
		for _, r := range results {
			fmt.Printf("%s (run %s)\n", r.Backend, r.Table.RunID)
			if err := r.Table.Preview(os.Stdout, *preview); err != nil {
				fmt.Fprintf(os.Stderr, "error printing table: %v\n", err)
			}
			fmt.Println()
		}
	}

	printResults(results)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		_ = bench.CloseAll(list)
		os.Exit(1)
	}
}

func defaultBackends() string {
	if m := os.Getenv("JERSEY_MODEL"); m != "" {
		return m
	}
	return "ollama:deepseek-ocr"
}

func printResults(results []bench.Result) {
	fmt.Println("Backend Comparison")
	fmt.Println(strings.Repeat("-", 78))
	fmt.Printf("%-32s %-8s %-8s %-8s %-8s %-8s\n", "Backend", "Acc", "Halluc", "Images", "Players", "Failed")

	for _, r := range results {
		if errors.Is(r.Err, jersey.ErrZeroWeight) {
			fmt.Printf("%-32s %-8s %-8s %-8d %-8d %-8d\n", r.Backend, "n/a", "n/a", r.Table.Len(), 0, r.Failures)
			continue
		}
		fmt.Printf("%-32s %-8.3f %-8.3f %-8d %-8d %-8d\n",
			r.Backend, r.Report.OverallAccuracy, r.Report.OverallHallucinationRate,
			r.Report.Samples, r.Report.Players, r.Failures)
	}
	fmt.Println(strings.Repeat("-", 78))
}

func runSweep(ctx context.Context, modelPath string, images []jersey.Image, cfg bench.Config, poolSize int, logger *slog.Logger, min, max, step float32) {
	thresholds := bench.SweepThresholds(min, max, step)

	fmt.Println("Threshold Sweep Results")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("%-8s %-8s %-8s %-8s\n", "Thresh", "Acc", "Halluc", "Time")

	start := time.Now()
	results, err := bench.Sweep(ctx, modelPath, images, cfg, thresholds,
		onnx.WithPoolSize(poolSize), onnx.WithLogger(logger))

	// Print sorted by threshold for readability
	for _, t := range thresholds {
		for _, r := range results {
			if r.Threshold == t {
				fmt.Printf("%-8.3f %-8.3f %-8.3f %-8s\n",
					r.Threshold, r.Result.Report.OverallAccuracy,
					r.Result.Report.OverallHallucinationRate, r.Result.Elapsed.Round(time.Millisecond))
				break
			}
		}
	}

	fmt.Println(strings.Repeat("-", 40))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: %.3f (Acc: %.3f) in %s\n",
			best.Threshold, best.Result.Report.OverallAccuracy, time.Since(start).Round(time.Second))
	}
}
