// Package jersey evaluates jersey-number recognition backends.
//
// Ground truth comes from image filenames: "1125-8.jpg" encodes player 8,
// "12-07.png" encodes players 12 and 7. Each backend prediction is scored
// per image with set semantics, and a run is summarized with player-count
// weighted accuracy and hallucination rate.
//
// # Quick Start
//
//	b, err := ollama.New("deepseek-ocr")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ev := jersey.New(b)
//	for _, path := range paths {
//	    img, err := jersey.ReadImage(path)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if _, err := ev.Evaluate(ctx, img); err != nil {
//	        log.Printf("skipping %s: %v", path, err)
//	    }
//	}
//	report, err := ev.Report()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("accuracy %.3f hallucination %.3f\n",
//	    report.OverallAccuracy, report.OverallHallucinationRate)
//
// # Backends
//
// Adapters under backend/ wrap Ollama, OpenAI-compatible servers, Gemini
// and a local ONNX classifier. Backends that return free text are parsed
// with ExtractJSONObject, which isolates the first balanced object.
//
// # Thread Safety
//
// Score, Aggregate and the extractors are pure. Evaluator and Table are
// owned by a single run and must not be shared between goroutines.
package jersey
