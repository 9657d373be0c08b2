//go:build ignore

// Build a ground-truth manifest for a labeled jersey image set.
// Reads every image under testdata/jerseys (and its split subdirectories),
// derives the player numbers from each filename and writes manifest.json
// per directory. Images whose names carry no numbers are listed so they can
// be renamed before a benchmark run.
// Usage: go run ./scripts/dataset-manifest.go [DIR]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	jersey "github.com/jamesainslie/go-jersey"
	"github.com/jamesainslie/go-jersey/internal/bench"
)

// Manifest lists the labeled images of one directory.
type Manifest struct {
	Name      string   `json:"name"`
	Images    []Entry  `json:"images"`
	Players   int      `json:"players"`
	Unlabeled []string `json:"unlabeled,omitempty"`
}

// Entry is one image and the numbers its filename encodes.
type Entry struct {
	File    string `json:"file"`
	Numbers []int  `json:"numbers"`
}

func main() {
	root := "testdata/jerseys"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	dirs := []string{root}
	for _, split := range []string{"train", "val", "test"} {
		dir := filepath.Join(root, split)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}

	for _, dir := range dirs {
		fmt.Printf("Processing %s...\n", dir)
		m, err := buildManifest(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", dir, err)
			continue
		}
		if len(m.Images) == 0 && len(m.Unlabeled) == 0 {
			continue
		}

		outFile := filepath.Join(dir, "manifest.json")
		if err := writeManifest(outFile, m); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
			continue
		}

		fmt.Printf("  -> %s (%d images, %d players)\n", outFile, len(m.Images), m.Players)
		for _, name := range m.Unlabeled {
			fmt.Printf("  unlabeled: %s\n", name)
		}
	}
}

func buildManifest(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	m := &Manifest{Name: filepath.Base(dir)}
	for _, entry := range entries {
		if entry.IsDir() || !bench.IsImage(entry.Name()) {
			continue
		}

		numbers := jersey.DeriveGroundTruth(entry.Name())
		if len(numbers) == 0 {
			m.Unlabeled = append(m.Unlabeled, entry.Name())
			continue
		}
		m.Images = append(m.Images, Entry{File: entry.Name(), Numbers: numbers})
		m.Players += len(numbers)
	}

	sort.Slice(m.Images, func(i, j int) bool { return m.Images[i].File < m.Images[j].File })
	sort.Strings(m.Unlabeled)
	return m, nil
}

func writeManifest(path string, m *Manifest) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(m)
}
