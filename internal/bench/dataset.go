// Package bench runs recognition backends over an image dataset and
// compares their player-weighted scores.
package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jersey "github.com/jamesainslie/go-jersey"
)

// imageExts are the file extensions LoadDataset picks up.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// LoadDataset loads every image file directly under dir, sorted by name.
// Subdirectories and other files are ignored.
func LoadDataset(dir string) ([]jersey.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	images := make([]jersey.Image, 0, len(names))
	for _, name := range names {
		img, err := jersey.ReadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		images = append(images, img)
	}

	return images, nil
}
