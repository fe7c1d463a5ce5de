package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DiscoverFiles lists the sales files directly inside dir in name order.
func DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsSalesFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// ImportDir imports every sales file in dir.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Summary, error) {
	files, err := DiscoverFiles(dir)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		return Summary{}, nil
	}
	return im.Import(ctx, files)
}
