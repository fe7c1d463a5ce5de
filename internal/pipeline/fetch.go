package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/storage"
)

// FetchSalesFiles downloads every .csv and .xlsx object under prefix into dir
// and returns the local paths. Nested keys are flattened to their base name.
func FetchSalesFiles(ctx context.Context, objects storage.ObjectStorage, prefix, dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	infos, err := objects.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !IsSalesFile(info.Key) {
			continue
		}

		data, err := objects.GetObject(ctx, info.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", info.Key, err)
		}
		localPath := filepath.Join(dir, path.Base(info.Key))
		if err := os.WriteFile(localPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", localPath, err)
		}
		localPaths = append(localPaths, localPath)
	}

	log.Info().Str("prefix", prefix).Int("files", len(localPaths)).Msg("sales files downloaded")
	return localPaths, nil
}
