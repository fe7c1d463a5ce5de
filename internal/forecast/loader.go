package forecast

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/storage"
)

const artifactExt = ".json"

// DirLoader reads model artifacts from a local directory. A missing directory
// yields no models.
type DirLoader struct {
	Dir string
}

func (l DirLoader) Load(ctx context.Context) (map[string]Model, error) {
	models := map[string]Model{}

	entries, err := os.ReadDir(l.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("dir", l.Dir).Msg("model directory not found, using fallback forecasts")
		return models, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model dir: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != artifactExt {
			continue
		}

		file := filepath.Join(l.Dir, entry.Name())
		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to read model artifact")
			continue
		}

		addModel(models, data, strings.TrimSuffix(entry.Name(), artifactExt), file)
	}

	return models, nil
}

// ObjectLoader reads model artifacts from an object storage prefix.
type ObjectLoader struct {
	Storage storage.ObjectStorage
	Prefix  string
}

func (l ObjectLoader) Load(ctx context.Context) (map[string]Model, error) {
	objects, err := l.Storage.ListObjects(ctx, l.Prefix)
	if err != nil {
		return nil, fmt.Errorf("list model artifacts: %w", err)
	}

	models := map[string]Model{}
	for _, obj := range objects {
		if path.Ext(obj.Key) != artifactExt {
			continue
		}

		data, err := l.Storage.GetObject(ctx, obj.Key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("object", obj.Key).Msg("failed to download model artifact")
			continue
		}

		addModel(models, data, strings.TrimSuffix(path.Base(obj.Key), artifactExt), obj.Key)
	}

	return models, nil
}

func addModel(models map[string]Model, data []byte, defaultKey, source string) {
	key, model, err := ParseModel(data, defaultKey)
	if err != nil {
		log.Warn().Err(err).Str("source", source).Msg("skipping invalid model artifact")
		return
	}

	models[key] = model
	log.Debug().Str("key", key).Str("source", source).Msg("loaded model")
}
