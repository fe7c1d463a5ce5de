// Package app wires configuration into the engine's components. It is shared
// by the HTTP server and the engine CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/recommendation"
	"github.com/paintflow/inventory-engine/internal/repository"
	"github.com/paintflow/inventory-engine/internal/repository/memory"
	"github.com/paintflow/inventory-engine/internal/repository/postgres"
	"github.com/paintflow/inventory-engine/internal/storage"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Clock pins "today" to the configured simulation date, or follows the
// system clock when none is set.
func Clock(cfg *config.Config) (clock.Clock, error) {
	if cfg.App.SimulationDate == "" {
		return clock.New(), nil
	}
	clk, err := clock.ParseFixed(cfg.App.SimulationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid simulation date %q: %w", cfg.App.SimulationDate, err)
	}
	return clk, nil
}

// OpenStore opens the configured persistence backend.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch strings.ToLower(cfg.App.StoreDriver) {
	case DriverPostgres, "":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return postgres.NewStore(db), nil
	case DriverMemory:
		return openMemoryStore(cfg.App.DatasetFile)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.App.StoreDriver)
	}
}

func openMemoryStore(path string) (repository.Store, error) {
	if path == "" {
		log.Info().Msg("no dataset file configured, using sample dataset")
		return memory.New(memory.SampleDataset()), nil
	}

	store, err := memory.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", path).Msg("dataset file not found, using sample dataset")
		return memory.New(memory.SampleDataset()), nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("file", path).Msg("dataset loaded")
	return store, nil
}

// ObjectStorage returns the bucket client, or nil when no bucket is configured.
func ObjectStorage(cfg *config.Config, bucket string) (storage.ObjectStorage, error) {
	if bucket == "" {
		return nil, nil
	}
	client, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.ObjectStorage.Endpoint,
		AccessKey: cfg.ObjectStorage.AccessKey,
		SecretKey: cfg.ObjectStorage.SecretKey,
		Bucket:    bucket,
		Region:    cfg.ObjectStorage.Region,
		UseSSL:    cfg.ObjectStorage.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ModelLoader reads artifacts from the model bucket when one is configured and
// from the model directory otherwise.
func ModelLoader(cfg *config.Config) (forecast.Loader, error) {
	objects, err := ObjectStorage(cfg, cfg.App.ModelBucket)
	if err != nil {
		return nil, err
	}
	if objects != nil {
		return forecast.ObjectLoader{Storage: objects, Prefix: cfg.App.ModelPrefix}, nil
	}
	return forecast.DirLoader{Dir: cfg.App.ModelDir}, nil
}

// LoadModels builds the model store and performs the initial load. The store
// is returned even when that load fails, so a later reload can retry.
func LoadModels(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*forecast.ModelStore, error) {
	loader, err := ModelLoader(cfg)
	if err != nil {
		return forecast.NewModelStore(nil), err
	}

	models := forecast.NewModelStore(loader)
	n, err := models.Reload(ctx)
	if err != nil {
		return models, fmt.Errorf("failed to load forecast models: %w", err)
	}
	m.SetModelsLoaded(n)
	log.Info().Int("models", n).Msg("forecast models loaded")

	return models, nil
}

// Provider builds the forecast provider with the configured festival window.
func Provider(cfg *config.Config, clk clock.Clock, models *forecast.ModelStore, m *metrics.Metrics) (*forecast.Provider, error) {
	window, err := forecast.ParseFestivalWindow(
		cfg.Rules.FestivalWindowStart,
		cfg.Rules.FestivalWindowDays,
		cfg.Rules.FestivalUpliftPercent,
	)
	if err != nil {
		return nil, err
	}
	return forecast.NewProvider(clk, models, forecast.WithFestivalWindow(window), forecast.WithMetrics(m)), nil
}

// Rules builds the reorder reason table from the rules config group.
func Rules(cfg *config.Config) ([]recommendation.Rule, error) {
	settings, err := recommendation.SettingsFromConfig(cfg.Rules)
	if err != nil {
		return nil, err
	}
	return recommendation.Rules(settings), nil
}
