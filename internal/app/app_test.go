package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/metrics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			StoreDriver:    DriverMemory,
			DatasetFile:    filepath.Join(t.TempDir(), "missing.json"),
			SimulationDate: "2025-10-10",
			ModelDir:       t.TempDir(),
		},
		Rules: config.RulesConfig{
			FestivalName:          "Diwali",
			FestivalDate:          "2025-10-25",
			FestivalLeadDays:      21,
			HeroItemName:          "Bridal Red",
			WeatherCategory:       "Waterproofing",
			WetSeasonMonths:       []int{6, 7, 8, 9},
			FestivalWindowStart:   "10-15",
			FestivalWindowDays:    17,
			FestivalUpliftPercent: 60,
		},
	}
}

func TestClock(t *testing.T) {
	cfg := testConfig(t)

	clk, err := Clock(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), clock.Today(clk))

	cfg.App.SimulationDate = "10/10/2025"
	_, err = Clock(cfg)
	assert.Error(t, err)

	cfg.App.SimulationDate = ""
	clk, err = Clock(cfg)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), clk.Now(), time.Minute)
}

func TestOpenStoreMemoryFallsBackToSample(t *testing.T) {
	cfg := testConfig(t)

	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 6)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.StoreDriver = "oracle"

	_, err := OpenStore(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestModelLoaderDefaultsToDir(t *testing.T) {
	cfg := testConfig(t)

	loader, err := ModelLoader(cfg)
	require.NoError(t, err)
	assert.Equal(t, forecast.DirLoader{Dir: cfg.App.ModelDir}, loader)

	objects, err := ObjectStorage(cfg, "")
	require.NoError(t, err)
	assert.Nil(t, objects)
}

func TestProviderAndRules(t *testing.T) {
	cfg := testConfig(t)
	clk, err := Clock(cfg)
	require.NoError(t, err)

	models, err := LoadModels(context.Background(), cfg, metrics.New())
	require.NoError(t, err)
	assert.Equal(t, 0, models.Len())

	provider, err := Provider(cfg, clk, models, metrics.New())
	require.NoError(t, err)
	assert.Same(t, models, provider.Models())

	rules, err := Rules(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, rules)

	cfg.Rules.FestivalWindowStart = "13-40"
	_, err = Provider(cfg, clk, models, metrics.New())
	assert.Error(t, err)
}
