package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/paintflow/inventory-engine/internal/app"
	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/pipeline"
	"github.com/paintflow/inventory-engine/internal/repository/memory"
	"github.com/paintflow/inventory-engine/internal/repository/postgres"
	"github.com/paintflow/inventory-engine/internal/scenario"
	"github.com/paintflow/inventory-engine/internal/service"
	"github.com/paintflow/inventory-engine/pkg/logger"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string, defaults to the DB_* settings",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func newStoreFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "store",
		Usage:   "Persistence backend: postgres or memory",
		EnvVars: []string{"APP_STORE_DRIVER"},
	}
}

func loadConfig(c *cli.Context) *config.Config {
	cfg := config.Load()
	if c.IsSet("store") {
		cfg.App.StoreDriver = c.String("store")
	}
	return cfg
}

func initDB(c *cli.Context) error {
	var (
		db  *postgres.DB
		err error
	)
	if url := c.String("db-url"); url != "" {
		var conn *sql.DB
		conn, err = sql.Open("pgx", url)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		db = postgres.Wrap(sqlx.NewDb(conn, "pgx"))
	} else {
		db, err = postgres.NewDB(&config.Load().Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	return c.Context.Value(dbKey{}).(*postgres.DB)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Server.LogLevel, "debug")

	cliApp := &cli.App{
		Name:  "engine",
		Usage: "Operate the PaintFlow inventory engine from the command line",
		Commands: []*cli.Command{
			{
				Name:  "forecast",
				Usage: "Print the demand forecast of one item in one region",
				Flags: []cli.Flag{
					newStoreFlag(),
					&cli.Int64Flag{Name: "item", Usage: "Item id", Required: true},
					&cli.Int64Flag{Name: "region", Usage: "Region id", Value: 1},
					&cli.IntFlag{Name: "horizon", Usage: "Days to forecast", Value: service.DefaultHorizonDays},
				},
				Action: runForecast,
			},
			{
				Name:  "health",
				Usage: "Print the inventory snapshot of every warehouse",
				Flags: []cli.Flag{newStoreFlag()},
				Action: func(c *cli.Context) error {
					cfg := loadConfig(c)
					store, err := app.OpenStore(c.Context, cfg)
					if err != nil {
						return err
					}
					defer store.Close()

					clk, err := app.Clock(cfg)
					if err != nil {
						return err
					}
					fmt.Println(service.NewInventoryService(store, nil, clk).Snapshot(c.Context))
					return nil
				},
			},
			{
				Name:  "models",
				Usage: "Inspect forecast model artifacts",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "Load the configured artifacts and list their keys",
						Action: func(c *cli.Context) error {
							models, err := app.LoadModels(c.Context, config.Load(), metrics.New())
							if err != nil {
								return err
							}
							keys := models.Keys()
							sort.Strings(keys)
							for _, k := range keys {
								fmt.Println(k)
							}
							return nil
						},
					},
				},
			},
			{
				Name:  "scenarios",
				Usage: "Manage what-if scenario files",
				Subcommands: []*cli.Command{
					{
						Name:  "generate",
						Usage: "Write the built-in scenarios with their dashboards",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "out",
								Usage:   "Output directory",
								Value:   "./data/scenarios",
								EnvVars: []string{"APP_SCENARIO_DIR"},
							},
							&cli.StringFlag{
								Name:    "bucket",
								Usage:   "Also upload the files to this bucket",
								EnvVars: []string{"SCENARIO_BUCKET"},
							},
							&cli.StringFlag{
								Name:  "prefix",
								Usage: "Object key prefix inside the bucket",
								Value: "scenarios/",
							},
						},
						Action: runGenerateScenarios,
					},
				},
			},
			{
				Name:  "db",
				Usage: "Prepare the Postgres database",
				Flags: []cli.Flag{newDBURLFlag()},
				Subcommands: []*cli.Command{
					{
						Name:   "migrate",
						Usage:  "Create missing tables and indexes",
						Flags:  []cli.Flag{newDBURLFlag()},
						Before: initDB,
						After:  closeDB,
						Action: func(c *cli.Context) error {
							if err := dbFrom(c).EnsureSchema(c.Context); err != nil {
								return err
							}
							logger.Log.Info().Msg("schema applied")
							return nil
						},
					},
					{
						Name:  "seed",
						Usage: "Replace every table with a dataset",
						Flags: []cli.Flag{
							newDBURLFlag(),
							&cli.StringFlag{
								Name:    "dataset",
								Usage:   "Dataset JSON file, the sample dataset when empty",
								EnvVars: []string{"APP_DATASET_FILE"},
							},
						},
						Before: initDB,
						After:  closeDB,
						Action: runSeed,
					},
					{
						Name:  "import-sales",
						Usage: "Upsert daily sales history from CSV or XLSX files",
						Flags: []cli.Flag{
							newDBURLFlag(),
							&cli.StringFlag{
								Name:     "dir",
								Usage:    "Directory of sales files",
								Required: true,
							},
							&cli.StringFlag{
								Name:    "bucket",
								Usage:   "Download the sales files from this bucket into --dir first",
								EnvVars: []string{"SALES_BUCKET"},
							},
							&cli.StringFlag{
								Name:  "prefix",
								Usage: "Object key prefix inside the bucket",
								Value: "sales/",
							},
							&cli.IntFlag{
								Name:  "workers",
								Usage: "Number of concurrent file workers",
								Value: pipeline.DefaultConfig().WorkerCount,
							},
						},
						Before: initDB,
						After:  closeDB,
						Action: runImportSales,
					},
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func runForecast(c *cli.Context) error {
	cfg := loadConfig(c)
	store, err := app.OpenStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	clk, err := app.Clock(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	models, err := app.LoadModels(c.Context, cfg, m)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("forecasting without models")
	}
	provider, err := app.Provider(cfg, clk, models, m)
	if err != nil {
		return err
	}

	result, err := service.NewForecastService(store, store, provider).
		ItemForecast(c.Context, c.Int64("item"), c.Int64("region"), c.Int("horizon"))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runGenerateScenarios(c *cli.Context) error {
	profiles, err := scenario.Load("")
	if err != nil {
		return err
	}
	simulator, err := scenario.NewSimulator(profiles)
	if err != nil {
		return err
	}

	scenarios := simulator.All()
	files, err := scenario.WriteDir(c.String("out"), scenarios)
	if err != nil {
		return err
	}
	logger.Log.Info().Int("files", len(files)).Str("dir", c.String("out")).Msg("scenarios written")

	objects, err := app.ObjectStorage(config.Load(), c.String("bucket"))
	if err != nil || objects == nil {
		return err
	}
	for _, s := range scenarios {
		data, err := scenario.Marshal(s)
		if err != nil {
			return err
		}
		key := path.Join(c.String("prefix"), scenario.FileName(s))
		if err := objects.UploadObject(c.Context, key, data); err != nil {
			return fmt.Errorf("upload scenario %s: %w", s.ID, err)
		}
		logger.Log.Info().Str("key", key).Msg("scenario uploaded")
	}
	return nil
}

func runSeed(c *cli.Context) error {
	ds := memory.SampleDataset()
	if file := c.String("dataset"); file != "" {
		var err error
		if ds, err = memory.ReadDataset(file); err != nil {
			return err
		}
	}

	db := dbFrom(c)
	if err := db.EnsureSchema(c.Context); err != nil {
		return err
	}
	return db.Seed(c.Context, ds)
}

func runImportSales(c *cli.Context) error {
	cfg := pipeline.DefaultConfig()
	cfg.WorkerCount = c.Int("workers")

	objects, err := app.ObjectStorage(config.Load(), c.String("bucket"))
	if err != nil {
		return err
	}
	if objects != nil {
		if _, err := pipeline.FetchSalesFiles(c.Context, objects, c.String("prefix"), c.String("dir")); err != nil {
			return err
		}
	}

	store := postgres.NewStore(dbFrom(c))
	summary, err := pipeline.NewImporter(store, cfg).ImportDir(c.Context, c.String("dir"))
	for _, f := range summary.Files {
		if f.Status == pipeline.FileStatusFailed {
			logger.Log.Warn().Str("file", f.FilePath).Str("error", f.ErrorMessage).Msg("file skipped")
		}
	}
	return err
}
