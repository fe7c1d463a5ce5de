package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paintflow/inventory-engine/internal/api"
	"github.com/paintflow/inventory-engine/internal/app"
	"github.com/paintflow/inventory-engine/internal/cache"
	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/recommendation"
	"github.com/paintflow/inventory-engine/internal/scenario"
	"github.com/paintflow/inventory-engine/internal/service"
	"github.com/paintflow/inventory-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer store.Close()

	clk, err := app.Clock(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid clock configuration")
	}

	m := metrics.New()

	models, err := app.LoadModels(ctx, cfg, m)
	if err != nil {
		// Forecasts fall back to the synthetic curve.
		logger.Log.Error().Err(err).Msg("Starting without forecast models")
	}
	provider, err := app.Provider(cfg, clk, models, m)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid festival window")
	}

	rules, err := app.Rules(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid reorder rules")
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}
	locker, err := cache.NewLocker(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Approval lock unavailable, relying on row locks")
		locker = cache.NewNoopLocker()
	}

	profiles, err := scenario.Load(cfg.App.ScenarioDir)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load scenarios")
	}
	simulator, err := scenario.NewSimulator(profiles)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid scenarios")
	}

	// Initialize services
	engine := recommendation.NewEngine(store, store, store, provider, clk, rules)
	transfers := recommendation.NewTransfers(store, store, clk,
		recommendation.WithLocker(locker),
		recommendation.WithInvalidator(dashboardCache),
		recommendation.WithTransferMetrics(m),
	)

	router := api.NewRouter(&api.Services{
		Inventory:      service.NewInventoryService(store, dashboardCache, clk),
		Dealers:        service.NewDealerService(store, engine, dashboardCache, clk),
		Forecasts:      service.NewForecastService(store, store, provider),
		Transfers:      transfers,
		Scenarios:      simulator,
		Models:         provider.Models(),
		Metrics:        m,
		SimulationDate: cfg.App.SimulationDate,
	}, cfg.Server.AllowedOrigins)

	// Initialize HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("store", cfg.App.StoreDriver).
			Str("simulation_date", cfg.App.SimulationDate).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
