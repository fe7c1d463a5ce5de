// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/paintflow/inventory-engine/internal/api/handlers"
	"github.com/paintflow/inventory-engine/internal/api/middleware"
	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/recommendation"
	"github.com/paintflow/inventory-engine/internal/scenario"
	"github.com/paintflow/inventory-engine/internal/service"
)

type Services struct {
	Inventory      *service.InventoryService
	Dealers        *service.DealerService
	Forecasts      *service.ForecastService
	Transfers      *recommendation.Transfers
	Scenarios      *scenario.Simulator
	Models         *forecast.ModelStore
	Metrics        *metrics.Metrics
	SimulationDate string
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	if services == nil {
		return router
	}

	if services.Metrics != nil {
		router.Use(middleware.Metrics(services.Metrics))
		router.GET("/metrics", gin.WrapH(services.Metrics.Handler()))
	}

	apiGroup := router.Group("/api")

	metaHandler := handlers.NewMetaHandler(services.SimulationDate, services.Scenarios, services.Models, services.Inventory)
	apiGroup.GET("/health", metaHandler.Health)
	apiGroup.GET("/meta", metaHandler.Meta)
	apiGroup.GET("/copilot/snapshot", metaHandler.Snapshot)

	forecastHandler := handlers.NewForecastHandler(services.Forecasts)
	apiGroup.GET("/forecast/regional/summary", forecastHandler.RegionalSummary)
	apiGroup.GET("/forecast/:item_id", forecastHandler.ItemForecast)

	adminHandler := handlers.NewAdminHandler(services.Inventory, services.Dealers, services.Transfers, services.Models, services.Metrics)
	adminGroup := apiGroup.Group("/admin")
	{
		adminGroup.GET("/dashboard/summary", adminHandler.DashboardSummary)
		adminGroup.GET("/inventory/health", adminHandler.InventoryHealth)
		adminGroup.GET("/inventory/locations/:id", adminHandler.LocationInventory)
		adminGroup.GET("/dead-stock", adminHandler.DeadStock)
		adminGroup.GET("/transfers/recommended", adminHandler.RecommendedTransfers)
		adminGroup.POST("/transfers/:id/approve", adminHandler.ApproveTransfer)
		adminGroup.GET("/dealers/performance", adminHandler.DealerPerformance)
		adminGroup.GET("/top-items", adminHandler.TopItems)
		adminGroup.POST("/models/reload", adminHandler.ReloadModels)
	}

	dealerHandler := handlers.NewDealerHandler(services.Dealers)
	dealerGroup := apiGroup.Group("/dealer/:id")
	{
		dealerGroup.GET("/dashboard", dealerHandler.Dashboard)
		dealerGroup.GET("/smart-orders", dealerHandler.SmartOrders)
		dealerGroup.GET("/alerts", dealerHandler.Alerts)
	}

	simulateHandler := handlers.NewSimulateHandler(services.Scenarios)
	simulateGroup := apiGroup.Group("/simulate")
	{
		simulateGroup.GET("/scenarios", simulateHandler.Scenarios)
		simulateGroup.GET("/scenario/:id", simulateHandler.Scenario)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
