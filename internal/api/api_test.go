package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintflow/inventory-engine/internal/api/middleware"
	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/recommendation"
	"github.com/paintflow/inventory-engine/internal/repository/memory"
	"github.com/paintflow/inventory-engine/internal/scenario"
	"github.com/paintflow/inventory-engine/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New(memory.SampleDataset())
	clk := clock.NewFixedClock(time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC))
	m := metrics.New()
	models := forecast.NewModelStore(nil)
	provider := forecast.NewProvider(clk, models, forecast.WithMetrics(m))
	engine := recommendation.NewEngine(store, store, store, provider, clk, nil)
	simulator, err := scenario.NewSimulator(scenario.DefaultProfiles())
	require.NoError(t, err)

	return NewRouter(&Services{
		Inventory:      service.NewInventoryService(store, nil, clk),
		Dealers:        service.NewDealerService(store, engine, nil, clk),
		Forecasts:      service.NewForecastService(store, store, provider),
		Transfers:      recommendation.NewTransfers(store, store, clk, recommendation.WithTransferMetrics(m)),
		Scenarios:      simulator,
		Models:         models,
		Metrics:        m,
		SimulationDate: "2025-10-10",
	}, nil)
}

func do(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), dest), resp.Body.String())
}

func TestHealthAndMeta(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))

	resp = do(router, http.MethodGet, "/api/meta")
	require.Equal(t, http.StatusOK, resp.Code)
	var meta struct {
		Date      string   `json:"app_simulation_date"`
		Scenarios []string `json:"scenarios"`
		Models    int      `json:"models_loaded"`
	}
	decode(t, resp, &meta)
	assert.Equal(t, "2025-10-10", meta.Date)
	assert.Equal(t, []string{"TRUCK_STRIKE", "HEATWAVE", "EARLY_MONSOON"}, meta.Scenarios)
	assert.Equal(t, 0, meta.Models)
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, "req-123", resp.Header().Get(middleware.RequestIDHeader))
}

func TestForecastEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodGet, "/api/forecast/1?region_id=1&horizon=14")
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Source   string            `json:"source"`
		Forecast []json.RawMessage `json:"forecast"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "fallback", body.Source)
	assert.Len(t, body.Forecast, 14)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/forecast/1?horizon=0").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/forecast/abc").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/forecast/999").Code)
}

func TestRegionalSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodGet, "/api/forecast/regional/summary")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body []struct {
		RegionID     int64           `json:"region_id"`
		RegionName   string          `json:"region_name"`
		TotalRevenue decimal.Decimal `json:"total_revenue"`
	}
	decode(t, resp, &body)
	require.Len(t, body, 3)
	assert.Equal(t, "West", body[0].RegionName)
	assert.True(t, decimal.NewFromInt(52050).Equal(body[0].TotalRevenue), body[0].TotalRevenue.String())
}

func TestAdminViews(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/admin/dashboard/summary",
		"/api/admin/inventory/health",
		"/api/admin/inventory/locations/1",
		"/api/admin/dead-stock",
		"/api/admin/transfers/recommended",
		"/api/admin/dealers/performance?region_id=2",
		"/api/admin/top-items?limit=3",
	} {
		t.Run(path, func(t *testing.T) {
			resp := do(router, http.MethodGet, path)
			assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		})
	}

	resp := do(router, http.MethodGet, "/api/admin/inventory/locations/77")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "failed to fetch location inventory", body["error"])
	assert.Contains(t, body["details"], "not found")
}

func TestApproveTransferEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodPost, "/api/admin/transfers/1/approve")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var result struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
		Moved   int    `json:"moved"`
		Message string `json:"message"`
	}
	decode(t, resp, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "IN_TRANSIT", result.Status)
	assert.Equal(t, 60, result.Moved)
	assert.Equal(t, "Transfer approved. 60 units of Bridal Red moving from Delhi DC to Mumbai DC. ETA: 2 days.", result.Message)

	assert.Equal(t, http.StatusConflict, do(router, http.MethodPost, "/api/admin/transfers/1/approve").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/api/admin/transfers/404/approve").Code)
}

func TestDealerEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/dealer/1/dashboard", "/api/dealer/1/smart-orders", "/api/dealer/1/alerts"} {
		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, path).Code, path)
	}
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/dealer/9/dashboard").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/dealer/9/smart-orders").Code)
}

func TestScenarioEndpoints(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodGet, "/api/simulate/scenarios")
	require.Equal(t, http.StatusOK, resp.Code)
	var list []scenario.Summary
	decode(t, resp, &list)
	assert.Len(t, list, 3)

	resp = do(router, http.MethodGet, "/api/simulate/scenario/truck_strike")
	require.Equal(t, http.StatusOK, resp.Code)
	var sc scenario.Scenario
	decode(t, resp, &sc)
	assert.Equal(t, 15, sc.Dashboard.StockoutCount)
	assert.Equal(t, 5, sc.Dashboard.PendingTransfers)
	assert.Equal(t, 12.5, sc.Dashboard.AvgDaysOfCover)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/simulate/scenario/ALIENS").Code)
}

func TestCopilotSnapshot(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodGet, "/api/copilot/snapshot")
	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]string
	decode(t, resp, &body)
	assert.True(t, strings.HasPrefix(body["inventory_snapshot"], "CRITICAL: Mumbai"))
}

func TestReloadModels(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodPost, "/api/admin/models/reload")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"models_loaded":0}`, resp.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/forecast/2").Code)

	resp := do(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `forecast_requests_total{source="fallback"} 1`)
	assert.Contains(t, resp.Body.String(), `route="/api/forecast/:item_id"`)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
