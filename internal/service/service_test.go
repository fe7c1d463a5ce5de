package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintflow/inventory-engine/internal/cache"
	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/recommendation"
	"github.com/paintflow/inventory-engine/internal/repository/memory"
)

var simulationDay = time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)

// memoryCache keeps the last value of each view and counts hits.
type memoryCache struct {
	summary *domain.DashboardSummary
	health  []domain.LocationHealth
	ranking map[int64][]domain.DealerPerformance
	hits    int
	getErr  error
}

var _ cache.DashboardCache = (*memoryCache)(nil)

func newMemoryCache() *memoryCache {
	return &memoryCache{ranking: map[int64][]domain.DealerPerformance{}}
}

func (m *memoryCache) GetSummary(context.Context) (*domain.DashboardSummary, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	if m.summary == nil {
		return nil, false, nil
	}
	m.hits++
	return m.summary, true, nil
}

func (m *memoryCache) SetSummary(_ context.Context, s *domain.DashboardSummary) error {
	m.summary = s
	return nil
}

func (m *memoryCache) GetHealth(context.Context) ([]domain.LocationHealth, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	if m.health == nil {
		return nil, false, nil
	}
	m.hits++
	return m.health, true, nil
}

func (m *memoryCache) SetHealth(_ context.Context, h []domain.LocationHealth) error {
	m.health = h
	return nil
}

func (m *memoryCache) GetDealerRanking(_ context.Context, regionID int64) ([]domain.DealerPerformance, bool, error) {
	r, ok := m.ranking[regionID]
	if ok {
		m.hits++
	}
	return r, ok, nil
}

func (m *memoryCache) SetDealerRanking(_ context.Context, regionID int64, r []domain.DealerPerformance) error {
	m.ranking[regionID] = r
	return nil
}

func (m *memoryCache) InvalidateAll(context.Context) error {
	m.summary = nil
	m.health = nil
	m.ranking = map[int64][]domain.DealerPerformance{}
	return nil
}

func newInventory(t *testing.T, c cache.DashboardCache) *InventoryService {
	t.Helper()
	return NewInventoryService(memory.New(memory.SampleDataset()), c, clock.NewFixedClock(simulationDay))
}

func TestHealthSummary(t *testing.T) {
	svc := newInventory(t, nil)

	locations, err := svc.HealthSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 3)

	mumbai := locations[0]
	assert.Equal(t, "WH-MUM", mumbai.Code)
	assert.Equal(t, domain.StockCritical, mumbai.Status)
	assert.Equal(t, 2, mumbai.CriticalItems)
	assert.Equal(t, 1, mumbai.LowItems)
	assert.Equal(t, 642, mumbai.TotalStock)
	assert.Equal(t, 311133.0, mumbai.RevenueAtRisk)

	assert.Equal(t, domain.StockCritical, locations[1].Status)
	assert.Equal(t, domain.StockOverstocked, locations[2].Status)
	assert.Equal(t, 3, locations[2].OverstockItems)
}

func TestHealthSummaryUsesCache(t *testing.T) {
	c := newMemoryCache()
	svc := newInventory(t, c)

	first, err := svc.HealthSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.hits)

	second, err := svc.HealthSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, first, second)
}

func TestHealthSummaryIgnoresCacheErrors(t *testing.T) {
	c := newMemoryCache()
	c.getErr = errors.New("redis down")
	svc := newInventory(t, c)

	locations, err := svc.HealthSummary(context.Background())
	require.NoError(t, err)
	assert.Len(t, locations, 3)
}

func TestLocationDetail(t *testing.T) {
	svc := newInventory(t, nil)

	detail, err := svc.LocationDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai DC", detail.Location.Name)
	require.Len(t, detail.Inventory, 6)
	assert.Equal(t, "Bridal Red", detail.Inventory[0].ItemName)
	assert.Equal(t, domain.StockCritical, detail.Inventory[0].Status)
	assert.Equal(t, domain.StockOverstocked, detail.Inventory[5].Status)

	_, err = svc.LocationDetail(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeadStock(t *testing.T) {
	svc := newInventory(t, nil)

	items, err := svc.DeadStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 6)

	assert.Equal(t, 130.0, items[0].DaysOfCover)
	assert.Equal(t, "Delhi DC", items[0].LocationName)
	assert.Equal(t, domain.DeadStockTransfer, items[0].Recommendation)
	assert.True(t, decimal.NewFromInt(120000).Equal(items[0].CapitalLocked))
	assert.Equal(t, domain.DeadStockPromotion, items[len(items)-1].Recommendation)
}

func TestDashboardSummary(t *testing.T) {
	c := newMemoryCache()
	svc := newInventory(t, c)

	summary, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalItems)
	assert.Equal(t, 3, summary.TotalLocations)
	assert.Equal(t, 3, summary.TotalDealers)
	assert.True(t, decimal.NewFromInt(80950).Equal(summary.TotalRevenueMTD), summary.TotalRevenueMTD.String())
	assert.Equal(t, 3, summary.StockoutCount)
	assert.Equal(t, 1, summary.PendingTransfers)
	assert.Equal(t, 497373.0, summary.RevenueAtRisk)
	assert.Equal(t, 6, summary.DeadStockCount)

	again, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Same(t, summary, again)
	assert.Equal(t, 1, c.hits)
}

func TestTopItems(t *testing.T) {
	svc := newInventory(t, nil)

	top, err := svc.TopItems(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(1), top[0].ItemID)
	assert.Equal(t, 65, top[0].TotalQuantity)
	assert.Equal(t, int64(3), top[1].ItemID)

	all, err := svc.TopItems(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSnapshot(t *testing.T) {
	svc := newInventory(t, nil)

	text := svc.Snapshot(context.Background())
	assert.Contains(t, text, "CRITICAL: Mumbai (WH-MUM) - 2 SKUs at risk, Revenue at risk: ₹311,133")
	assert.Contains(t, text, "CRITICAL: Delhi (WH-DEL) - 1 SKUs at risk")
	assert.Contains(t, text, "OVERSTOCKED: Chennai (WH-CHN) - 3 SKUs excess")
}

func TestRenderSnapshotAllHealthy(t *testing.T) {
	text := RenderSnapshot([]domain.LocationHealth{{City: "Pune", Code: "WH-PNQ", Status: domain.StockHealthy}})
	assert.Equal(t, "All warehouses healthy.", text)
	assert.Equal(t, "All warehouses healthy.", RenderSnapshot(nil))
}

func newDealers(t *testing.T, c cache.DashboardCache) *DealerService {
	t.Helper()
	store := memory.New(memory.SampleDataset())
	clk := clock.NewFixedClock(simulationDay)
	provider := forecast.NewProvider(clk, nil)
	engine := recommendation.NewEngine(store, store, store, provider, clk, nil)
	return NewDealerService(store, engine, c, clk)
}

func TestDealerDashboard(t *testing.T) {
	svc := newDealers(t, nil)

	dash, err := svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sharma Paints", dash.Dealer.Name)
	assert.Equal(t, 4, dash.TotalOrders)
	assert.Equal(t, 1, dash.AIRecommendationsPending)
	assert.True(t, decimal.NewFromInt(9000).Equal(dash.DeliveredRevenue))
	assert.True(t, decimal.NewFromInt(2240).Equal(dash.TotalAISavings))
	assert.InDelta(t, 68.7, dash.HealthScore, 0.001)
	assert.Equal(t, 78.5, dash.PerformanceScore)

	_, err = svc.Dashboard(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDealerSmartOrders(t *testing.T) {
	svc := newDealers(t, nil)

	orders, err := svc.SmartOrders(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, orders)
	assert.Equal(t, domain.UrgencyCritical, orders[0].Urgency)
}

func TestDealerAlerts(t *testing.T) {
	svc := newDealers(t, nil)

	alerts, err := svc.Alerts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, alerts.StockoutAlerts, 2)
	assert.Equal(t, "Bridal Red", alerts.StockoutAlerts[0].ItemName)
	assert.Equal(t, 1.5, alerts.StockoutAlerts[0].DaysRemaining)
	assert.Equal(t, "Ocean Teal", alerts.StockoutAlerts[1].ItemName)
	assert.Equal(t, []string{"Ocean Teal"}, alerts.Trending)

	_, err = svc.Alerts(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDealerPerformance(t *testing.T) {
	c := newMemoryCache()
	svc := newDealers(t, c)

	ranking, err := svc.Performance(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	assert.Equal(t, int64(1), ranking[0].ID)
	assert.Equal(t, 50.0, ranking[0].AIAdoptionRate)
	assert.True(t, decimal.NewFromInt(25000).Equal(ranking[0].DeliveredRevenue))
	assert.Equal(t, "up", ranking[0].Trend)

	assert.Equal(t, int64(3), ranking[1].ID)
	assert.Equal(t, 0.0, ranking[1].AIAdoptionRate)
	assert.Equal(t, "up", ranking[1].Trend)

	assert.Equal(t, int64(2), ranking[2].ID)
	assert.Equal(t, "down", ranking[2].Trend)

	west, err := svc.Performance(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, west, 1)
	assert.Equal(t, "Sharma Paints", west[0].Name)

	_, err = svc.Performance(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
}

func newForecasts(t *testing.T) *ForecastService {
	t.Helper()
	store := memory.New(memory.SampleDataset())
	provider := forecast.NewProvider(clock.NewFixedClock(simulationDay), nil)
	return NewForecastService(store, store, provider)
}

func TestItemForecast(t *testing.T) {
	svc := newForecasts(t)

	fc, err := svc.ItemForecast(context.Background(), 1, 1, 30)
	require.NoError(t, err)

	assert.Equal(t, "Bridal Red", fc.ItemName)
	assert.Equal(t, forecast.SourceFallback, fc.Source)
	assert.Len(t, fc.Historical, 90)
	assert.Len(t, fc.Forecast, 30)
	require.Len(t, fc.Actual, 3)
	assert.Equal(t, "2025-09-28", fc.Actual[0].Date)
	assert.Equal(t, 18, fc.Actual[0].Actual)

	require.Len(t, fc.Annotations, 3)
	assert.Equal(t, "2025-10-15", fc.Annotations[0].Date)
	assert.Equal(t, "2025-10-31", fc.Annotations[1].Date)
	assert.Equal(t, "2025-10-10", fc.Annotations[2].Date)
}

func TestItemForecastErrors(t *testing.T) {
	svc := newForecasts(t)

	_, err := svc.ItemForecast(context.Background(), 1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = svc.ItemForecast(context.Background(), 1, 1, MaxHorizonDays+1)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = svc.ItemForecast(context.Background(), 404, 1, 30)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegionalSummary(t *testing.T) {
	svc := newForecasts(t)

	summary, err := svc.RegionalSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 3)

	want := map[string]int64{"West": 52050, "North": 21600, "South": 15400}
	for _, r := range summary {
		assert.True(t, decimal.NewFromInt(want[r.RegionName]).Equal(r.TotalRevenue), "%s: %s", r.RegionName, r.TotalRevenue)
	}
	assert.Equal(t, int64(1), summary[0].RegionID)
}

func TestRegionalSummaryRoundsAndZeroFills(t *testing.T) {
	ds := memory.SampleDataset()
	ds.Regions = append(ds.Regions, domain.Region{ID: 4, Name: "East"})
	ds.Sales = append(ds.Sales, domain.SalesRecord{
		ItemID: 2, RegionID: 3, Date: simulationDay, QuantitySold: 1, Revenue: decimal.RequireFromString("0.6"),
	})
	store := memory.New(ds)
	svc := NewForecastService(store, store, forecast.NewProvider(clock.NewFixedClock(simulationDay), nil))

	summary, err := svc.RegionalSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, "15401", summary[2].TotalRevenue.String())
	assert.Equal(t, "East", summary[3].RegionName)
	assert.True(t, summary[3].TotalRevenue.IsZero())
}
