package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/paintflow/inventory-engine/internal/cache"
	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/health"
	"github.com/paintflow/inventory-engine/internal/repository"
)

const (
	defaultTopItems = 10
	maxTopItems     = 100

	snapshotAllHealthy  = "All warehouses healthy."
	snapshotUnavailable = "Unable to fetch inventory data."
)

// LocationDetail is one location with its classified positions.
type LocationDetail struct {
	Location  domain.Location                `json:"warehouse"`
	Inventory []domain.LocationInventoryItem `json:"inventory"`
}

type InventoryService struct {
	store repository.Store
	cache cache.DashboardCache
	clock clock.Clock
}

func NewInventoryService(store repository.Store, cacheImpl cache.DashboardCache, clk clock.Clock) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &InventoryService{store: store, cache: cacheImpl, clock: clk}
}

// HealthSummary rolls every location up for the warehouse map.
func (s *InventoryService) HealthSummary(ctx context.Context) ([]domain.LocationHealth, error) {
	if locations, ok, err := s.cache.GetHealth(ctx); err == nil && ok {
		return locations, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get health failed")
	}

	locations, err := s.store.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	items, err := s.itemIndex(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.store.ListPositions(ctx, domain.PositionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	byLocation := make(map[int64][]domain.StockPosition, len(locations))
	for _, p := range positions {
		byLocation[p.LocationID] = append(byLocation[p.LocationID], p)
	}

	priceOf := health.MRPOf(items)
	result := make([]domain.LocationHealth, 0, len(locations))
	for _, loc := range locations {
		result = append(result, health.SummarizeLocation(loc, byLocation[loc.ID], priceOf))
	}

	if err := s.cache.SetHealth(ctx, result); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set health failed")
	}

	return result, nil
}

func (s *InventoryService) LocationDetail(ctx context.Context, locationID int64) (*LocationDetail, error) {
	loc, err := s.store.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemIndex(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.store.ListPositions(ctx, domain.PositionFilter{LocationIDs: []int64{locationID}})
	if err != nil {
		return nil, fmt.Errorf("list positions for location %d: %w", locationID, err)
	}

	return &LocationDetail{
		Location:  loc,
		Inventory: health.LocationInventory(positions, items),
	}, nil
}

func (s *InventoryService) DeadStock(ctx context.Context) ([]domain.DeadStockItem, error) {
	minCover := health.OverstockAbove
	positions, err := s.store.ListPositions(ctx, domain.PositionFilter{MinDaysOfCover: &minCover})
	if err != nil {
		return nil, fmt.Errorf("list overstocked positions: %w", err)
	}
	items, err := s.itemIndex(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := s.locationIndex(ctx)
	if err != nil {
		return nil, err
	}

	return health.DeadStock(positions, items, locations), nil
}

// DashboardSummary gathers the admin KPIs. The independent aggregates are
// fetched concurrently.
func (s *InventoryService) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get summary failed")
	}

	var (
		items     []domain.Item
		locations []domain.Location
		dealers   []domain.Dealer
		positions []domain.StockPosition
		pending   []domain.TransferRecommendation
		summary   = &domain.DashboardSummary{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.ListItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = s.store.ListLocations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dealers, err = s.store.ListDealers(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		positions, err = s.store.ListPositions(gctx, domain.PositionFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.store.ListTransfers(gctx, domain.TransferPending)
		return err
	})
	g.Go(func() error {
		revenue, err := s.store.RevenueSince(gctx, monthStart(clock.Today(s.clock)))
		if err != nil {
			return err
		}
		summary.TotalRevenueMTD = revenue.Round(0)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	index := make(map[int64]domain.Item, len(items))
	for _, item := range items {
		index[item.ID] = item
	}

	summary.TotalItems = len(items)
	summary.TotalLocations = len(locations)
	summary.TotalDealers = len(dealers)
	summary.PendingTransfers = len(pending)
	summary.RevenueAtRisk = health.RevenueAtRisk(positions, health.MRPOf(index))
	for _, p := range positions {
		if p.DaysOfCover < health.CriticalBelow {
			summary.StockoutCount++
		}
		if p.DaysOfCover > health.OverstockAbove {
			summary.DeadStockCount++
		}
	}

	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set summary failed")
	}

	return summary, nil
}

// TopItems ranks items by revenue since the start of the previous month.
func (s *InventoryService) TopItems(ctx context.Context, limit int) ([]domain.ItemSales, error) {
	if limit <= 0 {
		limit = defaultTopItems
	}
	if limit > maxTopItems {
		limit = maxTopItems
	}

	since := monthStart(clock.Today(s.clock)).AddDate(0, -1, 0)
	result, err := s.store.TopItems(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	for i := range result {
		result[i].TotalRevenue = result[i].TotalRevenue.Round(0)
	}

	return result, nil
}

// Snapshot renders the plain-text inventory context handed to the narration
// assistant. It never fails; lookup errors produce a placeholder line.
func (s *InventoryService) Snapshot(ctx context.Context) string {
	locations, err := s.HealthSummary(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("inventory: snapshot health summary failed")
		return snapshotUnavailable
	}

	return RenderSnapshot(locations)
}

// RenderSnapshot lists critical locations first, then overstocked ones.
func RenderSnapshot(locations []domain.LocationHealth) string {
	p := message.NewPrinter(language.English)

	var lines []string
	for _, loc := range locations {
		if loc.Status == domain.StockCritical {
			lines = append(lines, p.Sprintf("CRITICAL: %s (%s) - %d SKUs at risk, Revenue at risk: ₹%d",
				loc.City, loc.Code, loc.CriticalItems, int64(loc.RevenueAtRisk)))
		}
	}
	for _, loc := range locations {
		if loc.Status == domain.StockOverstocked {
			lines = append(lines, p.Sprintf("OVERSTOCKED: %s (%s) - %d SKUs excess",
				loc.City, loc.Code, loc.OverstockItems))
		}
	}

	if len(lines) == 0 {
		return snapshotAllHealthy
	}
	return strings.Join(lines, "\n")
}

func (s *InventoryService) itemIndex(ctx context.Context) (map[int64]domain.Item, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	index := make(map[int64]domain.Item, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index, nil
}

func (s *InventoryService) locationIndex(ctx context.Context) (map[int64]domain.Location, error) {
	locations, err := s.store.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	index := make(map[int64]domain.Location, len(locations))
	for _, loc := range locations {
		index[loc.ID] = loc
	}
	return index, nil
}

func monthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}
