package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/cache"
	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/health"
	"github.com/paintflow/inventory-engine/internal/repository"
)

const (
	alertCoverDays   = 7.0
	maxStockoutAlert = 5
	maxTrending      = 5
	trendUpAbove     = 60.0
)

// SmartOrderer builds reorder suggestions for a dealer.
type SmartOrderer interface {
	SmartOrders(ctx context.Context, dealerID int64) ([]domain.ReorderRecommendation, error)
}

type DealerService struct {
	store  repository.Store
	scorer *health.Scorer
	orders SmartOrderer
	cache  cache.DashboardCache
	clock  clock.Clock
}

func NewDealerService(store repository.Store, orders SmartOrderer, cacheImpl cache.DashboardCache, clk clock.Clock) *DealerService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &DealerService{
		store:  store,
		scorer: health.NewScorer(store, store),
		orders: orders,
		cache:  cacheImpl,
		clock:  clk,
	}
}

func (s *DealerService) Dashboard(ctx context.Context, dealerID int64) (*domain.DealerDashboard, error) {
	dealer, err := s.store.GetDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	stats, err := s.store.OrderStats(ctx, dealer.ID, monthStart(clock.Today(s.clock)))
	if err != nil {
		return nil, fmt.Errorf("order stats for dealer %d: %w", dealer.ID, err)
	}

	score, err := s.scorer.ScoreDealer(ctx, dealer)
	if err != nil {
		return nil, err
	}

	return &domain.DealerDashboard{
		Dealer:                   dealer,
		HealthScore:              score,
		TotalOrders:              stats.TotalOrders,
		AIRecommendationsPending: stats.AIPending,
		DeliveredRevenue:         stats.DeliveredRevenue.Round(0),
		TotalAISavings:           stats.TotalSavings.Round(0),
		PerformanceScore:         dealer.PerformanceScore,
	}, nil
}

func (s *DealerService) SmartOrders(ctx context.Context, dealerID int64) ([]domain.ReorderRecommendation, error) {
	return s.orders.SmartOrders(ctx, dealerID)
}

// Alerts lists the dealer's items running out within a week, lowest cover
// first, plus the trending catalog.
func (s *DealerService) Alerts(ctx context.Context, dealerID int64) (*domain.DealerAlerts, error) {
	dealer, err := s.store.GetDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	maxCover := alertCoverDays
	positions, err := s.store.ListPositions(ctx, domain.PositionFilter{
		LocationIDs:    []int64{dealer.LocationID},
		MaxDaysOfCover: &maxCover,
	})
	if err != nil {
		return nil, fmt.Errorf("list positions for dealer %d: %w", dealer.ID, err)
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].DaysOfCover < positions[j].DaysOfCover
	})

	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	names := make(map[int64]string, len(items))
	alerts := &domain.DealerAlerts{
		StockoutAlerts: make([]domain.StockoutAlert, 0),
		Trending:       make([]string, 0),
	}
	for _, item := range items {
		names[item.ID] = item.Name
		if item.IsTrending && len(alerts.Trending) < maxTrending {
			alerts.Trending = append(alerts.Trending, item.Name)
		}
	}

	for _, p := range positions {
		name, ok := names[p.ItemID]
		if !ok {
			continue
		}
		alerts.StockoutAlerts = append(alerts.StockoutAlerts, domain.StockoutAlert{
			ItemID:        p.ItemID,
			ItemName:      name,
			DaysRemaining: math.Round(p.DaysOfCover*10) / 10,
			CurrentStock:  p.CurrentStock,
		})
		if len(alerts.StockoutAlerts) == maxStockoutAlert {
			break
		}
	}

	return alerts, nil
}

// Performance ranks dealers by performance score. regionID 0 ranks all of them.
func (s *DealerService) Performance(ctx context.Context, regionID int64) ([]domain.DealerPerformance, error) {
	if ranking, ok, err := s.cache.GetDealerRanking(ctx, regionID); err == nil && ok {
		return ranking, nil
	} else if err != nil {
		log.Warn().Err(err).Int64("region_id", regionID).Msg("dealer: cache get ranking failed")
	}

	dealers, err := s.store.ListDealers(ctx, regionID)
	if err != nil {
		return nil, fmt.Errorf("list dealers: %w", err)
	}

	ranking := make([]domain.DealerPerformance, 0, len(dealers))
	for _, d := range dealers {
		stats, err := s.store.OrderStats(ctx, d.ID, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("order stats for dealer %d: %w", d.ID, err)
		}

		trend := "down"
		if d.PerformanceScore > trendUpAbove {
			trend = "up"
		}

		ranking = append(ranking, domain.DealerPerformance{
			ID:               d.ID,
			Name:             d.Name,
			Code:             d.Code,
			City:             d.City,
			Tier:             d.Tier,
			PerformanceScore: d.PerformanceScore,
			TotalOrders:      stats.TotalOrders,
			DeliveredRevenue: stats.DeliveredRevenue.Round(0),
			AIAdoptionRate:   math.Round(float64(stats.AISuggested)/math.Max(float64(stats.TotalOrders), 1)*1000) / 10,
			Trend:            trend,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].PerformanceScore > ranking[j].PerformanceScore
	})

	if err := s.cache.SetDealerRanking(ctx, regionID, ranking); err != nil {
		log.Warn().Err(err).Int64("region_id", regionID).Msg("dealer: cache set ranking failed")
	}

	return ranking, nil
}
