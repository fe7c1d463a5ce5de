package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/paintflow/inventory-engine/internal/domain"
)

// NeutralScore is reported for dealers whose home location holds no stock.
const NeutralScore = 50.0

const (
	coverageWeight    = 0.4
	stockoutWeight    = 0.25
	fulfillmentWeight = 0.2
	breadthWeight     = 0.15

	coverageTargetDays = 30.0
	stockoutPenalty    = 15.0
	breadthTarget      = 20.0
)

// DealerSource is the read access the scorer needs.
type DealerSource interface {
	GetDealer(ctx context.Context, id int64) (domain.Dealer, error)
	OrderStats(ctx context.Context, dealerID int64, since time.Time) (domain.OrderStats, error)
}

// PositionSource lists stock positions.
type PositionSource interface {
	ListPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.StockPosition, error)
}

type Scorer struct {
	dealers   DealerSource
	positions PositionSource
}

func NewScorer(dealers DealerSource, positions PositionSource) *Scorer {
	return &Scorer{dealers: dealers, positions: positions}
}

// Score loads the dealer's home-location positions and order history and
// composes them into a 0-100 health score.
func (s *Scorer) Score(ctx context.Context, dealerID int64) (float64, error) {
	dealer, err := s.dealers.GetDealer(ctx, dealerID)
	if err != nil {
		return 0, fmt.Errorf("get dealer %d: %w", dealerID, err)
	}

	return s.ScoreDealer(ctx, dealer)
}

// ScoreDealer scores an already loaded dealer.
func (s *Scorer) ScoreDealer(ctx context.Context, dealer domain.Dealer) (float64, error) {
	positions, err := s.positions.ListPositions(ctx, domain.PositionFilter{
		LocationIDs: []int64{dealer.LocationID},
	})
	if err != nil {
		return 0, fmt.Errorf("list positions for dealer %d: %w", dealer.ID, err)
	}
	if len(positions) == 0 {
		return NeutralScore, nil
	}

	stats, err := s.dealers.OrderStats(ctx, dealer.ID, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("order stats for dealer %d: %w", dealer.ID, err)
	}

	return ComposeScore(positions, stats), nil
}

// ComposeScore is the pure scoring formula.
func ComposeScore(positions []domain.StockPosition, stats domain.OrderStats) float64 {
	if len(positions) == 0 {
		return NeutralScore
	}

	var sum float64
	stockouts := 0
	for _, p := range positions {
		sum += p.DaysOfCover
		if p.DaysOfCover < CriticalBelow {
			stockouts++
		}
	}
	mean := sum / float64(len(positions))

	coverage := math.Min(100, mean/coverageTargetDays*100)
	stockout := math.Max(0, 100-stockoutPenalty*float64(stockouts))
	fulfillment := float64(stats.DeliveredOrders) / math.Max(float64(stats.TotalOrders), 1) * 100
	breadth := math.Min(100, float64(stats.DistinctItems)/breadthTarget*100)

	score := coverageWeight*coverage +
		stockoutWeight*stockout +
		fulfillmentWeight*fulfillment +
		breadthWeight*breadth

	return roundTo(math.Max(0, math.Min(100, score)), 1)
}
