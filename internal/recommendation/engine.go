package recommendation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/health"
)

const (
	candidateMaxCover = 30.0
	candidateLimit    = 15
	forecastHorizon   = 30
	demandBuffer      = 1.2
	minReorderQty     = 10
)

var (
	savingsRate = decimal.RequireFromString("0.08")
	aiCostRate  = decimal.RequireFromString("0.92")
)

// Forecaster supplies demand series. It never fails.
type Forecaster interface {
	Forecast(ctx context.Context, itemID, locationID int64, horizonDays int) domain.ForecastSeries
}

type DealerReader interface {
	GetDealer(ctx context.Context, id int64) (domain.Dealer, error)
}

type ItemReader interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// Engine builds reorder suggestions for dealers.
type Engine struct {
	dealers    DealerReader
	positions  health.PositionSource
	items      ItemReader
	forecaster Forecaster
	clock      clock.Clock
	rules      []Rule
}

func NewEngine(dealers DealerReader, positions health.PositionSource, items ItemReader, forecaster Forecaster, clk clock.Clock, rules []Rule) *Engine {
	if rules == nil {
		rules = Rules(DefaultSettings())
	}
	return &Engine{
		dealers:    dealers,
		positions:  positions,
		items:      items,
		forecaster: forecaster,
		clock:      clk,
		rules:      rules,
	}
}

// SmartOrders ranks reorder suggestions for the dealer's lowest-cover items.
// Nothing is written.
func (e *Engine) SmartOrders(ctx context.Context, dealerID int64) ([]domain.ReorderRecommendation, error) {
	dealer, err := e.dealers.GetDealer(ctx, dealerID)
	if err != nil {
		return nil, fmt.Errorf("get dealer %d: %w", dealerID, err)
	}

	maxCover := candidateMaxCover
	positions, err := e.positions.ListPositions(ctx, domain.PositionFilter{
		LocationIDs:    []int64{dealer.LocationID},
		MaxDaysOfCover: &maxCover,
	})
	if err != nil {
		return nil, fmt.Errorf("list positions for location %d: %w", dealer.LocationID, err)
	}

	candidates := LowestCover(positions, candidateMaxCover, candidateLimit)
	if len(candidates) == 0 {
		return []domain.ReorderRecommendation{}, nil
	}

	items, err := e.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	byID := make(map[int64]domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	today := clock.Today(e.clock)
	recs := make([]domain.ReorderRecommendation, 0, len(candidates))
	offsets := make(map[int64]int, len(candidates))

	for _, p := range candidates {
		item, ok := byID[p.ItemID]
		if !ok {
			log.Warn().Int64("item_id", p.ItemID).Int64("location_id", p.LocationID).Msg("stock position references unknown item")
			continue
		}

		series := e.forecaster.Forecast(ctx, item.ID, dealer.RegionID, forecastHorizon)

		var predicted float64
		for _, pt := range series.Forecast {
			predicted += pt.Predicted
		}

		qty := RecommendedQuantity(predicted, p.CurrentStock)
		manual := item.MRP.Mul(decimal.NewFromInt(int64(qty)))
		_, reason := Explain(e.rules, ReasonInput{Item: item, Position: p, Today: today})
		stockoutOffset := int(p.DaysOfCover)

		recs = append(recs, domain.ReorderRecommendation{
			ItemID:                item.ID,
			ItemCode:              item.Code,
			ItemName:              item.Name,
			Category:              item.Category,
			Size:                  item.Size,
			CurrentStock:          p.CurrentStock,
			DaysOfCover:           p.DaysOfCover,
			RecommendedQty:        qty,
			Urgency:               UrgencyFor(p.DaysOfCover),
			Reason:                reason,
			PredictedStockoutDate: clock.FormatDate(today.AddDate(0, 0, stockoutOffset)),
			SavingsAmount:         manual.Mul(savingsRate).Round(0),
			UnitPrice:             item.MRP,
			TotalCost:             manual.Mul(aiCostRate).Round(0),
		})
		offsets[item.ID] = stockoutOffset
	}

	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := recs[i].Urgency.Rank(), recs[j].Urgency.Rank()
		if ri != rj {
			return ri < rj
		}
		return offsets[recs[i].ItemID] < offsets[recs[j].ItemID]
	})

	return recs, nil
}

// LowestCover keeps positions strictly below maxCover, ascending by cover,
// capped at limit.
func LowestCover(positions []domain.StockPosition, maxCover float64, limit int) []domain.StockPosition {
	out := make([]domain.StockPosition, 0, len(positions))
	for _, p := range positions {
		if p.DaysOfCover < maxCover {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysOfCover < out[j].DaysOfCover
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecommendedQuantity sizes an order to cover buffered demand, never below the
// minimum lot.
func RecommendedQuantity(predictedDemand float64, currentStock int) int {
	qty := int(math.Round(predictedDemand*demandBuffer - float64(currentStock)))
	if qty < minReorderQty {
		return minReorderQty
	}
	return qty
}

// UrgencyFor maps days of cover to a reorder urgency.
func UrgencyFor(daysOfCover float64) domain.Urgency {
	switch {
	case daysOfCover < health.CriticalBelow:
		return domain.UrgencyCritical
	case daysOfCover < health.LowBelow:
		return domain.UrgencyRecommended
	default:
		return domain.UrgencyOptional
	}
}
