package health

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paintflow/inventory-engine/internal/domain"
)

// Days-of-cover thresholds.
const (
	CriticalBelow    = 3.0
	LowBelow         = 14.0
	OverstockAbove   = 90.0
	RiskWindowDays   = 7.0
	TransferAbove    = 120.0
	minDailyDivisor  = 0.1
	rollupCountLimit = 2
)

// Classify maps days of cover to a stock status.
func Classify(daysOfCover float64) domain.StockStatus {
	switch {
	case daysOfCover < CriticalBelow:
		return domain.StockCritical
	case daysOfCover < LowBelow:
		return domain.StockLow
	case daysOfCover > OverstockAbove:
		return domain.StockOverstocked
	default:
		return domain.StockHealthy
	}
}

// Counts tallies positions per status.
type Counts struct {
	Critical    int
	Low         int
	Healthy     int
	Overstocked int
}

func CountStatuses(positions []domain.StockPosition) Counts {
	var c Counts
	for _, p := range positions {
		switch Classify(p.DaysOfCover) {
		case domain.StockCritical:
			c.Critical++
		case domain.StockLow:
			c.Low++
		case domain.StockOverstocked:
			c.Overstocked++
		default:
			c.Healthy++
		}
	}
	return c
}

// Rollup picks the location status. Any critical item wins outright, then a
// cluster of overstocked items, then a cluster of low items.
func (c Counts) Rollup() domain.StockStatus {
	switch {
	case c.Critical > 0:
		return domain.StockCritical
	case c.Overstocked > rollupCountLimit:
		return domain.StockOverstocked
	case c.Low > rollupCountLimit:
		return domain.StockLow
	default:
		return domain.StockHealthy
	}
}

func RollupLocation(positions []domain.StockPosition) domain.StockStatus {
	return CountStatuses(positions).Rollup()
}

// PriceFunc returns the unit price of an item. ok is false for unknown items,
// which are skipped.
type PriceFunc func(itemID int64) (price decimal.Decimal, ok bool)

// MRPOf prices items at their MRP.
func MRPOf(items map[int64]domain.Item) PriceFunc {
	return func(itemID int64) (decimal.Decimal, bool) {
		item, ok := items[itemID]
		return item.MRP, ok
	}
}

// RevenueAtRisk estimates sales lost over the next week to stockouts, rounded
// to whole currency units.
func RevenueAtRisk(positions []domain.StockPosition, priceOf PriceFunc) float64 {
	var total float64
	for _, p := range positions {
		if p.DaysOfCover >= RiskWindowDays {
			continue
		}
		price, ok := priceOf(p.ItemID)
		if !ok {
			continue
		}
		daily := float64(p.CurrentStock) / math.Max(p.DaysOfCover, minDailyDivisor)
		daysOut := math.Max(0, RiskWindowDays-p.DaysOfCover)
		total += daily * daysOut * price.InexactFloat64()
	}
	return math.Round(total)
}

// DeadStock lists overstocked positions with the capital they lock up, most
// days of cover first. Positions of unknown items are skipped.
func DeadStock(positions []domain.StockPosition, items map[int64]domain.Item, locations map[int64]domain.Location) []domain.DeadStockItem {
	result := make([]domain.DeadStockItem, 0)
	for _, p := range positions {
		if p.DaysOfCover <= OverstockAbove {
			continue
		}
		item, ok := items[p.ItemID]
		if !ok {
			continue
		}
		loc := locations[p.LocationID]

		action := domain.DeadStockPromotion
		if p.DaysOfCover > TransferAbove {
			action = domain.DeadStockTransfer
		}

		result = append(result, domain.DeadStockItem{
			LocationID:     p.LocationID,
			LocationName:   loc.Name,
			LocationCity:   loc.City,
			ItemID:         item.ID,
			ItemCode:       item.Code,
			ItemName:       item.Name,
			Size:           item.Size,
			CurrentStock:   p.CurrentStock,
			DaysOfCover:    p.DaysOfCover,
			CapitalLocked:  item.UnitCost.Mul(decimal.NewFromInt(int64(p.CurrentStock))).Round(0),
			Recommendation: action,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DaysOfCover > result[j].DaysOfCover
	})

	return result
}

// SummarizeLocation rolls the positions of one location up for the map view.
func SummarizeLocation(loc domain.Location, positions []domain.StockPosition, priceOf PriceFunc) domain.LocationHealth {
	counts := CountStatuses(positions)

	total := 0
	for _, p := range positions {
		total += p.CurrentStock
	}

	capacity := loc.CapacityLitres
	if capacity < 1 {
		capacity = 1
	}

	return domain.LocationHealth{
		LocationID:     loc.ID,
		Name:           loc.Name,
		Code:           loc.Code,
		City:           loc.City,
		State:          loc.State,
		Capacity:       loc.CapacityLitres,
		TotalStock:     total,
		CapacityPct:    roundTo(float64(total)/float64(capacity)*100, 1),
		CriticalItems:  counts.Critical,
		LowItems:       counts.Low,
		OverstockItems: counts.Overstocked,
		Status:         counts.Rollup(),
		RevenueAtRisk:  RevenueAtRisk(positions, priceOf),
	}
}

// LocationInventory classifies every position of a location, lowest cover
// first.
func LocationInventory(positions []domain.StockPosition, items map[int64]domain.Item) []domain.LocationInventoryItem {
	result := make([]domain.LocationInventoryItem, 0, len(positions))
	for _, p := range positions {
		item := items[p.ItemID]
		result = append(result, domain.LocationInventoryItem{
			PositionID:   p.ID,
			ItemID:       p.ItemID,
			ItemCode:     item.Code,
			ItemName:     item.Name,
			Size:         item.Size,
			CurrentStock: p.CurrentStock,
			ReorderPoint: p.ReorderPoint,
			DaysOfCover:  p.DaysOfCover,
			Status:       Classify(p.DaysOfCover),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DaysOfCover < result[j].DaysOfCover
	})

	return result
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
