package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paintflow/inventory-engine/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// SampleDataset is a small three-warehouse network dated around 2025-10-10.
// It backs demo mode when no dataset file is configured.
func SampleDataset() Dataset {
	updated := day("2025-10-10")

	position := func(id, loc, item int64, stock int, doc float64) domain.StockPosition {
		return domain.StockPosition{
			ID:           id,
			LocationID:   loc,
			ItemID:       item,
			CurrentStock: stock,
			ReorderPoint: 50,
			MaxCapacity:  1000,
			DaysOfCover:  doc,
			LastUpdated:  updated,
		}
	}

	return Dataset{
		Regions: []domain.Region{
			{ID: 1, Name: "West"},
			{ID: 2, Name: "North"},
			{ID: 3, Name: "South"},
		},
		Locations: []domain.Location{
			{ID: 1, Code: "WH-MUM", Name: "Mumbai DC", City: "Mumbai", State: "Maharashtra", RegionID: 1, CapacityLitres: 50000},
			{ID: 2, Code: "WH-DEL", Name: "Delhi DC", City: "Delhi", State: "Delhi", RegionID: 2, CapacityLitres: 40000},
			{ID: 3, Code: "WH-CHN", Name: "Chennai DC", City: "Chennai", State: "Tamil Nadu", RegionID: 3, CapacityLitres: 30000},
		},
		Items: []domain.Item{
			{ID: 1, Code: "IV-BR-1L", Name: "Bridal Red", Size: "1L", Category: "Interior", UnitCost: money(300), MRP: money(450)},
			{ID: 2, Code: "IV-IW-4L", Name: "Ivory White", Size: "4L", Category: "Interior", UnitCost: money(1100), MRP: money(1600)},
			{ID: 3, Code: "EX-OT-10L", Name: "Ocean Teal", Size: "10L", Category: "Exterior", IsTrending: true, UnitCost: money(2600), MRP: money(3800)},
			{ID: 4, Code: "WP-DS-4L", Name: "DampShield", Size: "4L", Category: "Waterproofing", UnitCost: money(1500), MRP: money(2200)},
			{ID: 5, Code: "EX-SO-1L", Name: "Sunset Orange", Size: "1L", Category: "Exterior", UnitCost: money(350), MRP: money(520)},
			{ID: 6, Code: "IV-PG-20L", Name: "Pearl Grey", Size: "20L", Category: "Interior", UnitCost: money(5000), MRP: money(7200)},
		},
		Positions: []domain.StockPosition{
			position(1, 1, 1, 12, 1.5),
			position(2, 1, 2, 80, 8),
			position(3, 1, 3, 40, 2.4),
			position(4, 1, 4, 150, 20),
			position(5, 1, 5, 300, 95),
			position(6, 1, 6, 60, 45),
			position(7, 2, 1, 400, 130),
			position(8, 2, 2, 220, 35),
			position(9, 2, 3, 500, 125),
			position(10, 2, 4, 90, 12),
			position(11, 2, 5, 30, 5),
			position(12, 2, 6, 10, 2),
			position(13, 3, 1, 100, 40),
			position(14, 3, 2, 50, 20),
			position(15, 3, 3, 210, 100),
			position(16, 3, 4, 180, 110),
			position(17, 3, 5, 250, 92),
			position(18, 3, 6, 70, 60),
		},
		Dealers: []domain.Dealer{
			{ID: 1, Code: "DL-001", Name: "Sharma Paints", City: "Mumbai", State: "Maharashtra", Tier: "Gold", RegionID: 1, LocationID: 1, PerformanceScore: 78.5},
			{ID: 2, Code: "DL-002", Name: "Verma Colour House", City: "Delhi", State: "Delhi", Tier: "Silver", RegionID: 2, LocationID: 2, PerformanceScore: 55},
			{ID: 3, Code: "DL-003", Name: "Iyer Decor", City: "Chennai", State: "Tamil Nadu", Tier: "Platinum", RegionID: 3, LocationID: 3, PerformanceScore: 64},
		},
		Orders: []domain.DealerOrder{
			{ID: 1, DealerID: 1, ItemID: 1, Quantity: 20, Status: domain.OrderDelivered, IsAISuggested: true, SavingsAmount: money(720), OrderDate: day("2025-10-03")},
			{ID: 2, DealerID: 1, ItemID: 2, Quantity: 10, Status: domain.OrderDelivered, SavingsAmount: decimal.Zero, OrderDate: day("2025-09-20")},
			{ID: 3, DealerID: 1, ItemID: 3, Quantity: 5, Status: domain.OrderRecommended, IsAISuggested: true, SavingsAmount: money(1520), OrderDate: day("2025-10-08")},
			{ID: 4, DealerID: 1, ItemID: 4, Quantity: 8, Status: domain.OrderPlaced, SavingsAmount: decimal.Zero, OrderDate: day("2025-10-06")},
			{ID: 5, DealerID: 2, ItemID: 6, Quantity: 2, Status: domain.OrderDelivered, SavingsAmount: decimal.Zero, OrderDate: day("2025-10-02")},
			{ID: 6, DealerID: 2, ItemID: 5, Quantity: 30, Status: domain.OrderShipped, IsAISuggested: true, SavingsAmount: money(1248), OrderDate: day("2025-10-05")},
		},
		Transfers: []domain.TransferRecommendation{
			{ID: 1, FromLocationID: 2, ToLocationID: 1, ItemID: 1, Quantity: 60, Status: domain.TransferPending, Reason: "Mumbai below 3 days of cover, Delhi overstocked", CreatedAt: day("2025-10-08")},
			{ID: 2, FromLocationID: 3, ToLocationID: 2, ItemID: 6, Quantity: 30, Status: domain.TransferApproved, Reason: "Delhi below 3 days of cover", CreatedAt: day("2025-10-08")},
			{ID: 3, FromLocationID: 2, ToLocationID: 1, ItemID: 3, Quantity: 90, Status: domain.TransferInTransit, Reason: "Trending shade short in Mumbai", CreatedAt: day("2025-10-07")},
			{ID: 4, FromLocationID: 3, ToLocationID: 2, ItemID: 4, Quantity: 40, Status: domain.TransferCompleted, Reason: "Rebalance waterproofing", CreatedAt: day("2025-10-01")},
		},
		Sales: []domain.SalesRecord{
			{ItemID: 1, RegionID: 1, Date: day("2025-09-28"), QuantitySold: 18, Revenue: money(8100)},
			{ItemID: 1, RegionID: 1, Date: day("2025-10-01"), QuantitySold: 22, Revenue: money(9900)},
			{ItemID: 1, RegionID: 1, Date: day("2025-10-02"), QuantitySold: 25, Revenue: money(11250)},
			{ItemID: 3, RegionID: 1, Date: day("2025-10-02"), QuantitySold: 6, Revenue: money(22800)},
			{ItemID: 6, RegionID: 2, Date: day("2025-10-03"), QuantitySold: 3, Revenue: money(21600)},
			{ItemID: 4, RegionID: 3, Date: day("2025-10-04"), QuantitySold: 7, Revenue: money(15400)},
		},
	}
}
