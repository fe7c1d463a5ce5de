// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Region groups locations and dealers for demand forecasting
type Region struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Location represents a warehouse holding stock positions
type Location struct {
	ID             int64  `json:"id" db:"id"`
	Code           string `json:"code" db:"code"`
	Name           string `json:"name" db:"name"`
	City           string `json:"city" db:"city"`
	State          string `json:"state" db:"state"`
	RegionID       int64  `json:"region_id" db:"region_id"`
	CapacityLitres int    `json:"capacity_litres" db:"capacity_litres"`
}

// Item represents a sellable SKU (shade + pack size)
type Item struct {
	ID         int64           `json:"id" db:"id"`
	Code       string          `json:"sku_code" db:"sku_code"`
	Name       string          `json:"name" db:"name"`
	Size       string          `json:"size" db:"size"`
	Category   string          `json:"category" db:"category"`
	IsTrending bool            `json:"is_trending" db:"is_trending"`
	UnitCost   decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	MRP        decimal.Decimal `json:"mrp" db:"mrp"`
}

// StockPosition is the stock of one item at one location
type StockPosition struct {
	ID           int64     `json:"id" db:"id"`
	LocationID   int64     `json:"location_id" db:"location_id"`
	ItemID       int64     `json:"item_id" db:"item_id"`
	CurrentStock int       `json:"current_stock" db:"current_stock"`
	ReorderPoint int       `json:"reorder_point" db:"reorder_point"`
	MaxCapacity  int       `json:"max_capacity" db:"max_capacity"`
	DaysOfCover  float64   `json:"days_of_cover" db:"days_of_cover"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}

// TransferRecommendation is a suggested stock movement between two locations
type TransferRecommendation struct {
	ID             int64          `json:"id" db:"id"`
	FromLocationID int64          `json:"from_location_id" db:"from_location_id"`
	ToLocationID   int64          `json:"to_location_id" db:"to_location_id"`
	ItemID         int64          `json:"item_id" db:"item_id"`
	Quantity       int            `json:"quantity" db:"quantity"`
	Status         TransferStatus `json:"status" db:"status"`
	Reason         string         `json:"reason" db:"reason"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// Dealer is a retail partner replenished from a home location
type Dealer struct {
	ID               int64   `json:"id" db:"id"`
	Code             string  `json:"code" db:"code"`
	Name             string  `json:"name" db:"name"`
	City             string  `json:"city" db:"city"`
	State            string  `json:"state" db:"state"`
	Tier             string  `json:"tier" db:"tier"`
	RegionID         int64   `json:"region_id" db:"region_id"`
	LocationID       int64   `json:"location_id" db:"location_id"`
	PerformanceScore float64 `json:"performance_score" db:"performance_score"`
}

// DealerOrder is an order placed by a dealer
type DealerOrder struct {
	ID            int64           `json:"id" db:"id"`
	DealerID      int64           `json:"dealer_id" db:"dealer_id"`
	ItemID        int64           `json:"item_id" db:"item_id"`
	Quantity      int             `json:"quantity" db:"quantity"`
	Status        OrderStatus     `json:"status" db:"status"`
	IsAISuggested bool            `json:"is_ai_suggested" db:"is_ai_suggested"`
	SavingsAmount decimal.Decimal `json:"savings_amount" db:"savings_amount"`
	OrderDate     time.Time       `json:"order_date" db:"order_date"`
}

// OrderStats aggregates a dealer's order history
type OrderStats struct {
	TotalOrders      int             `json:"total_orders" db:"total_orders"`
	DeliveredOrders  int             `json:"delivered_orders" db:"delivered_orders"`
	DistinctItems    int             `json:"distinct_items" db:"distinct_items"`
	AISuggested      int             `json:"ai_suggested" db:"ai_suggested"`
	AIPending        int             `json:"ai_pending" db:"ai_pending"`
	TotalSavings     decimal.Decimal `json:"total_savings" db:"total_savings"`
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue" db:"delivered_revenue"`
}

// SalesRecord is one day of sales for an item in a region
type SalesRecord struct {
	ItemID       int64           `json:"item_id" db:"item_id"`
	RegionID     int64           `json:"region_id" db:"region_id"`
	Date         time.Time       `json:"date" db:"date"`
	QuantitySold int             `json:"quantity_sold" db:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue" db:"revenue"`
}

// PositionFilter narrows stock position queries
type PositionFilter struct {
	LocationIDs    []int64
	ItemIDs        []int64
	MaxDaysOfCover *float64 // exclusive
	MinDaysOfCover *float64 // exclusive
	Limit          int
}

// ScenarioProfile is a named multiplicative disruption
type ScenarioProfile struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Impact              string   `json:"impact"`
	AffectedRegions     []string `json:"affected_regions"`
	InventoryMultiplier float64  `json:"inventory_multiplier"`
	DemandMultiplier    float64  `json:"demand_multiplier"`
}

// RegionRevenue is the lifetime sales revenue of one region
type RegionRevenue struct {
	RegionID     int64           `json:"region_id" db:"region_id"`
	RegionName   string          `json:"region_name" db:"region_name"`
	TotalRevenue decimal.Decimal `json:"total_revenue" db:"total_revenue"`
}

// ItemSales aggregates the sales of one item over a period
type ItemSales struct {
	ItemID        int64           `json:"sku_id" db:"item_id"`
	ItemCode      string          `json:"sku_code" db:"sku_code"`
	ItemName      string          `json:"name" db:"name"`
	Size          string          `json:"size" db:"size"`
	TotalRevenue  decimal.Decimal `json:"total_revenue" db:"total_revenue"`
	TotalQuantity int             `json:"total_quantity" db:"total_quantity"`
}
