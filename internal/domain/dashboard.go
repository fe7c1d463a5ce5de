package domain

import "github.com/shopspring/decimal"

// LocationHealth is the rolled-up health of one location
type LocationHealth struct {
	LocationID     int64       `json:"id"`
	Name           string      `json:"name"`
	Code           string      `json:"code"`
	City           string      `json:"city"`
	State          string      `json:"state"`
	Capacity       int         `json:"capacity"`
	TotalStock     int         `json:"total_stock"`
	CapacityPct    float64     `json:"capacity_pct"`
	CriticalItems  int         `json:"critical_skus"`
	LowItems       int         `json:"low_skus"`
	OverstockItems int         `json:"overstock_skus"`
	Status         StockStatus `json:"status"`
	RevenueAtRisk  float64     `json:"revenue_at_risk"`
}

// LocationInventoryItem is one classified position of a location
type LocationInventoryItem struct {
	PositionID   int64       `json:"id"`
	ItemID       int64       `json:"sku_id"`
	ItemCode     string      `json:"sku_code"`
	ItemName     string      `json:"name"`
	Size         string      `json:"size"`
	CurrentStock int         `json:"current_stock"`
	ReorderPoint int         `json:"reorder_point"`
	DaysOfCover  float64     `json:"days_of_cover"`
	Status       StockStatus `json:"status"`
}

// DeadStockAction is the suggested way to release locked capital
type DeadStockAction string

const (
	DeadStockTransfer  DeadStockAction = "transfer"
	DeadStockPromotion DeadStockAction = "promotion"
)

// DeadStockItem is a position with far more cover than normal turnover
type DeadStockItem struct {
	LocationID     int64           `json:"location_id"`
	LocationName   string          `json:"warehouse"`
	LocationCity   string          `json:"warehouse_city"`
	ItemID         int64           `json:"sku_id"`
	ItemCode       string          `json:"sku_code"`
	ItemName       string          `json:"name"`
	Size           string          `json:"size"`
	CurrentStock   int             `json:"current_stock"`
	DaysOfCover    float64         `json:"days_of_cover"`
	CapitalLocked  decimal.Decimal `json:"capital_locked"`
	Recommendation DeadStockAction `json:"recommendation"`
}

// LocationRef is a short location reference embedded in views
type LocationRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// TransferView is a transfer recommendation enriched for display
type TransferView struct {
	ID            int64          `json:"id"`
	From          *LocationRef   `json:"from_warehouse"`
	To            *LocationRef   `json:"to_warehouse"`
	ItemID        int64          `json:"sku_id"`
	ItemCode      string         `json:"sku_code"`
	ItemName      string         `json:"name"`
	Quantity      int            `json:"quantity"`
	Status        TransferStatus `json:"status"`
	Reason        string         `json:"reason"`
	RecommendedAt string         `json:"recommended_at"`
}

// TransferApproval carries a transfer and both affected positions through an approval
type TransferApproval struct {
	Transfer    TransferRecommendation
	Source      StockPosition
	Destination StockPosition
}

// ApprovalResult is returned to callers after a successful approval
type ApprovalResult struct {
	Success    bool           `json:"success"`
	TransferID int64          `json:"transfer_id"`
	Status     TransferStatus `json:"status"`
	Moved      int            `json:"moved"`
	ETADays    int            `json:"eta_days"`
	Message    string         `json:"message"`
}

// ReorderRecommendation is a derived reorder suggestion, never persisted
type ReorderRecommendation struct {
	ItemID                int64           `json:"sku_id"`
	ItemCode              string          `json:"sku_code"`
	ItemName              string          `json:"name"`
	Category              string          `json:"category"`
	Size                  string          `json:"size"`
	CurrentStock          int             `json:"current_stock"`
	DaysOfCover           float64         `json:"days_of_cover"`
	RecommendedQty        int             `json:"recommended_qty"`
	Urgency               Urgency         `json:"urgency"`
	Reason                string          `json:"reason"`
	PredictedStockoutDate string          `json:"predicted_stockout_date"`
	SavingsAmount         decimal.Decimal `json:"savings_amount"`
	UnitPrice             decimal.Decimal `json:"mrp_per_unit"`
	TotalCost             decimal.Decimal `json:"total_cost"`
}

// DealerDashboard is the dealer landing view
type DealerDashboard struct {
	Dealer                   Dealer          `json:"dealer"`
	HealthScore              float64         `json:"health_score"`
	TotalOrders              int             `json:"total_orders"`
	AIRecommendationsPending int             `json:"ai_recommendations_pending"`
	DeliveredRevenue         decimal.Decimal `json:"revenue_delivered"`
	TotalAISavings           decimal.Decimal `json:"total_ai_savings"`
	PerformanceScore         float64         `json:"performance_score"`
}

// DealerPerformance is one row of the dealer ranking
type DealerPerformance struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	City             string          `json:"city"`
	Tier             string          `json:"tier"`
	PerformanceScore float64         `json:"performance_score"`
	TotalOrders      int             `json:"total_orders"`
	DeliveredRevenue decimal.Decimal `json:"total_revenue"`
	AIAdoptionRate   float64         `json:"ai_adoption_rate"`
	Trend            string          `json:"trend"`
}

// StockoutAlert warns a dealer about an item running out
type StockoutAlert struct {
	ItemID        int64   `json:"sku_id"`
	ItemName      string  `json:"name"`
	DaysRemaining float64 `json:"days_remaining"`
	CurrentStock  int     `json:"current_stock"`
}

// DealerAlerts groups dealer-facing alerts
type DealerAlerts struct {
	StockoutAlerts []StockoutAlert `json:"stockout_alerts"`
	Trending       []string        `json:"trending"`
}

// DashboardSummary is the admin KPI summary
type DashboardSummary struct {
	TotalItems       int             `json:"total_skus"`
	TotalLocations   int             `json:"total_warehouses"`
	TotalDealers     int             `json:"total_dealers"`
	TotalRevenueMTD  decimal.Decimal `json:"total_revenue_mtd"`
	StockoutCount    int             `json:"stockout_count"`
	PendingTransfers int             `json:"pending_transfers"`
	RevenueAtRisk    float64         `json:"revenue_at_risk"`
	DeadStockCount   int             `json:"dead_stock_count"`
}
