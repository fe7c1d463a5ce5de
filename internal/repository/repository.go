package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paintflow/inventory-engine/internal/domain"
)

type CatalogRepository interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id int64) (domain.Item, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetLocation(ctx context.Context, id int64) (domain.Location, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
}

type InventoryRepository interface {
	ListPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.StockPosition, error)
}

type DealerRepository interface {
	GetDealer(ctx context.Context, id int64) (domain.Dealer, error)
	ListDealers(ctx context.Context, regionID int64) ([]domain.Dealer, error)
	// OrderStats counts every order of the dealer; DeliveredRevenue only
	// covers delivered orders dated on or after since.
	OrderStats(ctx context.Context, dealerID int64, since time.Time) (domain.OrderStats, error)
}

// ApplyFunc computes the post-approval state from the locked pre-approval
// state. Returning an error aborts the approval without writing.
type ApplyFunc func(current domain.TransferApproval) (domain.TransferApproval, error)

type TransferRepository interface {
	GetTransfer(ctx context.Context, id int64) (domain.TransferRecommendation, error)
	ListTransfers(ctx context.Context, statuses ...domain.TransferStatus) ([]domain.TransferRecommendation, error)
	// ApplyTransfer locks the transfer and both affected positions, runs apply
	// and persists its result atomically.
	ApplyTransfer(ctx context.Context, id int64, apply ApplyFunc) (domain.TransferApproval, error)
}

type SalesRepository interface {
	ListSales(ctx context.Context, itemID, regionID int64, from, to time.Time) ([]domain.SalesRecord, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	TopItems(ctx context.Context, since time.Time, limit int) ([]domain.ItemSales, error)
	RevenueByRegion(ctx context.Context) (map[int64]decimal.Decimal, error)
}

// Store is the full persistence collaborator.
type Store interface {
	CatalogRepository
	InventoryRepository
	DealerRepository
	TransferRepository
	SalesRepository
	Close() error
}
