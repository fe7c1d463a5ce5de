package recommendation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/cache"
	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/repository"
)

// ETADays is the fixed transit estimate quoted on approval.
const ETADays = 2

// Invalidator drops cached views that an approval makes stale.
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

type TransferStore interface {
	ListTransfers(ctx context.Context, statuses ...domain.TransferStatus) ([]domain.TransferRecommendation, error)
	ApplyTransfer(ctx context.Context, id int64, apply repository.ApplyFunc) (domain.TransferApproval, error)
}

type CatalogReader interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

// Transfers lists and approves warehouse-to-warehouse transfer
// recommendations.
type Transfers struct {
	store       TransferStore
	catalog     CatalogReader
	clock       clock.Clock
	locker      cache.Locker
	invalidator Invalidator
	metrics     *metrics.Metrics
}

type TransferOption func(*Transfers)

// WithLocker serializes approvals of the same transfer across processes.
func WithLocker(l cache.Locker) TransferOption {
	return func(t *Transfers) { t.locker = l }
}

func WithInvalidator(i Invalidator) TransferOption {
	return func(t *Transfers) { t.invalidator = i }
}

func WithTransferMetrics(m *metrics.Metrics) TransferOption {
	return func(t *Transfers) { t.metrics = m }
}

func NewTransfers(store TransferStore, catalog CatalogReader, clk clock.Clock, opts ...TransferOption) *Transfers {
	t := &Transfers{store: store, catalog: catalog, clock: clk}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Approve moves a PENDING or APPROVED transfer to IN_TRANSIT and shifts the
// stock between the two positions in one transaction.
func (t *Transfers) Approve(ctx context.Context, transferID int64) (domain.ApprovalResult, error) {
	if t.locker != nil {
		lock, err := t.locker.Obtain(ctx, fmt.Sprintf("transfer:approve:%d", transferID))
		if err != nil {
			t.metrics.ObserveApproval(outcomeOf(err))
			return domain.ApprovalResult{}, fmt.Errorf("lock transfer %d: %w", transferID, err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Int64("transfer_id", transferID).Msg("failed to release approval lock")
			}
		}()
	}

	before := map[int64]int{}
	applied, err := t.store.ApplyTransfer(ctx, transferID, func(current domain.TransferApproval) (domain.TransferApproval, error) {
		before[current.Source.ID] = current.Source.CurrentStock
		return ApplyApproval(current, t.clock.Now())
	})
	if err != nil {
		t.metrics.ObserveApproval(outcomeOf(err))
		return domain.ApprovalResult{}, fmt.Errorf("approve transfer %d: %w", transferID, err)
	}
	t.metrics.ObserveApproval(metrics.ApprovalApproved)

	if t.invalidator != nil {
		if err := t.invalidator.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Int64("transfer_id", transferID).Msg("failed to invalidate dashboard cache")
		}
	}

	moved := before[applied.Source.ID] - applied.Source.CurrentStock
	itemName, fromName, toName := t.describe(ctx, applied.Transfer)

	log.Info().
		Int64("transfer_id", transferID).
		Int64("item_id", applied.Transfer.ItemID).
		Int("moved", moved).
		Msg("transfer approved")

	return domain.ApprovalResult{
		Success:    true,
		TransferID: applied.Transfer.ID,
		Status:     applied.Transfer.Status,
		Moved:      moved,
		ETADays:    ETADays,
		Message: fmt.Sprintf("Transfer approved. %d units of %s moving from %s to %s. ETA: %d days.",
			moved, itemName, fromName, toName, ETADays),
	}, nil
}

// ApplyApproval is the pure ledger update for one approval. The moved quantity
// is capped at the source stock so the pair total is conserved.
func ApplyApproval(current domain.TransferApproval, now time.Time) (domain.TransferApproval, error) {
	tr := current.Transfer
	if !tr.Status.Approvable() {
		return domain.TransferApproval{}, fmt.Errorf("%w: transfer %d is %s", domain.ErrConflict, tr.ID, tr.Status)
	}
	if tr.Quantity <= 0 {
		return domain.TransferApproval{}, fmt.Errorf("transfer %d has non-positive quantity %d", tr.ID, tr.Quantity)
	}
	if tr.FromLocationID == tr.ToLocationID || current.Source.ID == current.Destination.ID {
		return domain.TransferApproval{}, fmt.Errorf("%w: transfer %d moves stock within location %d", domain.ErrConflict, tr.ID, tr.FromLocationID)
	}

	moved := tr.Quantity
	if current.Source.CurrentStock < moved {
		moved = current.Source.CurrentStock
	}
	if moved < 0 {
		moved = 0
	}

	// Transfer size stands in for daily demand, spread over a month.
	dailyProxy := math.Max(float64(tr.Quantity)/30, 1)

	next := current
	next.Transfer.Status = domain.TransferInTransit
	next.Source.CurrentStock -= moved
	next.Source.DaysOfCover = round1(float64(next.Source.CurrentStock) / dailyProxy)
	next.Source.LastUpdated = now
	next.Destination.CurrentStock += moved
	next.Destination.DaysOfCover = round1(float64(next.Destination.CurrentStock) / dailyProxy)
	next.Destination.LastUpdated = now

	return next, nil
}

// List returns open transfers enriched with location and item names.
func (t *Transfers) List(ctx context.Context) ([]domain.TransferView, error) {
	transfers, err := t.store.ListTransfers(ctx, domain.TransferPending, domain.TransferApproved, domain.TransferInTransit)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	items, locations, err := t.lookups(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.TransferView, 0, len(transfers))
	for _, tr := range transfers {
		view := domain.TransferView{
			ID:       tr.ID,
			From:     locationRef(locations, tr.FromLocationID),
			To:       locationRef(locations, tr.ToLocationID),
			ItemID:   tr.ItemID,
			Quantity: tr.Quantity,
			Status:   tr.Status,
			Reason:   tr.Reason,
		}
		if item, ok := items[tr.ItemID]; ok {
			view.ItemCode = item.Code
			view.ItemName = item.Name
		}
		if !tr.CreatedAt.IsZero() {
			view.RecommendedAt = tr.CreatedAt.UTC().Format(time.RFC3339)
		}
		views = append(views, view)
	}

	return views, nil
}

func (t *Transfers) lookups(ctx context.Context) (map[int64]domain.Item, map[int64]domain.Location, error) {
	items, err := t.catalog.ListItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list items: %w", err)
	}
	locations, err := t.catalog.ListLocations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list locations: %w", err)
	}

	itemsByID := make(map[int64]domain.Item, len(items))
	for _, it := range items {
		itemsByID[it.ID] = it
	}
	locationsByID := make(map[int64]domain.Location, len(locations))
	for _, loc := range locations {
		locationsByID[loc.ID] = loc
	}
	return itemsByID, locationsByID, nil
}

// describe names the transfer's item and endpoints for the confirmation
// message. Lookup failures degrade to placeholders.
func (t *Transfers) describe(ctx context.Context, tr domain.TransferRecommendation) (string, string, string) {
	itemName, fromName, toName := "product", "?", "?"

	items, locations, err := t.lookups(ctx)
	if err != nil {
		log.Warn().Err(err).Int64("transfer_id", tr.ID).Msg("failed to load names for approval message")
		return itemName, fromName, toName
	}

	if item, ok := items[tr.ItemID]; ok {
		itemName = item.Name
	}
	if loc, ok := locations[tr.FromLocationID]; ok {
		fromName = loc.Name
	}
	if loc, ok := locations[tr.ToLocationID]; ok {
		toName = loc.Name
	}
	return itemName, fromName, toName
}

func locationRef(locations map[int64]domain.Location, id int64) *domain.LocationRef {
	loc, ok := locations[id]
	if !ok {
		return nil
	}
	return &domain.LocationRef{ID: loc.ID, Name: loc.Name, City: loc.City}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ApprovalNotFound
	case errors.Is(err, domain.ErrConflict):
		return metrics.ApprovalConflict
	default:
		return metrics.ApprovalError
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
