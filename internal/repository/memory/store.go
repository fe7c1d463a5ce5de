package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/repository"
)

// Dataset is the JSON document the store is loaded from.
type Dataset struct {
	Regions   []domain.Region                 `json:"regions"`
	Items     []domain.Item                   `json:"items"`
	Locations []domain.Location               `json:"locations"`
	Positions []domain.StockPosition          `json:"stock_positions"`
	Dealers   []domain.Dealer                 `json:"dealers"`
	Orders    []domain.DealerOrder            `json:"dealer_orders"`
	Transfers []domain.TransferRecommendation `json:"transfers"`
	Sales     []domain.SalesRecord            `json:"sales"`
}

// Store is an in-process implementation of repository.Store. Reads take a
// shared lock; ApplyTransfer holds the exclusive lock for the whole update.
type Store struct {
	mu sync.RWMutex

	regions   []domain.Region
	items     map[int64]domain.Item
	locations map[int64]domain.Location
	positions map[int64]domain.StockPosition
	dealers   map[int64]domain.Dealer
	orders    []domain.DealerOrder
	transfers map[int64]domain.TransferRecommendation
	sales     []domain.SalesRecord
}

var _ repository.Store = (*Store)(nil)

// New indexes a dataset. Positions without an id are numbered in order.
func New(ds Dataset) *Store {
	s := &Store{
		regions:   append([]domain.Region(nil), ds.Regions...),
		items:     make(map[int64]domain.Item, len(ds.Items)),
		locations: make(map[int64]domain.Location, len(ds.Locations)),
		positions: make(map[int64]domain.StockPosition, len(ds.Positions)),
		dealers:   make(map[int64]domain.Dealer, len(ds.Dealers)),
		orders:    append([]domain.DealerOrder(nil), ds.Orders...),
		transfers: make(map[int64]domain.TransferRecommendation, len(ds.Transfers)),
		sales:     append([]domain.SalesRecord(nil), ds.Sales...),
	}

	for _, it := range ds.Items {
		s.items[it.ID] = it
	}
	for _, loc := range ds.Locations {
		s.locations[loc.ID] = loc
	}
	var nextID int64
	for _, p := range ds.Positions {
		if p.ID > nextID {
			nextID = p.ID
		}
	}
	for _, p := range ds.Positions {
		if p.ID == 0 {
			nextID++
			p.ID = nextID
		}
		s.positions[p.ID] = p
	}
	for _, d := range ds.Dealers {
		s.dealers[d.ID] = d
	}
	for _, t := range ds.Transfers {
		s.transfers[t.ID] = t
	}

	return s
}

// ReadDataset decodes a Dataset JSON file.
func ReadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return ds, nil
}

// LoadFile builds a store from a Dataset JSON file.
func LoadFile(path string) (*Store, error) {
	ds, err := ReadDataset(path)
	if err != nil {
		return nil, err
	}
	return New(ds), nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return it, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return domain.Location{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[id]
	if !ok {
		return domain.Location{}, fmt.Errorf("location %d: %w", id, domain.ErrNotFound)
	}
	return loc, nil
}

func (s *Store) ListRegions(ctx context.Context) ([]domain.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Region(nil), s.regions...), nil
}

func (s *Store) ListPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.StockPosition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	locations := toSet(filter.LocationIDs)
	items := toSet(filter.ItemIDs)

	out := make([]domain.StockPosition, 0)
	for _, p := range s.positions {
		if locations != nil && !locations[p.LocationID] {
			continue
		}
		if items != nil && !items[p.ItemID] {
			continue
		}
		if filter.MaxDaysOfCover != nil && !(p.DaysOfCover < *filter.MaxDaysOfCover) {
			continue
		}
		if filter.MinDaysOfCover != nil && !(p.DaysOfCover > *filter.MinDaysOfCover) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) GetDealer(ctx context.Context, id int64) (domain.Dealer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dealer{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dealers[id]
	if !ok {
		return domain.Dealer{}, fmt.Errorf("dealer %d: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

// ListDealers returns dealers by descending performance score. regionID 0
// means every region.
func (s *Store) ListDealers(ctx context.Context, regionID int64) ([]domain.Dealer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Dealer, 0, len(s.dealers))
	for _, d := range s.dealers {
		if regionID != 0 && d.RegionID != regionID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PerformanceScore != out[j].PerformanceScore {
			return out[i].PerformanceScore > out[j].PerformanceScore
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) OrderStats(ctx context.Context, dealerID int64, since time.Time) (domain.OrderStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.OrderStats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.OrderStats{TotalSavings: decimal.Zero, DeliveredRevenue: decimal.Zero}
	distinct := map[int64]bool{}

	for _, o := range s.orders {
		if o.DealerID != dealerID {
			continue
		}
		stats.TotalOrders++
		distinct[o.ItemID] = true

		if o.IsAISuggested {
			stats.AISuggested++
			stats.TotalSavings = stats.TotalSavings.Add(o.SavingsAmount)
			if o.Status == domain.OrderRecommended {
				stats.AIPending++
			}
		}
		if o.Status == domain.OrderDelivered {
			stats.DeliveredOrders++
			if !o.OrderDate.Before(since) {
				price := s.items[o.ItemID].MRP
				stats.DeliveredRevenue = stats.DeliveredRevenue.Add(price.Mul(decimal.NewFromInt(int64(o.Quantity))))
			}
		}
	}
	stats.DistinctItems = len(distinct)

	return stats, nil
}

func (s *Store) GetTransfer(ctx context.Context, id int64) (domain.TransferRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.TransferRecommendation{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transfers[id]
	if !ok {
		return domain.TransferRecommendation{}, fmt.Errorf("transfer %d: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func (s *Store) ListTransfers(ctx context.Context, statuses ...domain.TransferStatus) ([]domain.TransferRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := map[domain.TransferStatus]bool{}
	for _, st := range statuses {
		wanted[st] = true
	}

	out := make([]domain.TransferRecommendation, 0)
	for _, t := range s.transfers {
		if len(wanted) > 0 && !wanted[t.Status] {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ApplyTransfer(ctx context.Context, id int64, apply repository.ApplyFunc) (domain.TransferApproval, error) {
	if err := ctx.Err(); err != nil {
		return domain.TransferApproval{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[id]
	if !ok {
		return domain.TransferApproval{}, fmt.Errorf("transfer %d: %w", id, domain.ErrNotFound)
	}

	src, ok := s.positionAt(t.FromLocationID, t.ItemID)
	if !ok {
		return domain.TransferApproval{}, fmt.Errorf("source position location %d item %d: %w", t.FromLocationID, t.ItemID, domain.ErrNotFound)
	}
	dst, ok := s.positionAt(t.ToLocationID, t.ItemID)
	if !ok {
		return domain.TransferApproval{}, fmt.Errorf("destination position location %d item %d: %w", t.ToLocationID, t.ItemID, domain.ErrNotFound)
	}

	next, err := apply(domain.TransferApproval{Transfer: t, Source: src, Destination: dst})
	if err != nil {
		return domain.TransferApproval{}, err
	}

	s.transfers[id] = next.Transfer
	s.positions[next.Source.ID] = next.Source
	s.positions[next.Destination.ID] = next.Destination

	return next, nil
}

func (s *Store) positionAt(locationID, itemID int64) (domain.StockPosition, bool) {
	for _, p := range s.positions {
		if p.LocationID == locationID && p.ItemID == itemID {
			return p, true
		}
	}
	return domain.StockPosition{}, false
}

func (s *Store) ListSales(ctx context.Context, itemID, regionID int64, from, to time.Time) ([]domain.SalesRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SalesRecord, 0)
	for _, r := range s.sales {
		if r.ItemID != itemID || r.RegionID != regionID {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// InsertSales adds daily sales rows, replacing any row for the same item,
// region and date.
func (s *Store) InsertSales(ctx context.Context, records []domain.SalesRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		replaced := false
		for i, existing := range s.sales {
			if existing.ItemID == rec.ItemID && existing.RegionID == rec.RegionID && existing.Date.Equal(rec.Date) {
				s.sales[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			s.sales = append(s.sales, rec)
		}
	}
	return nil
}

func (s *Store) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, r := range s.sales {
		if !r.Date.Before(since) {
			total = total.Add(r.Revenue)
		}
	}
	return total, nil
}

func (s *Store) RevenueByRegion(ctx context.Context) (map[int64]decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := map[int64]decimal.Decimal{}
	for _, r := range s.sales {
		totals[r.RegionID] = totals[r.RegionID].Add(r.Revenue)
	}
	return totals, nil
}

func (s *Store) TopItems(ctx context.Context, since time.Time, limit int) ([]domain.ItemSales, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	byItem := map[int64]*domain.ItemSales{}
	for _, r := range s.sales {
		if r.Date.Before(since) {
			continue
		}
		agg, ok := byItem[r.ItemID]
		if !ok {
			it := s.items[r.ItemID]
			agg = &domain.ItemSales{ItemID: r.ItemID, ItemCode: it.Code, ItemName: it.Name, Size: it.Size, TotalRevenue: decimal.Zero}
			byItem[r.ItemID] = agg
		}
		agg.TotalRevenue = agg.TotalRevenue.Add(r.Revenue)
		agg.TotalQuantity += r.QuantitySold
	}

	out := make([]domain.ItemSales, 0, len(byItem))
	for _, agg := range byItem {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].ItemID < out[j].ItemID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func toSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
