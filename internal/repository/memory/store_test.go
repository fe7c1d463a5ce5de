package memory

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintflow/inventory-engine/internal/domain"
)

func TestListPositionsFilter(t *testing.T) {
	s := New(SampleDataset())
	ctx := context.Background()

	maxCover := 14.0
	got, err := s.ListPositions(ctx, domain.PositionFilter{LocationIDs: []int64{1}, MaxDaysOfCover: &maxCover})
	require.NoError(t, err)

	ids := make([]int64, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	minCover := 90.0
	got, err = s.ListPositions(ctx, domain.PositionFilter{MinDaysOfCover: &minCover, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Greater(t, p.DaysOfCover, 90.0)
	}
}

func TestOrderStats(t *testing.T) {
	s := New(SampleDataset())

	stats, err := s.OrderStats(context.Background(), 1, day("2025-10-01"))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, 2, stats.DeliveredOrders)
	assert.Equal(t, 4, stats.DistinctItems)
	assert.Equal(t, 2, stats.AISuggested)
	assert.Equal(t, 1, stats.AIPending)
	assert.True(t, decimal.NewFromInt(2240).Equal(stats.TotalSavings))
	// only the October delivery counts: 20 x 450
	assert.True(t, decimal.NewFromInt(9000).Equal(stats.DeliveredRevenue))
}

func TestGetMissing(t *testing.T) {
	s := New(SampleDataset())
	ctx := context.Background()

	_, err := s.GetDealer(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetItem(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetLocation(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetTransfer(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTransfersByStatus(t *testing.T) {
	s := New(SampleDataset())

	open, err := s.ListTransfers(context.Background(), domain.TransferPending, domain.TransferApproved)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, int64(1), open[0].ID)

	all, err := s.ListTransfers(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestApplyTransferWritesAll(t *testing.T) {
	s := New(SampleDataset())
	ctx := context.Background()

	_, err := s.ApplyTransfer(ctx, 1, func(cur domain.TransferApproval) (domain.TransferApproval, error) {
		assert.Equal(t, int64(7), cur.Source.ID)
		assert.Equal(t, int64(1), cur.Destination.ID)
		cur.Transfer.Status = domain.TransferInTransit
		cur.Source.CurrentStock -= 60
		cur.Destination.CurrentStock += 60
		return cur, nil
	})
	require.NoError(t, err)

	tr, err := s.GetTransfer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferInTransit, tr.Status)

	positions, err := s.ListPositions(ctx, domain.PositionFilter{ItemIDs: []int64{1}, LocationIDs: []int64{1, 2}})
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, 72, positions[0].CurrentStock)
	assert.Equal(t, 340, positions[1].CurrentStock)
}

func TestApplyTransferAbortLeavesState(t *testing.T) {
	s := New(SampleDataset())
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := s.ApplyTransfer(ctx, 1, func(cur domain.TransferApproval) (domain.TransferApproval, error) {
		return domain.TransferApproval{}, boom
	})
	assert.ErrorIs(t, err, boom)

	tr, err := s.GetTransfer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferPending, tr.Status)
}

func TestApplyTransferMissingPosition(t *testing.T) {
	ds := SampleDataset()
	ds.Transfers = append(ds.Transfers, domain.TransferRecommendation{
		ID: 9, FromLocationID: 1, ToLocationID: 2, ItemID: 42, Quantity: 5, Status: domain.TransferPending,
	})
	s := New(ds)

	called := false
	_, err := s.ApplyTransfer(context.Background(), 9, func(cur domain.TransferApproval) (domain.TransferApproval, error) {
		called = true
		return cur, nil
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, called)
}

func TestSalesQueries(t *testing.T) {
	s := New(SampleDataset())
	ctx := context.Background()

	sales, err := s.ListSales(ctx, 1, 1, day("2025-10-01"), day("2025-10-10"))
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	revenue, err := s.RevenueSince(ctx, day("2025-10-01"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80950).Equal(revenue), revenue.String())

	byRegion, err := s.RevenueByRegion(ctx)
	require.NoError(t, err)
	require.Len(t, byRegion, 3)
	assert.True(t, decimal.NewFromInt(52050).Equal(byRegion[1]), byRegion[1].String())
	assert.True(t, decimal.NewFromInt(21600).Equal(byRegion[2]))

	top, err := s.TopItems(ctx, day("2025-10-01"), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int64{3, 6, 1}, []int64{top[0].ItemID, top[1].ItemID, top[2].ItemID})
	assert.Equal(t, 47, top[2].TotalQuantity)
	assert.Equal(t, "Bridal Red", top[2].ItemName)
}

func TestLoadFile(t *testing.T) {
	data, err := json.Marshal(SampleDataset())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)

	item, err := s.GetItem(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, item.IsTrending)
	assert.True(t, decimal.NewFromInt(3800).Equal(item.MRP))

	tr, err := s.GetTransfer(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, tr.CreatedAt.Equal(time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
