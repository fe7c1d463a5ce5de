package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/recommendation"
	"github.com/paintflow/inventory-engine/internal/repository/memory"
)

// newTestStore connects to PAINTFLOW_TEST_DATABASE_URL and seeds the sample
// dataset. The test is skipped when the variable is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newTestStoreWith(t, memory.SampleDataset())
}

func newTestStoreWith(t *testing.T, ds memory.Dataset) *Store {
	t.Helper()
	dsn := os.Getenv("PAINTFLOW_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PAINTFLOW_TEST_DATABASE_URL not set")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	db := Wrap(conn)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.Seed(ctx, ds))

	return NewStore(db)
}

func TestStoreReads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 6)

	_, err = store.GetLocation(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	maxCover := 3.0
	critical, err := store.ListPositions(ctx, domain.PositionFilter{MaxDaysOfCover: &maxCover})
	require.NoError(t, err)
	assert.Len(t, critical, 3)

	stats, err := store.OrderStats(ctx, 1, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalOrders)
	assert.True(t, decimal.NewFromInt(9000).Equal(stats.DeliveredRevenue))

	revenue, err := store.RevenueSince(ctx, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80950).Equal(revenue))

	byRegion, err := store.RevenueByRegion(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(52050).Equal(byRegion[1]))
	assert.True(t, decimal.NewFromInt(15400).Equal(byRegion[3]))

	pending, err := store.ListTransfers(ctx, domain.TransferPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestApplyTransferConcurrentApprovals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ApplyTransfer(ctx, 1, func(current domain.TransferApproval) (domain.TransferApproval, error) {
				return recommendation.ApplyApproval(current, now)
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)

	positions, err := store.ListPositions(ctx, domain.PositionFilter{ItemIDs: []int64{1}, LocationIDs: []int64{1, 2}})
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, 412, positions[0].CurrentStock+positions[1].CurrentStock)

	transfer, err := store.GetTransfer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferInTransit, transfer.Status)
}

func TestApplyTransferRejectsSameLocation(t *testing.T) {
	ds := memory.SampleDataset()
	ds.Transfers = append(ds.Transfers, domain.TransferRecommendation{
		ID: 99, ItemID: 1, FromLocationID: 2, ToLocationID: 2, Quantity: 40, Status: domain.TransferPending,
	})
	store := newTestStoreWith(t, ds)
	ctx := context.Background()

	_, err := store.ApplyTransfer(ctx, 99, func(current domain.TransferApproval) (domain.TransferApproval, error) {
		return recommendation.ApplyApproval(current, time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC))
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	positions, err := store.ListPositions(ctx, domain.PositionFilter{ItemIDs: []int64{1}, LocationIDs: []int64{2}})
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, 400, positions[0].CurrentStock)
}
