package recommendation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintflow/inventory-engine/internal/cache"
	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/repository/memory"
)

var approvalTime = time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)

func approval(status domain.TransferStatus, qty, src, dst int) domain.TransferApproval {
	return domain.TransferApproval{
		Transfer:    domain.TransferRecommendation{ID: 1, FromLocationID: 2, ToLocationID: 1, Quantity: qty, Status: status},
		Source:      domain.StockPosition{ID: 10, CurrentStock: src},
		Destination: domain.StockPosition{ID: 20, CurrentStock: dst},
	}
}

func TestApplyApprovalConservesStock(t *testing.T) {
	cases := []struct {
		qty, src, dst int
	}{
		{60, 400, 12},
		{60, 10, 5},
		{30, 30, 0},
		{1, 0, 7},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("q%d_s%d_d%d", tc.qty, tc.src, tc.dst), func(t *testing.T) {
			next, err := ApplyApproval(approval(domain.TransferPending, tc.qty, tc.src, tc.dst), approvalTime)
			require.NoError(t, err)

			assert.Equal(t, tc.src+tc.dst, next.Source.CurrentStock+next.Destination.CurrentStock)
			assert.Equal(t, max(0, tc.src-tc.qty), next.Source.CurrentStock)
			assert.Equal(t, domain.TransferInTransit, next.Transfer.Status)
			assert.Equal(t, approvalTime, next.Source.LastUpdated)
		})
	}
}

func TestApplyApprovalRejectsSameLocation(t *testing.T) {
	current := approval(domain.TransferPending, 40, 100, 100)
	current.Transfer.ToLocationID = current.Transfer.FromLocationID
	current.Destination = current.Source

	_, err := ApplyApproval(current, approvalTime)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApproveSameLocationKeepsStock(t *testing.T) {
	store := memory.New(memory.Dataset{
		Items:     []domain.Item{{ID: 1, Name: "Bridal Red"}},
		Locations: []domain.Location{{ID: 5, Name: "Delhi DC"}},
		Positions: []domain.StockPosition{{ID: 1, LocationID: 5, ItemID: 1, CurrentStock: 100}},
		Transfers: []domain.TransferRecommendation{
			{ID: 7, ItemID: 1, FromLocationID: 5, ToLocationID: 5, Quantity: 40, Status: domain.TransferPending},
		},
	})

	_, err := newTransfers(store).Approve(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 100, stockOf(t, store, 5, 1))

	tr, err := store.GetTransfer(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferPending, tr.Status)
}

func TestApplyApprovalDaysOfCover(t *testing.T) {
	next, err := ApplyApproval(approval(domain.TransferApproved, 60, 400, 12), approvalTime)
	require.NoError(t, err)

	// 60/30 = 2 units per day
	assert.Equal(t, 170.0, next.Source.DaysOfCover)
	assert.Equal(t, 36.0, next.Destination.DaysOfCover)

	small, err := ApplyApproval(approval(domain.TransferPending, 15, 100, 3), approvalTime)
	require.NoError(t, err)
	assert.Equal(t, 85.0, small.Source.DaysOfCover)
	assert.Equal(t, 18.0, small.Destination.DaysOfCover)
}

func TestApplyApprovalRejectsProcessed(t *testing.T) {
	for _, status := range []domain.TransferStatus{domain.TransferInTransit, domain.TransferCompleted} {
		_, err := ApplyApproval(approval(status, 10, 100, 0), approvalTime)
		assert.ErrorIs(t, err, domain.ErrConflict, string(status))
	}

	_, err := ApplyApproval(approval(domain.TransferPending, 0, 100, 0), approvalTime)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

func newTransfers(store *memory.Store, opts ...TransferOption) *Transfers {
	return NewTransfers(store, store, clock.NewFixedClock(approvalTime), opts...)
}

func stockOf(t *testing.T, store *memory.Store, loc, item int64) int {
	t.Helper()
	positions, err := store.ListPositions(context.Background(), domain.PositionFilter{LocationIDs: []int64{loc}, ItemIDs: []int64{item}})
	require.NoError(t, err)
	require.Len(t, positions, 1)
	return positions[0].CurrentStock
}

func TestApproveTransfer(t *testing.T) {
	store := memory.New(memory.SampleDataset())
	inv := &countingInvalidator{}
	svc := newTransfers(store, WithInvalidator(inv), WithTransferMetrics(metrics.New()))

	res, err := svc.Approve(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, int64(1), res.TransferID)
	assert.Equal(t, domain.TransferInTransit, res.Status)
	assert.Equal(t, 60, res.Moved)
	assert.Equal(t, 2, res.ETADays)
	assert.Equal(t, "Transfer approved. 60 units of Bridal Red moving from Delhi DC to Mumbai DC. ETA: 2 days.", res.Message)
	assert.Equal(t, 1, inv.calls)

	assert.Equal(t, 340, stockOf(t, store, 2, 1))
	assert.Equal(t, 72, stockOf(t, store, 1, 1))
}

func TestApproveTwiceConflicts(t *testing.T) {
	store := memory.New(memory.SampleDataset())
	svc := newTransfers(store)

	_, err := svc.Approve(context.Background(), 2)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, 40, stockOf(t, store, 3, 6))
	assert.Equal(t, 40, stockOf(t, store, 2, 6))
}

func TestApproveConcurrentlyAppliesOnce(t *testing.T) {
	store := memory.New(memory.SampleDataset())
	svc := newTransfers(store)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 15, conflicts)
	assert.Equal(t, 340, stockOf(t, store, 2, 1))
	assert.Equal(t, 72, stockOf(t, store, 1, 1))
}

func TestApproveUnknownTransfer(t *testing.T) {
	svc := newTransfers(memory.New(memory.SampleDataset()))

	_, err := svc.Approve(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string) (cache.Lock, error) {
	return nil, fmt.Errorf("%w: approval already running", domain.ErrConflict)
}

type recordingLocker struct {
	keys     []string
	released int
}

func (l *recordingLocker) Obtain(_ context.Context, key string) (cache.Lock, error) {
	l.keys = append(l.keys, key)
	return l, nil
}

func (l *recordingLocker) Release(context.Context) error {
	l.released++
	return nil
}

func TestApproveRespectsLock(t *testing.T) {
	store := memory.New(memory.SampleDataset())

	_, err := newTransfers(store, WithLocker(busyLocker{})).Approve(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 400, stockOf(t, store, 2, 1))

	locker := &recordingLocker{}
	_, err = newTransfers(store, WithLocker(locker)).Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"transfer:approve:1"}, locker.keys)
	assert.Equal(t, 1, locker.released)
}

func TestListTransfers(t *testing.T) {
	svc := newTransfers(memory.New(memory.SampleDataset()))

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	first := views[0]
	assert.Equal(t, "Delhi DC", first.From.Name)
	assert.Equal(t, "Mumbai", first.To.City)
	assert.Equal(t, "IV-BR-1L", first.ItemCode)
	assert.Equal(t, "2025-10-08T00:00:00Z", first.RecommendedAt)
	for _, v := range views {
		assert.NotEqual(t, domain.TransferCompleted, v.Status)
	}
}
