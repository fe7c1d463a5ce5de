package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/repository"
)

const transferColumns = `id, from_location_id, to_location_id, item_id, quantity, status, reason, created_at`

type transferRepository struct {
	db *DB
}

func NewTransferRepository(db *DB) *transferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) GetTransfer(ctx context.Context, id int64) (domain.TransferRecommendation, error) {
	var t domain.TransferRecommendation
	query := `SELECT ` + transferColumns + ` FROM transfer_recommendations WHERE id = $1`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return domain.TransferRecommendation{}, notFound(err, "transfer %d", id)
	}
	return t, nil
}

// ListTransfers returns transfers newest first, optionally restricted to
// the given statuses.
func (r *transferRepository) ListTransfers(ctx context.Context, statuses ...domain.TransferStatus) ([]domain.TransferRecommendation, error) {
	where, args := statusArgs(statuses, 1)
	query := `SELECT ` + transferColumns + ` FROM transfer_recommendations` + where + ` ORDER BY created_at DESC, id`

	transfers := make([]domain.TransferRecommendation, 0)
	if err := sqlx.SelectContext(ctx, r.db, &transfers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

// ApplyTransfer row-locks the transfer and both positions with SELECT ... FOR
// UPDATE, so concurrent approvals of the same transfer serialize and the
// second one sees the updated status.
func (r *transferRepository) ApplyTransfer(ctx context.Context, id int64, apply repository.ApplyFunc) (domain.TransferApproval, error) {
	var result domain.TransferApproval

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var current domain.TransferApproval

		row := tx.QueryRowContext(ctx, `SELECT `+transferColumns+` FROM transfer_recommendations WHERE id = $1 FOR UPDATE`, id)
		if err := scanTransfer(row, &current.Transfer); err != nil {
			return notFound(err, "transfer %d", id)
		}

		t := current.Transfer
		source, dest, err := lockPositions(ctx, tx, t)
		if err != nil {
			return err
		}
		current.Source = source
		current.Destination = dest

		next, err := apply(current)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE transfer_recommendations SET status = $1 WHERE id = $2`,
			string(next.Transfer.Status), id); err != nil {
			return fmt.Errorf("failed to update transfer %d: %w", id, err)
		}
		for _, p := range []domain.StockPosition{next.Source, next.Destination} {
			if err := updatePosition(ctx, tx, p); err != nil {
				return err
			}
		}

		result = next
		return nil
	})
	if err != nil {
		return domain.TransferApproval{}, err
	}

	return result, nil
}

// lockPositions locks the source and destination positions in id order.
func lockPositions(ctx context.Context, tx *sql.Tx, t domain.TransferRecommendation) (domain.StockPosition, domain.StockPosition, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+positionColumns+` FROM stock_positions
		WHERE item_id = $1 AND location_id IN ($2, $3)
		ORDER BY id
		FOR UPDATE`,
		t.ItemID, t.FromLocationID, t.ToLocationID)
	if err != nil {
		return domain.StockPosition{}, domain.StockPosition{}, fmt.Errorf("failed to lock positions of transfer %d: %w", t.ID, err)
	}
	defer rows.Close()

	var source, dest *domain.StockPosition
	for rows.Next() {
		var p domain.StockPosition
		if err := rows.Scan(&p.ID, &p.LocationID, &p.ItemID, &p.CurrentStock, &p.ReorderPoint, &p.MaxCapacity, &p.DaysOfCover, &p.LastUpdated); err != nil {
			return domain.StockPosition{}, domain.StockPosition{}, fmt.Errorf("failed to scan position: %w", err)
		}
		if p.LocationID == t.FromLocationID {
			source = &p
		}
		if p.LocationID == t.ToLocationID {
			dest = &p
		}
	}
	if err := rows.Err(); err != nil {
		return domain.StockPosition{}, domain.StockPosition{}, fmt.Errorf("failed to read positions: %w", err)
	}

	if source == nil {
		return domain.StockPosition{}, domain.StockPosition{}, fmt.Errorf("source position of transfer %d: %w", t.ID, domain.ErrNotFound)
	}
	if dest == nil {
		return domain.StockPosition{}, domain.StockPosition{}, fmt.Errorf("destination position of transfer %d: %w", t.ID, domain.ErrNotFound)
	}
	return *source, *dest, nil
}

func updatePosition(ctx context.Context, tx *sql.Tx, p domain.StockPosition) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE stock_positions SET current_stock = $1, days_of_cover = $2, last_updated = $3 WHERE id = $4`,
		p.CurrentStock, p.DaysOfCover, p.LastUpdated, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update stock position %d: %w", p.ID, err)
	}
	return nil
}

func scanTransfer(row *sql.Row, t *domain.TransferRecommendation) error {
	var status string
	if err := row.Scan(&t.ID, &t.FromLocationID, &t.ToLocationID, &t.ItemID, &t.Quantity, &status, &t.Reason, &t.CreatedAt); err != nil {
		return err
	}
	t.Status = domain.TransferStatus(status)
	return nil
}
