package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/paintflow/inventory-engine/internal/domain"
)

const positionColumns = `id, location_id, item_id, current_stock, reorder_point, max_capacity, days_of_cover, last_updated`

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.StockPosition, error) {
	where, args := buildPositionFilterClause(filter, "", 1)
	query := `SELECT ` + positionColumns + ` FROM stock_positions` + where + ` ORDER BY id`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	positions := make([]domain.StockPosition, 0)
	if err := sqlx.SelectContext(ctx, r.db, &positions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list stock positions: %w", err)
	}
	return positions, nil
}
