package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/paintflow/inventory-engine/internal/domain"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

// ListSales returns the daily sales of an item in a region between from and
// to inclusive, oldest first.
func (r *salesRepository) ListSales(ctx context.Context, itemID, regionID int64, from, to time.Time) ([]domain.SalesRecord, error) {
	query := `
		SELECT item_id, region_id, date, quantity_sold, revenue
		FROM sales_history
		WHERE item_id = $1 AND region_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date`

	records := make([]domain.SalesRecord, 0)
	if err := sqlx.SelectContext(ctx, r.db, &records, query, itemID, regionID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list sales of item %d: %w", itemID, err)
	}
	return records, nil
}

func (r *salesRepository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(revenue), 0) FROM sales_history WHERE date >= $1`
	if err := r.db.GetContext(ctx, &total, query, since); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

func (r *salesRepository) RevenueByRegion(ctx context.Context) (map[int64]decimal.Decimal, error) {
	var rows []struct {
		RegionID int64           `db:"region_id"`
		Revenue  decimal.Decimal `db:"revenue"`
	}
	query := `SELECT region_id, SUM(revenue) AS revenue FROM sales_history GROUP BY region_id`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to sum revenue by region: %w", err)
	}

	totals := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.RegionID] = row.Revenue
	}
	return totals, nil
}

func (r *salesRepository) TopItems(ctx context.Context, since time.Time, limit int) ([]domain.ItemSales, error) {
	query := `
		SELECT
			s.item_id,
			i.sku_code,
			i.name,
			i.size,
			SUM(s.revenue) AS total_revenue,
			SUM(s.quantity_sold) AS total_quantity
		FROM sales_history s
		JOIN items i ON i.id = s.item_id
		WHERE s.date >= $1
		GROUP BY s.item_id, i.sku_code, i.name, i.size
		ORDER BY total_revenue DESC, s.item_id
		LIMIT $2`

	rows := make([]domain.ItemSales, 0)
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, since, limit); err != nil {
		return nil, fmt.Errorf("failed to rank items: %w", err)
	}
	return rows, nil
}

// InsertSales upserts daily sales rows in one transaction.
func (r *salesRepository) InsertSales(ctx context.Context, records []domain.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales_history (item_id, region_id, date, quantity_sold, revenue)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (item_id, region_id, date)
			DO UPDATE SET quantity_sold = EXCLUDED.quantity_sold, revenue = EXCLUDED.revenue`)
		if err != nil {
			return fmt.Errorf("failed to prepare sales insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range records {
			if _, err := stmt.ExecContext(ctx, s.ItemID, s.RegionID, s.Date, s.QuantitySold, s.Revenue); err != nil {
				return fmt.Errorf("failed to insert sales of item %d on %s: %w", s.ItemID, s.Date.Format("2006-01-02"), err)
			}
		}
		return nil
	})
}
