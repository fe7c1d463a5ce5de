package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/repository/memory"
)

var seededTables = []string{
	"regions", "locations", "items", "stock_positions",
	"dealers", "dealer_orders", "transfer_recommendations",
}

// Seed replaces the contents of every table with the dataset in one
// transaction. Ids are kept so references inside the dataset stay valid.
func (db *DB) Seed(ctx context.Context, ds memory.Dataset) error {
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `TRUNCATE sales_history, transfer_recommendations, dealer_orders, dealers,
			stock_positions, items, locations, regions RESTART IDENTITY CASCADE`); err != nil {
			return fmt.Errorf("failed to truncate tables: %w", err)
		}

		exec := func(query string, args ...interface{}) error {
			_, err := tx.ExecContext(ctx, query, args...)
			return err
		}

		for _, r := range ds.Regions {
			if err := exec(`INSERT INTO regions (id, name) VALUES ($1, $2)`, r.ID, r.Name); err != nil {
				return fmt.Errorf("failed to insert region %d: %w", r.ID, err)
			}
		}
		for _, l := range ds.Locations {
			if err := exec(`INSERT INTO locations (id, code, name, city, state, region_id, capacity_litres)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				l.ID, l.Code, l.Name, l.City, l.State, l.RegionID, l.CapacityLitres); err != nil {
				return fmt.Errorf("failed to insert location %d: %w", l.ID, err)
			}
		}
		for _, i := range ds.Items {
			if err := exec(`INSERT INTO items (id, sku_code, name, size, category, is_trending, unit_cost, mrp)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				i.ID, i.Code, i.Name, i.Size, i.Category, i.IsTrending, i.UnitCost, i.MRP); err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i.ID, err)
			}
		}
		for _, p := range ds.Positions {
			if err := exec(`INSERT INTO stock_positions (id, location_id, item_id, current_stock, reorder_point, max_capacity, days_of_cover, last_updated)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				p.ID, p.LocationID, p.ItemID, p.CurrentStock, p.ReorderPoint, p.MaxCapacity, p.DaysOfCover, p.LastUpdated); err != nil {
				return fmt.Errorf("failed to insert stock position %d: %w", p.ID, err)
			}
		}
		for _, d := range ds.Dealers {
			if err := exec(`INSERT INTO dealers (id, code, name, city, state, tier, region_id, location_id, performance_score)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				d.ID, d.Code, d.Name, d.City, d.State, d.Tier, d.RegionID, d.LocationID, d.PerformanceScore); err != nil {
				return fmt.Errorf("failed to insert dealer %d: %w", d.ID, err)
			}
		}
		for _, o := range ds.Orders {
			if err := exec(`INSERT INTO dealer_orders (id, dealer_id, item_id, quantity, status, is_ai_suggested, savings_amount, order_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				o.ID, o.DealerID, o.ItemID, o.Quantity, string(o.Status), o.IsAISuggested, o.SavingsAmount, o.OrderDate); err != nil {
				return fmt.Errorf("failed to insert dealer order %d: %w", o.ID, err)
			}
		}
		for _, t := range ds.Transfers {
			if err := exec(`INSERT INTO transfer_recommendations (id, from_location_id, to_location_id, item_id, quantity, status, reason, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				t.ID, t.FromLocationID, t.ToLocationID, t.ItemID, t.Quantity, string(t.Status), t.Reason, t.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert transfer %d: %w", t.ID, err)
			}
		}
		for _, s := range ds.Sales {
			if err := exec(`INSERT INTO sales_history (item_id, region_id, date, quantity_sold, revenue) VALUES ($1, $2, $3, $4, $5)`,
				s.ItemID, s.RegionID, s.Date, s.QuantitySold, s.Revenue); err != nil {
				return fmt.Errorf("failed to insert sales of item %d: %w", s.ItemID, err)
			}
		}

		// Explicit ids leave the sequences behind.
		for _, table := range seededTables {
			if err := exec(fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
				table, table)); err != nil {
				return fmt.Errorf("failed to reset sequence of %s: %w", table, err)
			}
		}

		log.Info().
			Int("items", len(ds.Items)).
			Int("locations", len(ds.Locations)).
			Int("positions", len(ds.Positions)).
			Int("dealers", len(ds.Dealers)).
			Int("transfers", len(ds.Transfers)).
			Int("sales", len(ds.Sales)).
			Msg("dataset seeded")
		return nil
	})
}
