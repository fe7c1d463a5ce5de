package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/paintflow/inventory-engine/internal/domain"
)

const dealerColumns = `id, code, name, city, state, tier, region_id, location_id, performance_score`

type dealerRepository struct {
	db *DB
}

func NewDealerRepository(db *DB) *dealerRepository {
	return &dealerRepository{db: db}
}

func (r *dealerRepository) GetDealer(ctx context.Context, id int64) (domain.Dealer, error) {
	var dealer domain.Dealer
	query := `SELECT ` + dealerColumns + ` FROM dealers WHERE id = $1`
	if err := r.db.GetContext(ctx, &dealer, query, id); err != nil {
		return domain.Dealer{}, notFound(err, "dealer %d", id)
	}
	return dealer, nil
}

// ListDealers returns dealers by descending performance score. regionID 0
// lists every region.
func (r *dealerRepository) ListDealers(ctx context.Context, regionID int64) ([]domain.Dealer, error) {
	query := `SELECT ` + dealerColumns + ` FROM dealers`
	var args []interface{}
	if regionID > 0 {
		query += ` WHERE region_id = $1`
		args = append(args, regionID)
	}
	query += ` ORDER BY performance_score DESC, id`

	dealers := make([]domain.Dealer, 0)
	if err := sqlx.SelectContext(ctx, r.db, &dealers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list dealers: %w", err)
	}
	return dealers, nil
}

func (r *dealerRepository) OrderStats(ctx context.Context, dealerID int64, since time.Time) (domain.OrderStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE o.status = $2) AS delivered_orders,
			COUNT(DISTINCT o.item_id) AS distinct_items,
			COUNT(*) FILTER (WHERE o.is_ai_suggested) AS ai_suggested,
			COUNT(*) FILTER (WHERE o.is_ai_suggested AND o.status = $3) AS ai_pending,
			COALESCE(SUM(o.savings_amount) FILTER (WHERE o.is_ai_suggested), 0) AS total_savings,
			COALESCE(SUM(o.quantity * i.mrp) FILTER (WHERE o.status = $2 AND o.order_date >= $4), 0) AS delivered_revenue
		FROM dealer_orders o
		JOIN items i ON i.id = o.item_id
		WHERE o.dealer_id = $1`

	var stats domain.OrderStats
	err := r.db.GetContext(ctx, &stats, query,
		dealerID, string(domain.OrderDelivered), string(domain.OrderRecommended), since)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("failed to aggregate orders of dealer %d: %w", dealerID, err)
	}
	return stats, nil
}
