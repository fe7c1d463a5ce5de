package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/paintflow/inventory-engine/internal/domain"
)

const (
	itemColumns     = `id, sku_code, name, size, category, is_trending, unit_cost, mrp`
	locationColumns = `id, code, name, city, state, region_id, capacity_litres`
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.db, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (r *catalogRepository) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	var item domain.Item
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return domain.Item{}, notFound(err, "item %d", id)
	}
	return item, nil
}

func (r *catalogRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locations := make([]domain.Location, 0)
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.db, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (r *catalogRepository) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	var loc domain.Location
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	if err := r.db.GetContext(ctx, &loc, query, id); err != nil {
		return domain.Location{}, notFound(err, "location %d", id)
	}
	return loc, nil
}

func (r *catalogRepository) ListRegions(ctx context.Context) ([]domain.Region, error) {
	regions := make([]domain.Region, 0)
	if err := sqlx.SelectContext(ctx, r.db, &regions, `SELECT id, name FROM regions ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return regions, nil
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound and wraps anything else.
func notFound(err error, format string, args ...interface{}) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
