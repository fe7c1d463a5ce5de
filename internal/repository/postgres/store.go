package postgres

import "github.com/paintflow/inventory-engine/internal/repository"

// Store is the Postgres implementation of repository.Store.
type Store struct {
	*catalogRepository
	*inventoryRepository
	*dealerRepository
	*transferRepository
	*salesRepository

	db *DB
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *DB) *Store {
	return &Store{
		catalogRepository:   NewCatalogRepository(db),
		inventoryRepository: NewInventoryRepository(db),
		dealerRepository:    NewDealerRepository(db),
		transferRepository:  NewTransferRepository(db),
		salesRepository:     NewSalesRepository(db),
		db:                  db,
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
