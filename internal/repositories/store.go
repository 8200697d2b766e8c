package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the per-entity repositories over one database handle.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	// Transaction runs fn against a Store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the gorm implementation of Store.
type GORMStore struct {
	db       *gorm.DB
	users    *GORMUserRepository
	products *GORMProductRepository
	orders   *GORMOrderRepository
}

// NewGORMStore creates a Store whose repositories share db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{
		db:       db,
		users:    NewGORMUserRepository(db),
		products: NewGORMProductRepository(db),
		orders:   NewGORMOrderRepository(db),
	}
}

func (s *GORMStore) Users() UserRepository       { return s.users }
func (s *GORMStore) Products() ProductRepository { return s.products }
func (s *GORMStore) Orders() OrderRepository     { return s.orders }

// Transaction implements Store.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewGORMStore(tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		// begin or commit failed
		return translate("transaction", err)
	}
	return err
}
