package postgres

import (
	"context"
	"database/sql"

	"github.com/bitez/platform/internal/core/ports"
)

// Store vends repositories bound either to the pool or to one transaction.
type Store struct {
	db *sql.DB // nil when bound to a transaction
	q  DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

var _ ports.AuthStore = (*Store)(nil)

func (s *Store) Users() ports.UserRepository { return NewUserRepository(s.q) }

func (s *Store) RefreshTokens() ports.RefreshTokenRepository {
	return NewRefreshTokenRepository(s.q)
}

func (s *Store) Restaurants() ports.RestaurantRepository { return NewRestaurantRepository(s.q) }
func (s *Store) Menus() ports.MenuRepository             { return NewMenuRepository(s.q) }
func (s *Store) MenuItems() ports.MenuItemRepository     { return NewMenuItemRepository(s.q) }

// InTx runs fn in a transaction. A store already bound to a transaction
// reuses it.
func (s *Store) InTx(ctx context.Context, fn func(tx ports.AuthStore) error) error {
	if s.db == nil {
		return fn(s)
	}
	return WithTx(ctx, s.db, nil, func(_ context.Context, tx DBTX) error {
		return fn(&Store{q: tx})
	})
}

// Ping reports whether the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}
