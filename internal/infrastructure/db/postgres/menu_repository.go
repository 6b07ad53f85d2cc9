package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

// MenuRepository implements ports.MenuRepository over DBTX. Every lookup is
// scoped to the owning restaurant.
type MenuRepository struct {
	db DBTX
}

func NewMenuRepository(db DBTX) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, restaurant_id, kind, created_at, updated_at`

func scanMenu(row rowScanner) (*domain.Menu, error) {
	var m domain.Menu
	if err := row.Scan(&m.ID, &m.RestaurantID, &m.Kind, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) Create(ctx context.Context, m *domain.Menu) error {
	query := `INSERT INTO menus (` + menuColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.RestaurantID, m.Kind, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("insert menu: %w", err)
	}
	return nil
}

func (r *MenuRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*domain.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus WHERE id = $1 AND restaurant_id = $2`
	m, err := scanMenu(r.db.QueryRowContext(ctx, query, id, restaurantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, fmt.Errorf("find menu: %w", err)
	}
	return m, nil
}

func (r *MenuRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*domain.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus WHERE restaurant_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	defer rows.Close()

	out := []*domain.Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return out, nil
}

func (r *MenuRepository) UpdateKind(ctx context.Context, restaurantID, id uuid.UUID, kind string) (*domain.Menu, error) {
	query := `
		UPDATE menus SET kind = $3, updated_at = now()
		WHERE id = $1 AND restaurant_id = $2
		RETURNING ` + menuColumns
	m, err := scanMenu(r.db.QueryRowContext(ctx, query, id, restaurantID, kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, fmt.Errorf("update menu: %w", err)
	}
	return m, nil
}

func (r *MenuRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
	if err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	return expectOne(res, domain.ErrMenuNotFound)
}

var _ ports.MenuRepository = (*MenuRepository)(nil)
