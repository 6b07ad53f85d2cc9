package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

// MenuItemRepository implements ports.MenuItemRepository over DBTX. Prices
// travel as text so NUMERIC values keep their exact decimal form.
type MenuItemRepository struct {
	db DBTX
}

func NewMenuItemRepository(db DBTX) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

const menuItemSelect = `id, menu_id, name, description, price::text, created_at, updated_at`

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var (
		item domain.MenuItem
		desc sql.NullString
	)
	if err := row.Scan(&item.ID, &item.MenuID, &item.Name, &desc, &item.Price, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Description = stringPtr(desc)
	return &item, nil
}

func (r *MenuItemRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, menu_id, name, description, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		item.ID, item.MenuID, item.Name, nullString(item.Description), item.Price, item.CreatedAt, item.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// CreateMany writes all items with a single INSERT, so either every row lands
// or none does.
func (r *MenuItemRepository) CreateMany(ctx context.Context, items []*domain.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`INSERT INTO menu_items (id, menu_id, name, description, price, created_at, updated_at) VALUES `)
	args := make([]any, 0, len(items)*7)
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d::numeric, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7)
		args = append(args, item.ID, item.MenuID, item.Name, nullString(item.Description), item.Price, item.CreatedAt, item.UpdatedAt)
	}
	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("insert menu items: %w", err)
	}
	return nil
}

func (r *MenuItemRepository) FindByID(ctx context.Context, menuID, id uuid.UUID) (*domain.MenuItem, error) {
	query := `SELECT ` + menuItemSelect + ` FROM menu_items WHERE id = $1 AND menu_id = $2`
	item, err := scanMenuItem(r.db.QueryRowContext(ctx, query, id, menuID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return item, nil
}

func (r *MenuItemRepository) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*domain.MenuItem, error) {
	query := `SELECT ` + menuItemSelect + ` FROM menu_items WHERE menu_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, menuID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	out := []*domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return out, nil
}

func (r *MenuItemRepository) Update(ctx context.Context, menuID, id uuid.UUID, patch ports.MenuItemPatch) (*domain.MenuItem, error) {
	query := `
		UPDATE menu_items
		SET name        = COALESCE($3, name),
		    description = COALESCE($4, description),
		    price       = COALESCE($5::numeric, price),
		    updated_at  = now()
		WHERE id = $1 AND menu_id = $2
		RETURNING ` + menuItemSelect
	item, err := scanMenuItem(r.db.QueryRowContext(ctx, query,
		id, menuID, nullString(patch.Name), nullString(patch.Description), nullString(patch.Price),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return item, nil
}

func (r *MenuItemRepository) Delete(ctx context.Context, menuID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1 AND menu_id = $2`, id, menuID)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return expectOne(res, domain.ErrMenuItemNotFound)
}

var _ ports.MenuItemRepository = (*MenuItemRepository)(nil)
