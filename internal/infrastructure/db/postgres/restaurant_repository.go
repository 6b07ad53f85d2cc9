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

// RestaurantRepository implements ports.RestaurantRepository over DBTX.
type RestaurantRepository struct {
	db DBTX
}

func NewRestaurantRepository(db DBTX) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

const restaurantColumns = `id, owner_id, name, location, rating, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*domain.Restaurant, error) {
	var (
		r        domain.Restaurant
		location sql.NullString
		rating   sql.NullFloat64
	)
	if err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &location, &rating, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Location = stringPtr(location)
	if rating.Valid {
		v := rating.Float64
		r.Rating = &v
	}
	return &r, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func (r *RestaurantRepository) Create(ctx context.Context, x *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (` + restaurantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		x.ID, x.OwnerID, x.Name, nullString(x.Location), nullFloat(x.Rating), x.CreatedAt, x.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	x, err := scanRestaurant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return x, nil
}

func (r *RestaurantRepository) List(ctx context.Context, page ports.Page) ([]*domain.Restaurant, error) {
	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`
	return r.list(ctx, query, page.Skip, page.Limit)
}

func (r *RestaurantRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page ports.Page) ([]*domain.Restaurant, error) {
	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants
		WHERE owner_id = $1
		ORDER BY created_at, id
		OFFSET $2 LIMIT $3
	`
	return r.list(ctx, query, ownerID, page.Skip, page.Limit)
}

func (r *RestaurantRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	out := []*domain.Restaurant{}
	for rows.Next() {
		x, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, x)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

func (r *RestaurantRepository) Update(ctx context.Context, id uuid.UUID, patch ports.RestaurantPatch) (*domain.Restaurant, error) {
	query := `
		UPDATE restaurants
		SET name       = COALESCE($2, name),
		    location   = COALESCE($3, location),
		    rating     = COALESCE($4, rating),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + restaurantColumns
	x, err := scanRestaurant(r.db.QueryRowContext(ctx, query,
		id, nullString(patch.Name), nullString(patch.Location), nullFloat(patch.Rating),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return x, nil
}

// Delete removes the restaurant; menus and items go with it by cascade.
func (r *RestaurantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return expectOne(res, domain.ErrRestaurantNotFound)
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
