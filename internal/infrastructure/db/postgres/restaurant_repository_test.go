package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

var restaurantCols = []string{"id", "owner_id", "name", "location", "rating", "created_at", "updated_at"}

func TestRestaurantRepository_ListByOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepository(db)
	owner := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)FROM\s+restaurants\s+WHERE\s+owner_id\s*=\s*\$1.*OFFSET\s+\$2\s+LIMIT\s+\$3`).
		WithArgs(owner, 0, 10).
		WillReturnRows(sqlmock.NewRows(restaurantCols).
			AddRow(uuid.NewString(), owner.String(), "Pho", "Main St", 4.5, now, now).
			AddRow(uuid.NewString(), owner.String(), "Taco", nil, nil, now, now))

	out, err := repo.ListByOwner(context.Background(), owner, ports.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Main St", *out[0].Location)
	assert.Equal(t, 4.5, *out[0].Rating)
	assert.Nil(t, out[1].Location)
	assert.Nil(t, out[1].Rating)
}

func TestRestaurantRepository_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepository(db)
	id := uuid.New()
	name := "New"

	mock.ExpectQuery(`(?s)UPDATE\s+restaurants.*COALESCE\(\$2, name\).*RETURNING`).
		WithArgs(id, name, nil, nil).
		WillReturnRows(sqlmock.NewRows(restaurantCols))

	_, err := repo.Update(context.Background(), id, ports.RestaurantPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestRestaurantRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE\s+FROM\s+restaurants`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+restaurants`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), domain.ErrRestaurantNotFound)
}

func TestMenuItemRepository_PriceAsText(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMenuItemRepository(db)
	menuID, itemID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT\s+id, menu_id, name, description, price::text.*FROM\s+menu_items\s+WHERE\s+id\s*=\s*\$1\s+AND\s+menu_id\s*=\s*\$2`).
		WithArgs(itemID, menuID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "menu_id", "name", "description", "price", "created_at", "updated_at"}).
			AddRow(itemID.String(), menuID.String(), "Tea", nil, "2.50", now, now))

	item, err := repo.FindByID(context.Background(), menuID, itemID)
	require.NoError(t, err)
	assert.Equal(t, "2.50", item.Price)
	assert.Nil(t, item.Description)
}

func TestMenuRepository_ScopedToRestaurant(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMenuRepository(db)
	rid, mid := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM\s+menus\s+WHERE\s+id\s*=\s*\$1\s+AND\s+restaurant_id\s*=\s*\$2`).
		WithArgs(mid, rid).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "kind", "created_at", "updated_at"}))

	_, err := repo.FindByID(context.Background(), rid, mid)
	assert.ErrorIs(t, err, domain.ErrMenuNotFound)
}

func TestMenuItemRepository_CreateMany(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMenuItemRepository(db)
	menuID := uuid.New()
	now := time.Now().UTC()
	desc := "hot"
	items := []*domain.MenuItem{
		{ID: uuid.New(), MenuID: menuID, Name: "Tea", Description: &desc, Price: "2.50", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), MenuID: menuID, Name: "Cake", Price: "4", CreatedAt: now, UpdatedAt: now},
	}

	mock.ExpectExec(`(?s)INSERT INTO menu_items .* VALUES \(\$1, \$2, \$3, \$4, \$5::numeric, \$6, \$7\), \(\$8, \$9, \$10, \$11, \$12::numeric, \$13, \$14\)$`).
		WithArgs(
			items[0].ID, menuID, "Tea", sqlmock.AnyArg(), "2.50", now, now,
			items[1].ID, menuID, "Cake", sqlmock.AnyArg(), "4", now, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.CreateMany(context.Background(), items))
}

func TestMenuItemRepository_CreateMany_Failure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMenuItemRepository(db)
	item := &domain.MenuItem{ID: uuid.New(), MenuID: uuid.New(), Name: "Tea", Price: "1"}

	mock.ExpectExec(`INSERT INTO menu_items`).WillReturnError(errors.New("fk violation"))

	err := repo.CreateMany(context.Background(), []*domain.MenuItem{item})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert menu items")
}

func TestMenuItemRepository_CreateMany_Empty(t *testing.T) {
	db, _ := newMock(t)
	require.NoError(t, NewMenuItemRepository(db).CreateMany(context.Background(), nil))
}
