package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

type stubMenuRepo struct {
	byID map[uuid.UUID]*domain.Menu
}

func (r *stubMenuRepo) Create(_ context.Context, m *domain.Menu) error {
	clone := *m
	r.byID[m.ID] = &clone
	return nil
}

func (r *stubMenuRepo) FindByID(_ context.Context, restaurantID, id uuid.UUID) (*domain.Menu, error) {
	m, ok := r.byID[id]
	if !ok || m.RestaurantID != restaurantID {
		return nil, domain.ErrMenuNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMenuRepo) ListByRestaurant(_ context.Context, restaurantID uuid.UUID) ([]*domain.Menu, error) {
	var out []*domain.Menu
	for _, m := range r.byID {
		if m.RestaurantID == restaurantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMenuRepo) UpdateKind(ctx context.Context, restaurantID, id uuid.UUID, kind string) (*domain.Menu, error) {
	if _, err := r.FindByID(ctx, restaurantID, id); err != nil {
		return nil, err
	}
	r.byID[id].Kind = kind
	clone := *r.byID[id]
	return &clone, nil
}

func (r *stubMenuRepo) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	if _, err := r.FindByID(ctx, restaurantID, id); err != nil {
		return err
	}
	delete(r.byID, id)
	return nil
}

type stubMenuItemRepo struct {
	byID    map[uuid.UUID]*domain.MenuItem
	manyErr error
}

func (r *stubMenuItemRepo) Create(_ context.Context, item *domain.MenuItem) error {
	clone := *item
	r.byID[item.ID] = &clone
	return nil
}

func (r *stubMenuItemRepo) CreateMany(ctx context.Context, items []*domain.MenuItem) error {
	if r.manyErr != nil {
		return r.manyErr
	}
	for _, item := range items {
		_ = r.Create(ctx, item)
	}
	return nil
}

func (r *stubMenuItemRepo) FindByID(_ context.Context, menuID, id uuid.UUID) (*domain.MenuItem, error) {
	item, ok := r.byID[id]
	if !ok || item.MenuID != menuID {
		return nil, domain.ErrMenuItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *stubMenuItemRepo) ListByMenu(_ context.Context, menuID uuid.UUID) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, item := range r.byID {
		if item.MenuID == menuID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubMenuItemRepo) Update(ctx context.Context, menuID, id uuid.UUID, patch ports.MenuItemPatch) (*domain.MenuItem, error) {
	if _, err := r.FindByID(ctx, menuID, id); err != nil {
		return nil, err
	}
	item := r.byID[id]
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Description != nil {
		item.Description = patch.Description
	}
	clone := *item
	return &clone, nil
}

func (r *stubMenuItemRepo) Delete(ctx context.Context, menuID, id uuid.UUID) error {
	if _, err := r.FindByID(ctx, menuID, id); err != nil {
		return err
	}
	delete(r.byID, id)
	return nil
}

type menuFixture struct {
	svc        ports.MenuService
	owner      uuid.UUID
	restaurant *domain.Restaurant
	items      *stubMenuItemRepo
}

func newMenuFixture(t *testing.T) *menuFixture {
	t.Helper()
	restaurants := newStubRestaurantRepo()
	owner := uuid.New()
	r, err := NewRestaurantService(restaurants, zerolog.Nop()).
		Create(context.Background(), owner, ports.RestaurantInput{Name: "Diner"})
	require.NoError(t, err)

	items := &stubMenuItemRepo{byID: make(map[uuid.UUID]*domain.MenuItem)}
	svc := NewMenuService(restaurants, &stubMenuRepo{byID: make(map[uuid.UUID]*domain.Menu)}, items, zerolog.Nop())
	return &menuFixture{svc: svc, owner: owner, restaurant: r, items: items}
}

func TestMenuService_MenuLifecycle(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID

	m, err := f.svc.CreateMenu(ctx, f.owner, rid, " breakfast ")
	require.NoError(t, err)
	assert.Equal(t, "breakfast", m.Kind)

	menus, err := f.svc.ListMenus(ctx, rid)
	require.NoError(t, err)
	assert.Len(t, menus, 1)

	m, err = f.svc.UpdateMenu(ctx, f.owner, rid, m.ID, "brunch")
	require.NoError(t, err)
	assert.Equal(t, "brunch", m.Kind)

	require.NoError(t, f.svc.DeleteMenu(ctx, f.owner, rid, m.ID))
	_, err = f.svc.GetMenu(ctx, rid, m.ID)
	assert.ErrorIs(t, err, domain.ErrMenuNotFound)
}

func TestMenuService_RejectsStrangers(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID
	stranger := uuid.New()

	_, err := f.svc.CreateMenu(ctx, stranger, rid, "lunch")
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	m, err := f.svc.CreateMenu(ctx, f.owner, rid, "lunch")
	require.NoError(t, err)

	_, err = f.svc.CreateItem(ctx, stranger, rid, m.ID, ports.MenuItemInput{Name: "Soup", Price: "4.50"})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
	assert.Empty(t, f.items.byID)
}

func TestMenuService_ListMenusUnknownRestaurant(t *testing.T) {
	f := newMenuFixture(t)
	_, err := f.svc.ListMenus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestMenuService_ItemLifecycle(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID

	m, err := f.svc.CreateMenu(ctx, f.owner, rid, "drinks")
	require.NoError(t, err)

	item, err := f.svc.CreateItem(ctx, f.owner, rid, m.ID, ports.MenuItemInput{Name: "Tea", Price: "2.5"})
	require.NoError(t, err)
	assert.Equal(t, "2.5", item.Price)

	items, err := f.svc.ListItems(ctx, rid, m.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	price := "3.00"
	item, err = f.svc.UpdateItem(ctx, f.owner, rid, m.ID, item.ID, ports.MenuItemPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "3.00", item.Price)

	got, err := f.svc.GetItem(ctx, rid, m.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tea", got.Name)

	// item lookups are scoped to the restaurant's menu
	_, err = f.svc.GetItem(ctx, uuid.New(), m.ID, item.ID)
	assert.ErrorIs(t, err, domain.ErrMenuNotFound)

	require.NoError(t, f.svc.DeleteItem(ctx, f.owner, rid, m.ID, item.ID))
	_, err = f.svc.GetItem(ctx, rid, m.ID, item.ID)
	assert.ErrorIs(t, err, domain.ErrMenuItemNotFound)
}

func TestMenuService_ItemValidation(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID
	m, err := f.svc.CreateMenu(ctx, f.owner, rid, "mains")
	require.NoError(t, err)

	for _, price := range []string{"", "-1", "1.234", "abc", "123456789.00"} {
		_, err := f.svc.CreateItem(ctx, f.owner, rid, m.ID, ports.MenuItemInput{Name: "Steak", Price: price})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), price)
	}
	_, err = f.svc.CreateItem(ctx, f.owner, rid, m.ID, ports.MenuItemInput{Name: " ", Price: "1"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.svc.CreateMenu(ctx, f.owner, rid, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestMenuService_CreateItems(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID
	m, err := f.svc.CreateMenu(ctx, f.owner, rid, "desserts")
	require.NoError(t, err)

	desc := "warm"
	items, err := f.svc.CreateItems(ctx, f.owner, rid, m.ID, []ports.MenuItemInput{
		{Name: " Pie ", Description: &desc, Price: "5.25"},
		{Name: "Flan", Price: "4"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Pie", items[0].Name)
	assert.Equal(t, m.ID, items[1].MenuID)
	assert.NotEqual(t, items[0].ID, items[1].ID)

	listed, err := f.svc.ListItems(ctx, rid, m.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestMenuService_CreateItems_AllOrNothing(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID
	m, err := f.svc.CreateMenu(ctx, f.owner, rid, "desserts")
	require.NoError(t, err)

	_, err = f.svc.CreateItems(ctx, f.owner, rid, m.ID, nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.svc.CreateItems(ctx, f.owner, rid, m.ID, []ports.MenuItemInput{
		{Name: "Pie", Price: "5"},
		{Name: "Flan", Price: "-4"},
	})
	require.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Item 2:")
	assert.Empty(t, f.items.byID)

	_, err = f.svc.CreateItems(ctx, uuid.New(), rid, m.ID, []ports.MenuItemInput{{Name: "Pie", Price: "5"}})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
	assert.Empty(t, f.items.byID)

	f.items.manyErr = errors.New("connection reset")
	_, err = f.svc.CreateItems(ctx, f.owner, rid, m.ID, []ports.MenuItemInput{{Name: "Pie", Price: "5"}})
	assert.Equal(t, domain.KindDatabase, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Failed to create menu items")
}
