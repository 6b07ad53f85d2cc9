package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
)

// Page selects a window of a list. Limit is capped by the service.
type Page struct {
	Skip  int
	Limit int
}

// RestaurantPatch lists the fields to change. Nil fields are left untouched.
type RestaurantPatch struct {
	Name     *string
	Location *string
	Rating   *float64
}

type RestaurantRepository interface {
	Create(ctx context.Context, r *domain.Restaurant) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error)
	List(ctx context.Context, page Page) ([]*domain.Restaurant, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page Page) ([]*domain.Restaurant, error)
	Update(ctx context.Context, id uuid.UUID, patch RestaurantPatch) (*domain.Restaurant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MenuRepository interface {
	Create(ctx context.Context, m *domain.Menu) error
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*domain.Menu, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*domain.Menu, error)
	UpdateKind(ctx context.Context, restaurantID, id uuid.UUID, kind string) (*domain.Menu, error)
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error
}

// MenuItemPatch lists the fields to change. Nil fields are left untouched.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *string
}

type MenuItemRepository interface {
	Create(ctx context.Context, item *domain.MenuItem) error
	// CreateMany inserts every item or none of them.
	CreateMany(ctx context.Context, items []*domain.MenuItem) error
	FindByID(ctx context.Context, menuID, id uuid.UUID) (*domain.MenuItem, error)
	ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*domain.MenuItem, error)
	Update(ctx context.Context, menuID, id uuid.UUID, patch MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, menuID, id uuid.UUID) error
}

// RestaurantInput carries the fields accepted when creating a restaurant.
type RestaurantInput struct {
	Name     string
	Location *string
	Rating   *float64
}

type RestaurantService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in RestaurantInput) (*domain.Restaurant, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error)
	List(ctx context.Context, page Page) ([]*domain.Restaurant, error)
	ListMine(ctx context.Context, ownerID uuid.UUID, page Page) ([]*domain.Restaurant, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch RestaurantPatch) (*domain.Restaurant, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// MenuItemInput carries the fields accepted when creating a menu item.
type MenuItemInput struct {
	Name        string
	Description *string
	Price       string
}

// MenuService manages menus and their items. Mutations are restricted to the
// restaurant's owner; reads are public.
type MenuService interface {
	CreateMenu(ctx context.Context, ownerID, restaurantID uuid.UUID, kind string) (*domain.Menu, error)
	GetMenu(ctx context.Context, restaurantID, menuID uuid.UUID) (*domain.Menu, error)
	ListMenus(ctx context.Context, restaurantID uuid.UUID) ([]*domain.Menu, error)
	UpdateMenu(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID, kind string) (*domain.Menu, error)
	DeleteMenu(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID) error

	CreateItem(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID, in MenuItemInput) (*domain.MenuItem, error)
	CreateItems(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID, in []MenuItemInput) ([]*domain.MenuItem, error)
	GetItem(ctx context.Context, restaurantID, menuID, itemID uuid.UUID) (*domain.MenuItem, error)
	ListItems(ctx context.Context, restaurantID, menuID uuid.UUID) ([]*domain.MenuItem, error)
	UpdateItem(ctx context.Context, ownerID, restaurantID, menuID, itemID uuid.UUID, patch MenuItemPatch) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, ownerID, restaurantID, menuID, itemID uuid.UUID) error
}
