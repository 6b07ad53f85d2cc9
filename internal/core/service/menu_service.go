package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

// Prices fit NUMERIC(10,2).
var priceRe = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

type menuService struct {
	restaurants ports.RestaurantRepository
	menus       ports.MenuRepository
	items       ports.MenuItemRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewMenuService returns a MenuService implementation.
func NewMenuService(
	restaurants ports.RestaurantRepository,
	menus ports.MenuRepository,
	items ports.MenuItemRepository,
	log zerolog.Logger,
) ports.MenuService {
	return &menuService{
		restaurants: restaurants,
		menus:       menus,
		items:       items,
		log:         log,
		now:         time.Now,
	}
}

func (s *menuService) CreateMenu(ctx context.Context, ownerID, restaurantID uuid.UUID, kind string) (*domain.Menu, error) {
	kind, err := validateKind(kind)
	if err != nil {
		return nil, err
	}
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, restaurantID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	m := &domain.Menu{ID: uuid.New(), RestaurantID: restaurantID, Kind: kind, CreatedAt: now, UpdatedAt: now}
	if err := s.menus.Create(ctx, m); err != nil {
		return nil, storageError("Failed to create menu", err)
	}
	s.log.Info().Str("menu_id", m.ID.String()).Str("restaurant_id", restaurantID.String()).Msg("menu created")
	return m, nil
}

func (s *menuService) GetMenu(ctx context.Context, restaurantID, menuID uuid.UUID) (*domain.Menu, error) {
	m, err := s.menus.FindByID(ctx, restaurantID, menuID)
	if err != nil {
		return nil, storageError("Failed to load menu", err)
	}
	return m, nil
}

func (s *menuService) ListMenus(ctx context.Context, restaurantID uuid.UUID) ([]*domain.Menu, error) {
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		return nil, storageError("Failed to list menus", err)
	}
	out, err := s.menus.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, storageError("Failed to list menus", err)
	}
	return out, nil
}

func (s *menuService) UpdateMenu(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID, kind string) (*domain.Menu, error) {
	kind, err := validateKind(kind)
	if err != nil {
		return nil, err
	}
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, restaurantID); err != nil {
		return nil, err
	}
	m, err := s.menus.UpdateKind(ctx, restaurantID, menuID, kind)
	if err != nil {
		return nil, storageError("Failed to update menu", err)
	}
	return m, nil
}

func (s *menuService) DeleteMenu(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID) error {
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, restaurantID); err != nil {
		return err
	}
	if err := s.menus.Delete(ctx, restaurantID, menuID); err != nil {
		return storageError("Failed to delete menu", err)
	}
	s.log.Info().Str("menu_id", menuID.String()).Msg("menu deleted")
	return nil
}

func (s *menuService) CreateItem(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID, in ports.MenuItemInput) (*domain.MenuItem, error) {
	item, err := newMenuItem(menuID, in, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.ownedMenu(ctx, ownerID, restaurantID, menuID); err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, storageError("Failed to create menu item", err)
	}
	s.log.Info().Str("item_id", item.ID.String()).Str("menu_id", menuID.String()).Msg("menu item created")
	return item, nil
}

// CreateItems adds several items to a menu in one write. Nothing is stored
// when any item is invalid.
func (s *menuService) CreateItems(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID, in []ports.MenuItemInput) ([]*domain.MenuItem, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("At least one menu item is required")
	}
	now := s.now().UTC()
	items := make([]*domain.MenuItem, 0, len(in))
	for i, data := range in {
		item, err := newMenuItem(menuID, data, now)
		if err != nil {
			var de *domain.Error
			if errors.As(err, &de) {
				return nil, domain.NewValidationError(fmt.Sprintf("Item %d: %s", i+1, de.Message))
			}
			return nil, err
		}
		items = append(items, item)
	}
	if err := s.ownedMenu(ctx, ownerID, restaurantID, menuID); err != nil {
		return nil, err
	}

	if err := s.items.CreateMany(ctx, items); err != nil {
		return nil, storageError("Failed to create menu items", err)
	}
	s.log.Info().Str("menu_id", menuID.String()).Int("count", len(items)).Msg("menu items created")
	return items, nil
}

func (s *menuService) GetItem(ctx context.Context, restaurantID, menuID, itemID uuid.UUID) (*domain.MenuItem, error) {
	if _, err := s.menus.FindByID(ctx, restaurantID, menuID); err != nil {
		return nil, storageError("Failed to load menu item", err)
	}
	item, err := s.items.FindByID(ctx, menuID, itemID)
	if err != nil {
		return nil, storageError("Failed to load menu item", err)
	}
	return item, nil
}

func (s *menuService) ListItems(ctx context.Context, restaurantID, menuID uuid.UUID) ([]*domain.MenuItem, error) {
	if _, err := s.menus.FindByID(ctx, restaurantID, menuID); err != nil {
		return nil, storageError("Failed to list menu items", err)
	}
	out, err := s.items.ListByMenu(ctx, menuID)
	if err != nil {
		return nil, storageError("Failed to list menu items", err)
	}
	return out, nil
}

func (s *menuService) UpdateItem(ctx context.Context, ownerID, restaurantID, menuID, itemID uuid.UUID, patch ports.MenuItemPatch) (*domain.MenuItem, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.NewValidationError("Menu item name is required")
		}
		patch.Name = &name
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	if err := s.ownedMenu(ctx, ownerID, restaurantID, menuID); err != nil {
		return nil, err
	}
	item, err := s.items.Update(ctx, menuID, itemID, patch)
	if err != nil {
		return nil, storageError("Failed to update menu item", err)
	}
	return item, nil
}

func (s *menuService) DeleteItem(ctx context.Context, ownerID, restaurantID, menuID, itemID uuid.UUID) error {
	if err := s.ownedMenu(ctx, ownerID, restaurantID, menuID); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, menuID, itemID); err != nil {
		return storageError("Failed to delete menu item", err)
	}
	s.log.Info().Str("item_id", itemID.String()).Msg("menu item deleted")
	return nil
}

func (s *menuService) ownedMenu(ctx context.Context, ownerID, restaurantID, menuID uuid.UUID) error {
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, restaurantID); err != nil {
		return err
	}
	if _, err := s.menus.FindByID(ctx, restaurantID, menuID); err != nil {
		return storageError("Failed to load menu", err)
	}
	return nil
}

func newMenuItem(menuID uuid.UUID, in ports.MenuItemInput, now time.Time) (*domain.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("Menu item name is required")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	return &domain.MenuItem{
		ID:          uuid.New(),
		MenuID:      menuID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateKind(kind string) (string, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" || len(kind) > 100 {
		return "", domain.NewValidationError("Menu kind must be between 1 and 100 characters")
	}
	return kind, nil
}

func validatePrice(price string) error {
	if !priceRe.MatchString(price) {
		return domain.NewValidationError("Price must be a non-negative amount with at most two decimals")
	}
	return nil
}
