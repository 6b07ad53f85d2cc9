package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

func normalizePage(p ports.Page) ports.Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

type restaurantService struct {
	repo ports.RestaurantRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewRestaurantService returns a RestaurantService implementation.
func NewRestaurantService(repo ports.RestaurantRepository, log zerolog.Logger) ports.RestaurantService {
	return &restaurantService{repo: repo, log: log, now: time.Now}
}

func (s *restaurantService) Create(ctx context.Context, ownerID uuid.UUID, in ports.RestaurantInput) (*domain.Restaurant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("Restaurant name is required")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	r := &domain.Restaurant{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Location:  in.Location,
		Rating:    in.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("restaurant creation failed")
		return nil, storageError("Failed to create restaurant", err)
	}

	s.log.Info().Str("restaurant_id", r.ID.String()).Str("owner_id", ownerID.String()).Msg("restaurant created")
	return r, nil
}

func (s *restaurantService) Get(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("Failed to load restaurant", err)
	}
	return r, nil
}

func (s *restaurantService) List(ctx context.Context, page ports.Page) ([]*domain.Restaurant, error) {
	out, err := s.repo.List(ctx, normalizePage(page))
	if err != nil {
		return nil, storageError("Failed to list restaurants", err)
	}
	return out, nil
}

func (s *restaurantService) ListMine(ctx context.Context, ownerID uuid.UUID, page ports.Page) ([]*domain.Restaurant, error) {
	out, err := s.repo.ListByOwner(ctx, ownerID, normalizePage(page))
	if err != nil {
		return nil, storageError("Failed to list restaurants", err)
	}
	return out, nil
}

func (s *restaurantService) Update(ctx context.Context, ownerID, id uuid.UUID, patch ports.RestaurantPatch) (*domain.Restaurant, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.NewValidationError("Restaurant name is required")
		}
		patch.Name = &name
	}
	if err := validateRating(patch.Rating); err != nil {
		return nil, err
	}
	if _, err := ownedRestaurant(ctx, s.repo, ownerID, id); err != nil {
		return nil, err
	}

	r, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, storageError("Failed to update restaurant", err)
	}
	s.log.Info().Str("restaurant_id", id.String()).Msg("restaurant updated")
	return r, nil
}

func (s *restaurantService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := ownedRestaurant(ctx, s.repo, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError("Failed to delete restaurant", err)
	}
	s.log.Info().Str("restaurant_id", id.String()).Msg("restaurant deleted")
	return nil
}

// ownedRestaurant loads the restaurant and hides it from anyone but its owner.
func ownedRestaurant(ctx context.Context, repo ports.RestaurantRepository, ownerID, id uuid.UUID) (*domain.Restaurant, error) {
	r, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("Failed to load restaurant", err)
	}
	if r.OwnerID != ownerID {
		return nil, domain.ErrRestaurantNotFound
	}
	return r, nil
}

func validateRating(r *float64) error {
	if r != nil && (*r < 0 || *r > 5) {
		return domain.NewValidationError("Rating must be between 0 and 5")
	}
	return nil
}
