package service

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

type profileService struct {
	repo ports.ProfileRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewProfileService returns a ProfileService implementation.
func NewProfileService(repo ports.ProfileRepository, log zerolog.Logger) ports.ProfileService {
	return &profileService{repo: repo, log: log, now: time.Now}
}

func (s *profileService) Create(ctx context.Context, userID uuid.UUID, in ports.ProfileInput) (*domain.UserProfile, error) {
	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, domain.ErrProfileExists
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, storageError("Failed to create profile", err)
	}

	now := s.now().UTC()
	p := &domain.UserProfile{
		UserID:      userID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		AvatarURL:   in.AvatarURL,
		Bio:         in.Bio,
		DateOfBirth: in.DateOfBirth,
		Preferences: in.Preferences,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Preferences == nil {
		p.Preferences = map[string]any{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrProfileExists) {
			s.log.Warn().Str("user_id", userID.String()).Msg("profile creation failed: duplicate user_id")
		}
		return nil, storageError("Failed to create profile", err)
	}

	s.log.Info().Str("profile_id", p.ID).Str("user_id", userID.String()).Msg("profile created")
	return p, nil
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("Failed to load profile", err)
	}
	return p, nil
}

// Update applies patch. Preferences are merged key by key into the stored map.
func (s *profileService) Update(ctx context.Context, userID uuid.UUID, patch ports.ProfilePatch) (*domain.UserProfile, error) {
	if patch.Preferences != nil {
		current, err := s.repo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, storageError("Failed to update profile", err)
		}
		merged := maps.Clone(current.Preferences)
		if merged == nil {
			merged = map[string]any{}
		}
		maps.Copy(merged, patch.Preferences)
		patch.Preferences = merged
	}

	p, err := s.repo.Update(ctx, userID, patch)
	if err != nil {
		return nil, storageError("Failed to update profile", err)
	}
	s.log.Info().Str("profile_id", p.ID).Str("user_id", userID.String()).Msg("profile updated")
	return p, nil
}

func (s *profileService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return storageError("Failed to delete profile", err)
	}
	s.log.Info().Str("user_id", userID.String()).Msg("profile deleted")
	return nil
}
