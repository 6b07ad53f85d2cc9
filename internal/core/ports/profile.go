package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
)

// ProfileRepository persists user profiles, one per user.
type ProfileRepository interface {
	// Create yields domain.ErrProfileExists when the user already has one.
	Create(ctx context.Context, p *domain.UserProfile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*domain.UserProfile, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// ProfilePatch lists the fields to change. Nil fields are left untouched.
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	AvatarURL   *string
	Bio         *string
	DateOfBirth *time.Time
	Preferences map[string]any
}

// ProfileInput carries the fields accepted when creating a profile.
type ProfileInput = ProfilePatch

type ProfileService interface {
	Create(ctx context.Context, userID uuid.UUID, in ProfileInput) (*domain.UserProfile, error)
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*domain.UserProfile, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
