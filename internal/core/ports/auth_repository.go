package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
)

// UserRepository persists user accounts. Emails are matched case-insensitively.
type UserRepository interface {
	// Create inserts user and fills in its generated fields. A duplicate email
	// yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// RefreshTokenRepository persists issued refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, rt *domain.RefreshToken) error
	// Find returns the row for token and userID in any state. Inside a
	// transaction the row is share-locked so a concurrent revoke waits.
	Find(ctx context.Context, token string, userID uuid.UUID) (*domain.RefreshToken, error)
	// FindActive returns the row only when it is neither revoked nor expired.
	FindActive(ctx context.Context, token string, userID uuid.UUID) (*domain.RefreshToken, error)
	// Revoke marks a non-revoked row revoked and reports whether one changed.
	Revoke(ctx context.Context, token string, userID uuid.UUID) (bool, error)
	// DeleteExpired removes rows that expired before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AuthStore groups the auth repositories and runs units of work.
type AuthStore interface {
	Users() UserRepository
	RefreshTokens() RefreshTokenRepository
	// InTx runs fn against a store bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx AuthStore) error) error
}
