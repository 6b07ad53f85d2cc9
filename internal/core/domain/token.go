package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind is the discriminator signed into every token payload.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// RefreshToken is a persisted refresh-token session. A revoked row is never
// un-revoked.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// Expired reports whether the session has passed its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TokenPair is returned by register and login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access-token lifetime.
	ExpiresIn time.Duration
}
