package ports

import (
	"context"

	"github.com/bitez/platform/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	// Role is optional; empty means customer.
	Role domain.Role
}

// ClientInfo identifies the caller for the audit trail.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput, client ClientInfo) (*AuthResult, error)
	Login(ctx context.Context, email, password string, client ClientInfo) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, client ClientInfo) (string, error)
	Logout(ctx context.Context, refreshToken string, client ClientInfo) error
	// ValidateAccess returns nil, nil when the token does not identify an
	// active user.
	ValidateAccess(ctx context.Context, accessToken string) (*domain.User, error)
}

// AccessValidator is the subset of AuthService the access guard depends on.
type AccessValidator interface {
	ValidateAccess(ctx context.Context, accessToken string) (*domain.User, error)
}
