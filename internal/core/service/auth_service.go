package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

// AuthService implements registration, login, refresh, logout and access
// validation on top of the user and refresh-token stores.
type AuthService struct {
	store  ports.AuthStore
	hasher *PasswordHasher
	policy PasswordPolicy
	tokens *TokenService
	audit  ports.AuditRecorder
	log    zerolog.Logger
	now    func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(
	store ports.AuthStore,
	hasher *PasswordHasher,
	policy PasswordPolicy,
	tokens *TokenService,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		policy: policy,
		tokens: tokens,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput, client ports.ClientInfo) (*ports.AuthResult, error) {
	if in.Password != in.PasswordConfirm {
		return nil, domain.ErrPasswordMismatch
	}
	if err := s.policy.Validate(in.Password); err != nil {
		return nil, domain.NewValidationError("Password validation failed: " + err.Error())
	}

	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.SelfAssignable() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("password hashing failed")
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var pair domain.TokenPair
	err = s.store.InTx(ctx, func(tx ports.AuthStore) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		var err error
		pair, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			s.log.Warn().Str("email", user.Email).Msg("registration failed: email already exists")
			return nil, domain.ErrEmailTaken
		}
		s.log.Error().Err(err).Str("email", user.Email).Msg("user registration failed")
		return nil, storageError("Failed to register user", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("email", user.Email).Msg("user registered")
	s.record(domain.EventRegister, user.ID.String(), user.Email, client)
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, client ports.ClientInfo) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, storageError("Failed to load user", err)
		}
		// Same bcrypt work as a real comparison so timing does not reveal
		// whether the account exists.
		s.hasher.Verify(password, s.dummy())
		s.log.Warn().Str("email", email).Msg("login failed: user not found")
		s.record(domain.EventLoginFailed, "", email, client)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn().Str("user_id", user.ID.String()).Msg("login failed: invalid password")
		s.record(domain.EventLoginFailed, user.ID.String(), email, client)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.log.Warn().Str("user_id", user.ID.String()).Msg("login failed: user inactive")
		s.record(domain.EventLoginFailed, user.ID.String(), email, client)
		return nil, domain.ErrUserInactive
	}

	pair, err := s.issueTokens(ctx, s.store, user)
	if err != nil {
		return nil, storageError("Failed to log in", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	s.record(domain.EventLogin, user.ID.String(), user.Email, client)
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// Refresh mints a new access token. The refresh token itself is neither
// rotated nor re-persisted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ports.ClientInfo) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		s.log.Warn().Msg("refresh token carries a malformed subject")
		return "", domain.ErrInvalidRefreshPayload
	}

	var access string
	err = s.store.InTx(ctx, func(tx ports.AuthStore) error {
		if _, err := tx.RefreshTokens().FindActive(ctx, refreshToken, userID); err != nil {
			if !errors.Is(err, domain.ErrRefreshTokenNotFound) {
				return err
			}
			return s.inactiveRefreshError(ctx, tx, refreshToken, userID)
		}

		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrUserInactive
			}
			return err
		}
		if !user.IsActive {
			return domain.ErrUserInactive
		}

		access, err = s.tokens.IssueAccess(user.ID.String(), user.Email, 0)
		return err
	})
	if err != nil {
		return "", storageError("Failed to refresh token", err)
	}

	s.log.Info().Str("user_id", userID.String()).Msg("access token refreshed")
	s.record(domain.EventRefresh, userID.String(), "", client)
	return access, nil
}

// inactiveRefreshError picks the message for a token with no active row.
func (s *AuthService) inactiveRefreshError(ctx context.Context, tx ports.AuthStore, token string, userID uuid.UUID) error {
	rt, err := tx.RefreshTokens().Find(ctx, token, userID)
	switch {
	case errors.Is(err, domain.ErrRefreshTokenNotFound):
		s.log.Warn().Str("user_id", userID.String()).Msg("refresh token not found in database")
		return domain.ErrInvalidRefreshToken
	case err != nil:
		return err
	case rt.IsRevoked:
		s.log.Warn().Str("user_id", userID.String()).Msg("refresh token revoked")
		return domain.ErrRefreshTokenRevoked
	default:
		return domain.ErrInvalidRefreshToken
	}
}

// Logout revokes the refresh token. Unknown or already revoked tokens are
// not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, client ports.ClientInfo) error {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.ErrInvalidRefreshToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.ErrInvalidRefreshPayload
	}

	revoked, err := s.store.RefreshTokens().Revoke(ctx, refreshToken, userID)
	if err != nil {
		return storageError("Failed to log out", err)
	}
	if !revoked {
		s.log.Warn().Str("user_id", userID.String()).Msg("refresh token not found or already revoked")
		return nil
	}

	s.log.Info().Str("user_id", userID.String()).Msg("user logged out")
	s.record(domain.EventLogout, userID.String(), "", client)
	return nil
}

func (s *AuthService) ValidateAccess(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, nil
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, storageError("Failed to load user", err)
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// AccessTTL is the lifetime of issued access tokens.
func (s *AuthService) AccessTTL() time.Duration { return s.tokens.AccessTTL() }

func (s *AuthService) issueTokens(ctx context.Context, store ports.AuthStore, user *domain.User) (domain.TokenPair, error) {
	subject := user.ID.String()

	access, err := s.tokens.IssueAccess(subject, user.Email, 0)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, expiresAt, err := s.tokens.IssueRefresh(subject, 0)
	if err != nil {
		return domain.TokenPair{}, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: expiresAt,
		CreatedAt: s.now().UTC(),
	}
	if err := store.RefreshTokens().Create(ctx, rt); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTTL(),
	}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Error().Err(err).Msg("failed to prepare dummy digest")
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *AuthService) record(kind domain.AuthEventType, userID, email string, client ports.ClientInfo) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Type:      kind,
		UserID:    userID,
		Email:     email,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		Timestamp: s.now().UTC(),
	})
}

// storageError passes domain errors through and tags anything else as a
// database failure.
func storageError(msg string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.NewDatabaseError(msg, err)
}
