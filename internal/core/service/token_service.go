package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour

	// MinSecretLength is the shortest signing secret accepted.
	MinSecretLength = 32
)

// ErrInvalidToken is returned for every token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// AllowedAlgorithms lists the signing algorithms a deployment may choose.
var AllowedAlgorithms = []string{"HS256", "HS384", "HS512"}

// Claims is the signed payload of both token kinds.
type Claims struct {
	Type  domain.TokenKind `json:"type"`
	Email string           `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Algorithm     string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService signs and verifies access and refresh tokens. The two kinds use
// separate secrets and carry their kind inside the signed payload.
type TokenService struct {
	method     jwt.SigningMethod
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	var method jwt.SigningMethod
	switch cfg.Algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q, must be one of %v", cfg.Algorithm, AllowedAlgorithms)
	}
	if len(cfg.AccessSecret) < MinSecretLength {
		return nil, fmt.Errorf("access secret must be at least %d characters", MinSecretLength)
	}
	if len(cfg.RefreshSecret) < MinSecretLength {
		return nil, fmt.Errorf("refresh secret must be at least %d characters", MinSecretLength)
	}

	s := &TokenService{
		method:     method,
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = DefaultAccessTTL
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = DefaultRefreshTTL
	}
	return s, nil
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs an access token for subject. A ttl <= 0 selects the
// configured default.
func (s *TokenService) IssueAccess(subject, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	return s.issue(domain.TokenKindAccess, subject, email, ttl, s.accessKey)
}

// IssueRefresh signs a refresh token for subject. A ttl <= 0 selects the
// configured default.
func (s *TokenService) IssueRefresh(subject string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.refreshTTL
	}
	tok, err := s.issue(domain.TokenKindRefresh, subject, "", ttl, s.refreshKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, s.now().Add(ttl).Truncate(time.Second), nil
}

func (s *TokenService) issue(kind domain.TokenKind, subject, email string, ttl time.Duration, key []byte) (string, error) {
	now := s.now()
	claims := Claims{
		Type:  kind,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// VerifyAccess returns the claims of a valid access token.
func (s *TokenService) VerifyAccess(token string) (*Claims, error) {
	return s.verify(token, domain.TokenKindAccess, s.accessKey)
}

// VerifyRefresh returns the claims of a valid refresh token.
func (s *TokenService) VerifyRefresh(token string) (*Claims, error) {
	return s.verify(token, domain.TokenKindRefresh, s.refreshKey)
}

func (s *TokenService) verify(token string, kind domain.TokenKind, key []byte) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil || !parsed.Valid || claims.Type != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
