package service

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/bitez/platform/internal/core/domain"
)

const (
	MinBcryptCost = 10
	MaxBcryptCost = 15

	MinPasswordLength = 8
	MaxPasswordLength = 128

	specialChars = `!@#$%^&*(),.?":{}|<>`
)

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, clamped to the supported range.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost < MinBcryptCost:
		cost = MinBcryptCost
	case cost > MaxBcryptCost:
		cost = MaxBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted digest of plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(plain), h.cost)
	if err != nil {
		return "", domain.NewHashingError(err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. A malformed digest never matches.
func (h *PasswordHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(plain)) == nil
}

// prehash condenses plain to 44 bytes so bcrypt's 72-byte input limit never
// truncates a password.
func prehash(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// PasswordPolicy is the strength check applied on registration.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigits    bool
	RequireSpecial   bool
}

// DefaultPasswordPolicy requires eight characters with upper, lower and digit.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        MinPasswordLength,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigits:    true,
	}
}

var (
	errNoUppercase = errors.New("Password must contain at least one uppercase letter")
	errNoLowercase = errors.New("Password must contain at least one lowercase letter")
	errNoDigit     = errors.New("Password must contain at least one digit")
	errNoSpecial   = errors.New("Password must contain at least one special character")
)

// Validate returns the first rule plain breaks, or nil.
func (p PasswordPolicy) Validate(plain string) error {
	minLen := p.MinLength
	if minLen < MinPasswordLength {
		minLen = MinPasswordLength
	}
	if minLen > MaxPasswordLength {
		minLen = MaxPasswordLength
	}
	if len([]rune(plain)) < minLen {
		return fmt.Errorf("Password must be at least %d characters long", minLen)
	}

	var upper, lower, digit, special bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}

	switch {
	case p.RequireUppercase && !upper:
		return errNoUppercase
	case p.RequireLowercase && !lower:
		return errNoLowercase
	case p.RequireDigits && !digit:
		return errNoDigit
	case p.RequireSpecial && !special:
		return errNoSpecial
	}
	return nil
}
