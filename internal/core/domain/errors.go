package domain

import "errors"

// ErrorKind classifies a domain error so the transport layer can pick a status
// code without inspecting messages.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindDatabase   ErrorKind = "database"
	KindHashing    ErrorKind = "hashing"
)

// Error is the tagged error returned across component boundaries.
// Message is safe to show to the client for validation and not_found kinds.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewDatabaseError wraps a storage failure. The wrapped error is logged but
// never rendered to clients outside debug mode.
func NewDatabaseError(msg string, err error) *Error {
	return &Error{Kind: KindDatabase, Message: msg, Err: err}
}

func NewHashingError(err error) *Error {
	return &Error{Kind: KindHashing, Message: "failed to hash password", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Auth errors. Messages are part of the public contract.
var (
	ErrInvalidCredentials    = NewValidationError("Invalid email or password")
	ErrEmailTaken            = NewValidationError("Email already registered")
	ErrUserInactive          = NewValidationError("User account is inactive")
	ErrPasswordMismatch      = NewValidationError("Passwords do not match")
	ErrInvalidRefreshToken   = NewValidationError("Invalid refresh token")
	ErrInvalidRefreshPayload = NewValidationError("Invalid refresh token payload")
	ErrRefreshTokenRevoked   = NewValidationError("Refresh token has been revoked")
	ErrInvalidRole           = NewValidationError("Role is not allowed")
)

// Lookup errors returned by repositories.
var (
	ErrUserNotFound         = NewNotFoundError("User not found")
	ErrRefreshTokenNotFound = NewNotFoundError("Refresh token not found")
	ErrProfileNotFound      = NewNotFoundError("Profile not found")
	ErrRestaurantNotFound   = NewNotFoundError("Restaurant not found")
	ErrMenuNotFound         = NewNotFoundError("Menu not found")
	ErrMenuItemNotFound     = NewNotFoundError("Menu item not found")
)

var ErrProfileExists = NewValidationError("Profile already exists for this user")
