package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds optional personal details for a user. One per user.
type UserProfile struct {
	ID          string         `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	FirstName   *string        `json:"first_name"`
	LastName    *string        `json:"last_name"`
	PhoneNumber *string        `json:"phone_number"`
	AvatarURL   *string        `json:"avatar_url"`
	Bio         *string        `json:"bio"`
	DateOfBirth *time.Time     `json:"date_of_birth"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
