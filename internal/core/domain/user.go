package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization tag carried by every user.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleDeliveryPerson  Role = "delivery_person"
	RoleAdmin           Role = "admin"
)

// SelfAssignable reports whether a user may pick this role at registration.
func (r Role) SelfAssignable() bool {
	switch r {
	case RoleCustomer, RoleRestaurantOwner, RoleDeliveryPerson:
		return true
	}
	return false
}

// User models an account in the auth store.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail lower-cases and trims an address. Emails are compared and
// stored in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
