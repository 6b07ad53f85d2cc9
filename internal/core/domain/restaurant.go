package domain

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is owned by a user with the restaurant_owner role.
type Restaurant struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location"`
	Rating    *float64  `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Menu groups items of one kind (breakfast, drinks, ...) for a restaurant.
type Menu struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Kind         string    `json:"kind"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MenuItem is a priced entry on a menu. Price is a decimal string with at
// most two fractional digits, as stored in NUMERIC(10,2).
type MenuItem struct {
	ID          uuid.UUID `json:"id"`
	MenuID      uuid.UUID `json:"menu_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
