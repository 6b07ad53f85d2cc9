package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

type restaurantCreateRequest struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Location *string  `json:"location" validate:"omitempty,max=255"`
	Rating   *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

type restaurantUpdateRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Location *string  `json:"location" validate:"omitempty,max=255"`
	Rating   *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

type menuRequest struct {
	Kind string `json:"kind" validate:"required,max=100"`
}

// Prices may be sent as JSON numbers or numeric strings.
type menuItemCreateRequest struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description *string     `json:"description"`
	Price       json.Number `json:"price" validate:"required"`
}

type menuItemsBulkRequest struct {
	Items []menuItemCreateRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type menuItemUpdateRequest struct {
	Name        *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price"`
}

func (r menuItemUpdateRequest) patch() ports.MenuItemPatch {
	p := ports.MenuItemPatch{Name: r.Name, Description: r.Description}
	if r.Price != nil {
		s := r.Price.String()
		p.Price = &s
	}
	return p
}

// Response bodies are the domain entities' JSON forms.
type (
	restaurantResponse = domain.Restaurant
	menuResponse       = domain.Menu
	menuItemResponse   = domain.MenuItem
)

func pageParams(c echo.Context) (ports.Page, error) {
	var p ports.Page
	if err := echo.QueryParamsBinder(c).
		Int("skip", &p.Skip).
		Int("limit", &p.Limit).
		BindError(); err != nil {
		return p, domain.NewValidationError("skip and limit must be integers")
	}
	return p, nil
}
