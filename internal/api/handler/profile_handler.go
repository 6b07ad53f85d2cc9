package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

const dateLayout = "2006-01-02"

type profileRequest struct {
	FirstName   *string        `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string        `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber *string        `json:"phone_number" validate:"omitempty,max=20"`
	AvatarURL   *string        `json:"avatar_url" validate:"omitempty,url,max=500"`
	Bio         *string        `json:"bio" validate:"omitempty,max=1000"`
	DateOfBirth *string        `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Preferences map[string]any `json:"preferences"`
}

func (r profileRequest) patch() ports.ProfilePatch {
	p := ports.ProfilePatch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		AvatarURL:   r.AvatarURL,
		Bio:         r.Bio,
		Preferences: r.Preferences,
	}
	if r.DateOfBirth != nil {
		// format already checked by the validator
		if t, err := time.Parse(dateLayout, *r.DateOfBirth); err == nil {
			p.DateOfBirth = &t
		}
	}
	return p
}

type profileResponse struct {
	ID          string         `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	FirstName   *string        `json:"first_name"`
	LastName    *string        `json:"last_name"`
	PhoneNumber *string        `json:"phone_number"`
	AvatarURL   *string        `json:"avatar_url"`
	Bio         *string        `json:"bio"`
	DateOfBirth *string        `json:"date_of_birth"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toProfileResponse(p *domain.UserProfile) profileResponse {
	resp := profileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		Preferences: p.Preferences,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.DateOfBirth != nil {
		d := p.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &d
	}
	if resp.Preferences == nil {
		resp.Preferences = map[string]any{}
	}
	return resp
}

type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Create stores the caller's profile.
//
// @Summary      Create profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile"
// @Success      201   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /profiles [post]
func (h *ProfileHandler) Create(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.profiles.Create(c.Request().Context(), u.ID, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProfileResponse(p))
}

// Get returns the caller's profile.
//
// @Summary      Get my profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /profiles/me [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	p, err := h.profiles.Get(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// Update changes the provided fields. Preferences are merged.
//
// @Summary      Update my profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /profiles/me [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.profiles.Update(c.Request().Context(), u.ID, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// Delete removes the caller's profile.
//
// @Summary      Delete my profile
// @Tags         profiles
// @Security     BearerAuth
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /profiles/me [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.profiles.Delete(c.Request().Context(), u.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
