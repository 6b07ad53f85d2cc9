package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bitez/platform/internal/api/middleware"
	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

// principal returns the user resolved by the Auth middleware. A missing
// principal means the route was mounted without Auth.
func principal(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication token")
	}
	return u, nil
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("Invalid " + name)
	}
	return id, nil
}

func clientInfo(c echo.Context) ports.ClientInfo {
	return ports.ClientInfo{IP: c.RealIP(), UserAgent: c.Request().UserAgent()}
}

// unauthorized turns a validation failure into a 401 carrying the same
// message. Other errors pass through to the error handler.
func unauthorized(err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindValidation {
		return echo.NewHTTPError(http.StatusUnauthorized, de.Message).SetInternal(err)
	}
	return err
}
