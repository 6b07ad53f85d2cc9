package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

const userKey = "user"

const invalidTokenMessage = "Invalid authentication token"

// Auth resolves the bearer token to an active user and stores it in the
// context. Missing, malformed and rejected tokens all answer 401 with the same
// message.
func Auth(v ports.AccessValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			user, err := v.ValidateAccess(c.Request().Context(), token)
			if err != nil {
				return err
			}
			if user == nil {
				return unauthorized(c)
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the principal stored by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userKey).(*domain.User)
	return u
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMessage)
}
