package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

const (
	msgInternal = "Internal server error"
	msgDatabase = "A database error occurred"
	msgHashing  = "Failed to process password"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain error
// kinds to status codes and renders {"error", "details"}. Storage failures are
// logged and their cause is only shown when debug is set.
func NewHTTPErrorHandler(log zerolog.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, debug)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, debug bool) (int, errorResponse) {
	// Echo's own errors and the 401/403/429 raised by middleware and handlers.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		if debug {
			return http.StatusInternalServerError, errorResponse{Error: err.Error()}
		}
		return http.StatusInternalServerError, errorResponse{Error: msgInternal}
	}

	switch de.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest, errorResponse{Error: de.Message, Details: de.Details}
	case domain.KindNotFound:
		return http.StatusNotFound, errorResponse{Error: de.Message, Details: de.Details}
	case domain.KindDatabase:
		if debug {
			return http.StatusInternalServerError, errorResponse{Error: de.Error(), Details: de.Details}
		}
		return http.StatusInternalServerError, errorResponse{Error: msgDatabase}
	case domain.KindHashing:
		return http.StatusInternalServerError, errorResponse{Error: msgHashing}
	}
	return http.StatusInternalServerError, errorResponse{Error: msgInternal}
}
