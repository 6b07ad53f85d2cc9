package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bitez/platform/internal/api/metrics"
	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	accessTTL   time.Duration
}

func NewAuthHandler(authService ports.AuthService, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, accessTTL: accessTTL}
}

// Register creates a new account and signs the user in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ObserveAuth("register", err)
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Role:            domain.Role(req.Role),
	}, clientInfo(c))
	metrics.ObserveAuth("register", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.tokenResponse(res))
}

// Login exchanges credentials for a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ObserveAuth("login", err)
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, clientInfo(c))
	metrics.ObserveAuth("login", err)
	if err != nil {
		return unauthorized(err)
	}
	return c.JSON(http.StatusOK, h.tokenResponse(res))
}

// Refresh mints a new access token from a refresh token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  accessTokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ObserveAuth("refresh", err)
		return unauthorized(err)
	}

	token, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken, clientInfo(c))
	metrics.ObserveAuth("refresh", err)
	if err != nil {
		return unauthorized(err)
	}
	return c.JSON(http.StatusOK, accessTokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int(h.accessTTL.Seconds()),
	})
}

// Logout revokes a refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ObserveAuth("logout", err)
		return unauthorized(err)
	}

	err := h.authService.Logout(c.Request().Context(), req.RefreshToken, clientInfo(c))
	metrics.ObserveAuth("logout", err)
	if err != nil {
		return unauthorized(err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Validate reports the identity behind the bearer token.
//
// @Summary      Validate access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  validateResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	metrics.ObserveAuth("validate", nil)
	return c.JSON(http.StatusOK, validateResponse{
		Valid:      true,
		UserID:     u.ID,
		Email:      u.Email,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
	})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *AuthHandler) tokenResponse(res *ports.AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int(res.Tokens.ExpiresIn.Seconds()),
		User:         toUserResponse(res.User),
	}
}
