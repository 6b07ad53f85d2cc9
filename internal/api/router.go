// Package api wires the HTTP surface of the auth, users and restaurants
// services.
package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bitez/platform/docs"
	"github.com/bitez/platform/internal/api/handler"
	"github.com/bitez/platform/internal/api/metrics"
	"github.com/bitez/platform/internal/api/middleware"
	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
	"github.com/bitez/platform/internal/infrastructure/http/handlers"
)

// Options are shared by every service router.
type Options struct {
	Log   zerolog.Logger
	Debug bool
	// Registry receives HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handlers.Pinger
}

type AuthDeps struct {
	Options
	Auth      ports.AuthService
	AccessTTL time.Duration
	// Limiter throttles register and login. Nil disables throttling.
	Limiter middleware.Limiter
}

type UsersDeps struct {
	Options
	Validator ports.AccessValidator
	Profiles  ports.ProfileService
}

type RestaurantsDeps struct {
	Options
	Validator   ports.AccessValidator
	Restaurants ports.RestaurantService
	Menus       ports.MenuService
}

func newEcho(service string, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log, opts.Debug)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	metrics.Instrument(e, service, opts.Registry)

	health := handlers.NewHealthHandler(service)
	e.GET("/health", health.Liveness)
	e.GET("/health/live", health.Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(opts.Readiness).Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// NewAuthRouter builds the auth service.
func NewAuthRouter(d AuthDeps) *echo.Echo {
	e := newEcho("auth", d.Options)
	h := handler.NewAuthHandler(d.Auth, d.AccessTTL)

	var throttle []echo.MiddlewareFunc
	if d.Limiter != nil {
		throttle = append(throttle, middleware.RateLimit(d.Limiter, d.Log))
	}
	authn := middleware.Auth(d.Auth)

	g := e.Group("/auth")
	g.POST("/register", h.Register, throttle...)
	g.POST("/login", h.Login, throttle...)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.GET("/validate", h.Validate, authn)
	g.GET("/me", h.Me, authn)

	return e
}

// NewUsersRouter builds the users service. Every profile route acts on the
// caller's own profile.
func NewUsersRouter(d UsersDeps) *echo.Echo {
	e := newEcho("users", d.Options)
	h := handler.NewProfileHandler(d.Profiles)

	g := e.Group("/profiles", middleware.Auth(d.Validator))
	g.POST("", h.Create)
	g.GET("/me", h.Get)
	g.PUT("/me", h.Update)
	g.DELETE("/me", h.Delete)

	return e
}

// NewRestaurantsRouter builds the restaurants service. Reads are public;
// writes need an authenticated restaurant owner.
func NewRestaurantsRouter(d RestaurantsDeps) *echo.Echo {
	e := newEcho("restaurants", d.Options)
	h := handler.NewRestaurantHandler(d.Restaurants, d.Menus)
	owner := []echo.MiddlewareFunc{
		middleware.Auth(d.Validator),
		middleware.RequireRole(domain.RoleRestaurantOwner),
	}

	r := e.Group("/restaurants")
	r.GET("", h.ListRestaurants)
	r.GET("/:id", h.GetRestaurant)
	r.GET("/:id/menus", h.ListMenus)
	r.GET("/:id/menus/:menu_id", h.GetMenu)
	r.GET("/:id/menus/:menu_id/items", h.ListItems)
	r.GET("/:id/menus/:menu_id/items/:item_id", h.GetItem)

	r.POST("", h.CreateRestaurant, owner...)
	r.GET("/my", h.ListMyRestaurants, owner...)
	r.PUT("/:id", h.UpdateRestaurant, owner...)
	r.DELETE("/:id", h.DeleteRestaurant, owner...)
	r.POST("/:id/menus", h.CreateMenu, owner...)
	r.PUT("/:id/menus/:menu_id", h.UpdateMenu, owner...)
	r.DELETE("/:id/menus/:menu_id", h.DeleteMenu, owner...)
	r.POST("/:id/menus/:menu_id/items", h.CreateItem, owner...)
	r.POST("/:id/menus/:menu_id/items/bulk", h.CreateItems, owner...)
	r.PUT("/:id/menus/:menu_id/items/:item_id", h.UpdateItem, owner...)
	r.DELETE("/:id/menus/:menu_id/items/:item_id", h.DeleteItem, owner...)

	return e
}
