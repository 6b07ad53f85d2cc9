// Package http builds the gateway: a pass-through reverse proxy in front of
// the auth, users and restaurants services.
package http

import (
	"fmt"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/api/metrics"
	apimw "github.com/bitez/platform/internal/api/middleware"
	"github.com/bitez/platform/internal/infrastructure/http/handlers"
)

// Upstream maps a public prefix to an internal service path.
type Upstream struct {
	Name   string
	Prefix string // public, e.g. /api/auth
	Target string // base URL of the service
	Path   string // internal prefix, e.g. /auth
}

type GatewayConfig struct {
	Upstreams      []Upstream
	RequestTimeout time.Duration
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds the gateway. Each upstream gets one proxy group; the
// gateway's readiness reports each upstream's liveness.
func NewRouter(cfg GatewayConfig, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(apimw.RequestLogger(log))
	metrics.Instrument(e, "gateway", cfg.Registry)

	transport := nethttp.DefaultTransport.(*nethttp.Transport).Clone()
	if cfg.RequestTimeout > 0 {
		transport.ResponseHeaderTimeout = cfg.RequestTimeout
	}

	pingers := make(map[string]handlers.Pinger, len(cfg.Upstreams))
	for _, up := range cfg.Upstreams {
		target, err := url.Parse(up.Target)
		if err != nil {
			return nil, fmt.Errorf("upstream %s: %w", up.Name, err)
		}
		e.Group(up.Prefix, middleware.ProxyWithConfig(middleware.ProxyConfig{
			Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
				{Name: up.Name, URL: target},
			}),
			Rewrite: map[string]string{
				up.Prefix:        up.Path,
				up.Prefix + "?*": up.Path + "?$1",
				up.Prefix + "/*": up.Path + "/$1",
			},
			Transport: transport,
		}))
		pingers[up.Name] = handlers.HTTPPinger{
			URL:    target.JoinPath("/health").String(),
			Client: &nethttp.Client{Timeout: cfg.RequestTimeout},
		}
	}

	health := handlers.NewHealthHandler("gateway")
	e.GET("/health", health.Liveness)
	e.GET("/health/live", health.Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(pingers).Readiness)

	return e, nil
}
