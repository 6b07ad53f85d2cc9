// Command gateway forwards public /api/* routes to the internal services.
package main

import (
	"context"
	"os"

	"github.com/bitez/platform/internal/infrastructure/http"
	"github.com/bitez/platform/internal/pkg/bootstrap"
	"github.com/bitez/platform/internal/pkg/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, log, err := bootstrap.Load(context.Background(), "gateway", false)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}

	e, err := http.NewRouter(http.GatewayConfig{
		Upstreams: []http.Upstream{
			{Name: "auth", Prefix: "/api/auth", Target: cfg.Gateway.AuthURL, Path: "/auth"},
			{Name: "users", Prefix: "/api/profiles", Target: cfg.Gateway.UsersURL, Path: "/profiles"},
			{Name: "restaurants", Prefix: "/api/restaurants", Target: cfg.Gateway.RestaurantsURL, Path: "/restaurants"},
		},
		RequestTimeout: cfg.Gateway.RequestTimeout,
	}, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to build gateway")
		return 1
	}

	return server.Run(e, ":"+cfg.PortOr("8000"), log)
}
