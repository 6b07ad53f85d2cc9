// Command restaurants serves restaurants, menus and menu items.
package main

import (
	"context"
	"os"

	"github.com/bitez/platform/internal/api"
	"github.com/bitez/platform/internal/core/service"
	"github.com/bitez/platform/internal/infrastructure/db/postgres"
	"github.com/bitez/platform/internal/infrastructure/http/handlers"
	"github.com/bitez/platform/internal/pkg/bootstrap"
	"github.com/bitez/platform/internal/pkg/server"
	"github.com/bitez/platform/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, log, err := bootstrap.Load(ctx, "restaurants", true)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}

	db, err := bootstrap.OpenPostgres(ctx, cfg.Postgres, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to postgres")
		return 1
	}
	store := postgres.NewStore(db)

	access, err := bootstrap.NewAuthService(cfg, store, nil, logger.Component("access"))
	if err != nil {
		log.Error().Err(err).Msg("failed to build token validator")
		_ = db.Close()
		return 1
	}

	restaurants := store.Restaurants()
	e := api.NewRestaurantsRouter(api.RestaurantsDeps{
		Options: api.Options{
			Log:   log,
			Debug: cfg.Debug,
			Readiness: map[string]handlers.Pinger{
				"postgres": handlers.PingFunc(db.PingContext),
			},
		},
		Validator:   access,
		Restaurants: service.NewRestaurantService(restaurants, logger.Component("restaurants")),
		Menus:       service.NewMenuService(restaurants, store.Menus(), store.MenuItems(), logger.Component("menus")),
	})

	return server.Run(e, ":"+cfg.PortOr("8004"), log,
		server.Close("postgres", db.Close),
	)
}
