// Command users serves the caller's profile.
package main

import (
	"context"
	"os"

	"github.com/bitez/platform/internal/api"
	"github.com/bitez/platform/internal/core/service"
	"github.com/bitez/platform/internal/infrastructure/db/mongo"
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

	cfg, log, err := bootstrap.Load(ctx, "users", true)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}

	// Tokens are checked against the shared users table.
	db, err := bootstrap.OpenPostgres(ctx, cfg.Postgres, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to postgres")
		return 1
	}

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to mongo")
		_ = db.Close()
		return 1
	}
	profiles := mongo.NewProfileRepository(mongoDB)
	if err := profiles.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure profile indexes")
	}

	access, err := bootstrap.NewAuthService(cfg, postgres.NewStore(db), nil, logger.Component("access"))
	if err != nil {
		log.Error().Err(err).Msg("failed to build token validator")
		_ = mongoClient.Disconnect(ctx)
		_ = db.Close()
		return 1
	}

	e := api.NewUsersRouter(api.UsersDeps{
		Options: api.Options{
			Log:   log,
			Debug: cfg.Debug,
			Readiness: map[string]handlers.Pinger{
				"postgres": handlers.PingFunc(db.PingContext),
				"mongo":    mongo.Pinger{Client: mongoClient},
			},
		},
		Validator: access,
		Profiles:  service.NewProfileService(profiles, logger.Component("profiles")),
	})

	return server.Run(e, ":"+cfg.PortOr("8003"), log,
		server.Cleanup{Name: "mongo", Fn: mongoClient.Disconnect},
		server.Close("postgres", db.Close),
	)
}
