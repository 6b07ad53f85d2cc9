// Command auth serves registration, login and token endpoints.
//
//	@title						Bitez API
//	@version					1.0
//	@description				Authentication, user profile and restaurant services of the bitez food ordering platform.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"os"

	"github.com/bitez/platform/internal/api"
	"github.com/bitez/platform/internal/infrastructure/db/mongo"
	"github.com/bitez/platform/internal/infrastructure/db/postgres"
	"github.com/bitez/platform/internal/infrastructure/db/redis"
	"github.com/bitez/platform/internal/infrastructure/http/handlers"
	"github.com/bitez/platform/internal/infrastructure/queue"
	"github.com/bitez/platform/internal/pkg/bootstrap"
	"github.com/bitez/platform/internal/pkg/server"
	"github.com/bitez/platform/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, log, err := bootstrap.Load(ctx, "auth", true)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}

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
	auditRepo := mongo.NewAuditRepository(mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure audit indexes")
	}

	redisClient, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to redis")
		_ = mongoClient.Disconnect(ctx)
		_ = db.Close()
		return 1
	}

	store := postgres.NewStore(db)
	dispatcher := queue.NewDispatcher(cfg.Workers.AuditWorkers, auditRepo, logger.Component("audit"))
	authService, err := bootstrap.NewAuthService(cfg, store, dispatcher, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to build auth service")
		_ = redisClient.Close()
		_ = mongoClient.Disconnect(ctx)
		_ = db.Close()
		return 1
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	dispatcher.Start(workerCtx)
	sweeper := queue.NewSweeper(store.RefreshTokens(), cfg.Workers.TokenSweepInterval, logger.Component("token-sweeper"))
	go sweeper.Run(workerCtx)

	e := api.NewAuthRouter(api.AuthDeps{
		Options: api.Options{
			Log:   log,
			Debug: cfg.Debug,
			Readiness: map[string]handlers.Pinger{
				"postgres": handlers.PingFunc(db.PingContext),
				"mongo":    mongo.Pinger{Client: mongoClient},
				"redis":    redis.Pinger{Client: redisClient},
			},
		},
		Auth:      authService,
		AccessTTL: cfg.JWT.AccessTTL(),
		Limiter:   redis.NewRateLimiter(redisClient, "ratelimit:auth", cfg.RateLimit.Requests, cfg.RateLimit.Window),
	})

	return server.Run(e, ":"+cfg.PortOr("8002"), log,
		server.Cleanup{Name: "audit-dispatcher", Fn: dispatcher.Stop},
		server.Cleanup{Name: "token-sweeper", Fn: func(ctx context.Context) error {
			stopWorkers()
			select {
			case <-sweeper.Done():
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}},
		server.Close("redis", redisClient.Close),
		server.Cleanup{Name: "mongo", Fn: mongoClient.Disconnect},
		server.Close("postgres", db.Close),
	)
}
