// Package bootstrap holds the start-up steps shared by the service binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/core/ports"
	"github.com/bitez/platform/internal/core/service"
	"github.com/bitez/platform/internal/infrastructure/db/postgres"
	"github.com/bitez/platform/internal/pkg/config"
	"github.com/bitez/platform/pkg/logger"
)

// Load reads the configuration and initialises the process logger.
// requireAuth additionally validates the token and password settings.
func Load(ctx context.Context, serviceName string, requireAuth bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, logger.Init(logger.Options{Service: serviceName}), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	if requireAuth {
		if err := cfg.ValidateAuth(); err != nil {
			return nil, log, fmt.Errorf("invalid auth configuration: %w", err)
		}
	}
	return cfg, log, nil
}

// OpenPostgres connects the pool and applies migrations when DB_AUTO_MIGRATE
// is set.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig, log zerolog.Logger) (*sql.DB, error) {
	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.URL, MaxOpenConns: cfg.MaxOpenConns})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("database migrations applied")
	}
	return db, nil
}

// NewAuthService assembles the auth core from configuration. audit may be nil
// for services that only validate access tokens.
func NewAuthService(cfg *config.Config, store ports.AuthStore, audit ports.AuditRecorder, log zerolog.Logger) (*service.AuthService, error) {
	tokens, err := service.NewTokenService(service.TokenConfig{
		Algorithm:     cfg.JWT.Algorithm,
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL(),
		RefreshTTL:    cfg.JWT.RefreshTTL(),
	})
	if err != nil {
		return nil, err
	}
	policy := service.PasswordPolicy{
		MinLength:        cfg.Password.MinLength,
		RequireUppercase: cfg.Password.RequireUppercase,
		RequireLowercase: cfg.Password.RequireLowercase,
		RequireDigits:    cfg.Password.RequireDigits,
		RequireSpecial:   cfg.Password.RequireSpecial,
	}
	return service.NewAuthService(
		store,
		service.NewPasswordHasher(cfg.Password.BcryptRounds),
		policy,
		tokens,
		audit,
		log,
	), nil
}
