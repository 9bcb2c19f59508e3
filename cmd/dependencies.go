package cmd

import (
	"context"

	"portfolio-tracker/config"
	"portfolio-tracker/pkg/auth"
	"portfolio-tracker/pkg/cache"
	"portfolio-tracker/pkg/logger"
	"portfolio-tracker/pkg/middleware"
	"portfolio-tracker/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type AppDependency struct {
	db          *postgres.DB
	cfg         *config.Config
	log         *logger.Logger
	validator   *goValidator.Validate
	echo        *echo.Echo
	cache       cache.Cache
	tokenIssuer *auth.TokenIssuer
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	var tokenIssuer *auth.TokenIssuer
	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty, bearer tokens are disabled")
	} else {
		tokenIssuer, err = auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenExpiration)
		if err != nil {
			log.Error("Failed to create token issuer", zap.Error(err))
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(
		echoMiddleware.Recover(),
		middleware.NewRequestIDMiddleware(),
		middleware.NewRequestLoggerMiddleware(log),
		middleware.NewRateLimiterMiddleware(cfg.API.RateLimit, "/"),
	)

	return &AppDependency{
		cfg:         cfg,
		log:         log,
		validator:   goValidator.New(),
		db:          db,
		echo:        e,
		cache:       cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		tokenIssuer: tokenIssuer,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() { _ = d.log.Sync() }()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
