package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/creative-cluster/studio-api/docs" // swagger docs

	"github.com/creative-cluster/studio-api/internal/api"
	"github.com/creative-cluster/studio-api/internal/api/handler"
	"github.com/creative-cluster/studio-api/internal/core/service"
	mongodb "github.com/creative-cluster/studio-api/internal/infrastructure/db/mongo"
	redisdb "github.com/creative-cluster/studio-api/internal/infrastructure/db/redis"
	"github.com/creative-cluster/studio-api/internal/infrastructure/security"
	"github.com/creative-cluster/studio-api/internal/pkg/config"
	"github.com/creative-cluster/studio-api/pkg/logger"
)

// @title Creative Cluster Studio API
// @version 1.0
// @description Accounts, sessions and role-based access for the studio platform.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "studio-api",
		Env:     cfg.Env,
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "studio-api",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}
	sessions := redisdb.NewSessionStore(rdb)

	tokens, err := security.NewTokenService(security.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	authService := service.NewAuthService(users, sessions, hasher, tokens, log)
	userService := service.NewUserService(users, sessions)

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		AuthService: authService,
		UserService: userService,
		Verifier:    tokens,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(mongoClient),
			"redis":   handler.RedisCheck(rdb),
		},
		CORSOrigins:   strings.Split(cfg.CORSOrigin, ","),
		AuthRateRPS:   cfg.Auth.RateLimit,
		EnableSwagger: !cfg.IsProduction(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
