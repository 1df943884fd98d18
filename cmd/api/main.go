package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/patchwork-crafts/patchwork-backend/config"
	"github.com/patchwork-crafts/patchwork-backend/internal/auth"
	"github.com/patchwork-crafts/patchwork-backend/internal/bootstrap"
	"github.com/patchwork-crafts/patchwork-backend/internal/users"
)

const serviceName = "patchwork-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := newLogger(cfg)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("open redis")
	}
	defer rdb.Close()

	codec := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	usersClient := users.NewClient(users.Options{
		BaseURL:   cfg.UserService.BaseURL,
		Timeout:   cfg.UserService.Timeout,
		Codec:     codec,
		ServiceID: cfg.UserService.ServiceID,
	})

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Redis:          rdb,
		Codec:          codec,
		Users:          usersClient,
		Logger:         logger,
		CORSOrigins:    cfg.CORS.AllowOrigins,
		RateLimitRPM:   cfg.RateLimit.RequestsPerMinute,
		RateLimitBurst: cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}
