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

	"github.com/careopd/frontoffice/internal/api"
	"github.com/careopd/frontoffice/internal/config"
	"github.com/careopd/frontoffice/internal/frontdesk"
	"github.com/careopd/frontoffice/internal/notify"
	"github.com/careopd/frontoffice/internal/remote"
	"github.com/careopd/frontoffice/internal/session"
	"github.com/careopd/frontoffice/internal/store"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config load error")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "dev" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("frontoffice starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := session.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	upstream := remote.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	snapshot := store.New()
	notes := notify.NewCenter()
	sessions := session.NewRedisStore(rdb, cfg.SessionTTL)
	svc := frontdesk.NewService(snapshot, upstream, notes, logger)

	refresher := frontdesk.NewRefresher(svc, cfg.RefreshInterval)
	go refresher.Run(rootCtx)

	router := api.NewRouter(api.RouterConfig{
		Service:       svc,
		Store:         snapshot,
		Sessions:      sessions,
		Notifications: notes,
		Upstream:      upstream,
		Redis:         rdb,
		Env:           cfg.Env,
		Version:       version,
		Log:           logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("http server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("frontoffice stopped")
}
