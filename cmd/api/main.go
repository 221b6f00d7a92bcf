package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certify-backend/internal/config"
	"certify-backend/internal/interfaces/router"
	"certify-backend/internal/pkg/logger"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logger.Init(cfg.LogLevel, cfg.LogFile)
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(gctx); err != nil {
			return err
		}
		log.Info().Msg("database connected")
		return nil
	})
	g.Go(func() error {
		if err := rdb.Ping(gctx).Err(); err != nil {
			return err
		}
		log.Info().Msg("redis connected")
		return nil
	})
	err = g.Wait()
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("dependency check failed")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).
		Str("health", "http://localhost:"+cfg.Port+"/health/json").Msg("server running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
