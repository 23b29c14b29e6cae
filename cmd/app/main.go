package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/feed-service/internal/app"
	"github.com/BloggingApp/feed-service/internal/config"
	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/handler"
	"github.com/BloggingApp/feed-service/internal/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar().Panicf("failed to load config: %s", err.Error())
	}
	if cfg.Auth.AccessSecret == "" {
		logger.Sugar().Panic("ACCESS_SECRET must be set")
	}

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Sugar().Panicf("failed to initialize: %s", err.Error())
	}

	sessions := feed.NewSessionsWithLimits(cfg.Feed.MaxSessions, cfg.Feed.SessionTTL)
	handlers := handler.New(logger, a.Services, sessions, handler.Options{
		AccessSecret: []byte(cfg.Auth.AccessSecret),
		ClientOrigin: cfg.ClientOrigin,
	})

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           cfg.Port,
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(serverConfig)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Sugar().Infof("Server started on :%s", cfg.Port)

	err = g.Wait()
	a.Close()
	if err != nil {
		logger.Sugar().Errorf("server stopped: %s", err.Error())
		os.Exit(1)
	}
}
