// Package app connects the stores and builds the service graph shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/BloggingApp/feed-service/internal/config"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Redis    *redis.Client
	DB       *pgxpool.Pool // nil when the remote mirror is disabled
	Repo     *repository.Repository
	Services *service.Service
}

func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	var db *pgxpool.Pool
	if cfg.Mirror.Enabled {
		db, err = postgres.DB(ctx, cfg.DB)
		if err != nil {
			rdb.Close()
			return nil, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			rdb.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			rdb.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		logger.Info("Successfully connected to PostgreSQL")
	}

	repo := repository.New(rdb, db, logger, repository.Options{
		Namespace:   cfg.Feed.Namespace,
		WelcomeText: cfg.Feed.WelcomeText,
	})
	services := service.New(logger, repo, service.NewMirror(repo.Postgres), service.Options{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		TokenTTL:      cfg.Auth.TokenTTL,
		MirrorTimeout: cfg.Mirror.Timeout,
	})

	return &App{
		Config:   cfg,
		Redis:    rdb,
		DB:       db,
		Repo:     repo,
		Services: services,
	}, nil
}

// Close drains pending mirror writes before closing the connections.
func (a *App) Close() {
	a.Services.Close()
	if a.DB != nil {
		a.DB.Close()
	}
	a.Redis.Close()
}
