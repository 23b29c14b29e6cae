package postgres

import (
	"context"
	"fmt"

	"github.com/BloggingApp/feed-service/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}
	return pool, nil
}
