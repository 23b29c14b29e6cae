package repository

import (
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Options struct {
	// Namespace scopes every store key, standing in for the browser origin.
	Namespace   string
	WelcomeText string
}

type Repository struct {
	Redis    *redisrepo.RedisRepository
	Postgres *postgres.PostgresRepository // nil when the remote mirror is disabled
	Posts
	Users
	Theme
}

// New wires the repositories. db may be nil, in which case no remote mirror is available.
func New(rdb redis.UniversalClient, db *pgxpool.Pool, logger *zap.Logger, opts Options) *Repository {
	redisRepo := redisrepo.New(rdb, opts.Namespace)
	users := newUsersRepo(redisRepo.Default)

	repo := &Repository{
		Redis: redisRepo,
		Posts: newPostsRepo(redisRepo.Default, users, logger, opts.WelcomeText),
		Users: users,
		Theme: newThemeRepo(redisRepo.Default),
	}
	if db != nil {
		repo.Postgres = postgres.New(db)
	}

	return repo
}
