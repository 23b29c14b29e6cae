package postgres

import (
	"context"
	"errors"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")

// Post is the posts document collection.
type Post interface {
	FindByUser(ctx context.Context, userID string) ([]model.Post, error)
	Upsert(ctx context.Context, post model.Post) error
	AppendComment(ctx context.Context, postID string, comment model.Comment) error
	Delete(ctx context.Context, id string) error
}

// User is the users document collection.
type User interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user model.User) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
}

type PostgresRepository struct {
	Post
	User
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post: newPostRepo(db),
		User: newUserRepo(db),
	}
}
