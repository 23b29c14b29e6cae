package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) User {
	return &userRepo{
		db: db,
	}
}

var allowedUserFields = map[string]struct{}{
	"name":           {},
	"bio":            {},
	"gender":         {},
	"dob":            {},
	"profileInitial": {},
}

// FindByID returns (nil, nil) when no document exists.
func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var doc []byte
	if err := r.db.QueryRow(ctx, "SELECT u.doc FROM users u WHERE u.id = $1", id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = id
	}

	return &user, nil
}

// Create stores the public part of user. An existing document is left as is.
func (r *userRepo) Create(ctx context.Context, user model.User) error {
	doc, err := json.Marshal(user.Session())
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		"INSERT INTO users(id, doc) VALUES($1, $2) ON CONFLICT (id) DO NOTHING",
		user.ID,
		doc,
	)
	return err
}

// Update merges updates into the user document. Only profile fields may be changed.
func (r *userRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	for field := range updates {
		if _, ok := allowedUserFields[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	patch, err := json.Marshal(updates)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, "UPDATE users SET doc = doc || $2::jsonb WHERE id = $1", id, patch)
	return err
}
