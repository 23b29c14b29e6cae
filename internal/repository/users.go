package repository

import (
	"context"
	"fmt"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
)

type Users interface {
	Directory(ctx context.Context) ([]model.User, error)
	SaveDirectory(ctx context.Context, users []model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	// Current returns nil when no session exists or the stored session is unreadable.
	Current(ctx context.Context) (*model.User, error)
	SetCurrent(ctx context.Context, user model.User) error
	ClearCurrent(ctx context.Context) error
}

type usersRepo struct {
	store redisrepo.Default
}

func newUsersRepo(store redisrepo.Default) Users {
	return &usersRepo{
		store: store,
	}
}

func (r *usersRepo) Directory(ctx context.Context) ([]model.User, error) {
	raw, err := r.store.Get(ctx, redisrepo.USERS_KEY)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return model.DecodeUsers(raw), nil
}

func (r *usersRepo) SaveDirectory(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	if err := r.store.SetJSON(ctx, redisrepo.USERS_KEY, users); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

// FindByID returns (nil, nil) when the directory has no such user.
func (r *usersRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.Directory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *usersRepo) Current(ctx context.Context) (*model.User, error) {
	raw, err := r.store.Get(ctx, redisrepo.CURRENT_USER_KEY)
	if err != nil {
		return nil, fmt.Errorf("read current user: %w", err)
	}
	user, ok := model.DecodeUser(raw)
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *usersRepo) SetCurrent(ctx context.Context, user model.User) error {
	if err := r.store.SetJSON(ctx, redisrepo.CURRENT_USER_KEY, user.Session()); err != nil {
		return fmt.Errorf("write current user: %w", err)
	}
	return nil
}

func (r *usersRepo) ClearCurrent(ctx context.Context) error {
	return r.store.Del(ctx, redisrepo.CURRENT_USER_KEY)
}
