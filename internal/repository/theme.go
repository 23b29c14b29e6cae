package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrUnknownTheme = errors.New("theme must be light or dark")

type Theme interface {
	// Get returns ThemeLight when nothing (or something unreadable) is stored.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, theme string) error
}

type themeRepo struct {
	store redisrepo.Default
}

func newThemeRepo(store redisrepo.Default) Theme {
	return &themeRepo{
		store: store,
	}
}

func (r *themeRepo) Get(ctx context.Context) (string, error) {
	theme, err := redisrepo.Get[string](r.store, ctx, redisrepo.THEME_KEY)
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return "", err
		}
		// older clients stored the bare word, not a JSON string
		raw, err := r.store.Get(ctx, redisrepo.THEME_KEY)
		if err != nil {
			return "", err
		}
		s := string(raw)
		theme = &s
	}

	if theme == nil || (*theme != ThemeDark && *theme != ThemeLight) {
		return ThemeLight, nil
	}
	return *theme, nil
}

func (r *themeRepo) Set(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrUnknownTheme
	}
	return r.store.SetJSON(ctx, redisrepo.THEME_KEY, theme)
}
