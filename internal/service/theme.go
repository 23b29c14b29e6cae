package service

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/repository"
	"go.uber.org/zap"
)

type themeService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newThemeService(logger *zap.Logger, repo *repository.Repository) Theme {
	return &themeService{
		logger: logger,
		repo:   repo,
	}
}

// Get never fails: an unreadable store reads as the light theme.
func (s *themeService) Get(ctx context.Context) string {
	theme, err := s.repo.Theme.Get(ctx)
	if err != nil {
		s.logger.Sugar().Warnf("failed to read theme: %s", err.Error())
		return repository.ThemeLight
	}
	return theme
}

func (s *themeService) Toggle(ctx context.Context) (string, error) {
	next := repository.ThemeDark
	if s.Get(ctx) == repository.ThemeDark {
		next = repository.ThemeLight
	}

	if err := s.repo.Theme.Set(ctx, next); err != nil {
		s.logger.Sugar().Errorf("failed to save theme: %s", err.Error())
		return "", ErrInternal
	}
	return next, nil
}
