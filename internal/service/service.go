package service

import (
	"context"
	"sync"
	"time"

	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"go.uber.org/zap"
)

type Feed interface {
	View(ctx context.Context, sess *feed.Session) model.FeedView
	SetSort(ctx context.Context, sess *feed.Session, mode string) model.FeedView
	SetFilter(ctx context.Context, sess *feed.Session, keyword string) model.FeedView
	ToggleLike(ctx context.Context, sess *feed.Session, postID string, userID string) (model.MutationResult, error)
	AddComment(ctx context.Context, sess *feed.Session, postID string, userID string, username string, text string) (model.MutationResult, error)
	DeletePost(ctx context.Context, sess *feed.Session, postID string, requesterID string) (model.MutationResult, error)
	CreatePost(ctx context.Context, sess *feed.Session, author model.User, text string, imageURL string) (*model.Post, model.FeedView, error)
}

type Profile interface {
	Get(ctx context.Context, userID string, viewerID string) (*model.Profile, error)
	Update(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error)
	ChangeInitial(ctx context.Context, userID string, initial string) (*model.User, error)
}

type Auth interface {
	Signup(ctx context.Context, name string, email string, password string) (*model.User, string, error)
	Login(ctx context.Context, email string, password string) (*model.User, string, error)
	Logout(ctx context.Context) error
	// User resolves the account behind a verified token subject.
	User(ctx context.Context, id string) (*model.User, error)
}

type Theme interface {
	Get(ctx context.Context) string
	Toggle(ctx context.Context) (string, error)
}

type Options struct {
	AccessSecret  []byte
	TokenTTL      time.Duration
	MirrorTimeout time.Duration
}

type Service struct {
	Feed
	Profile
	Auth
	Theme

	mirror *mirrorRunner
}

func New(logger *zap.Logger, repo *repository.Repository, mirror RemoteMirror, opts Options) *Service {
	runner := newMirrorRunner(mirror, logger, opts.MirrorTimeout)
	usersMu := &sync.Mutex{}

	return &Service{
		Feed:    newFeedService(logger, repo, runner),
		Profile: newProfileService(logger, repo, runner, usersMu),
		Auth:    newAuthService(logger, repo, runner, usersMu, opts.AccessSecret, opts.TokenTTL),
		Theme:   newThemeService(logger, repo),
		mirror:  runner,
	}
}

// Close waits for in-flight mirror writes.
func (s *Service) Close() {
	s.mirror.Wait()
}
