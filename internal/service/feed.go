package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"go.uber.org/zap"
)

const (
	MaxPostTextLength = 1000

	ErrorPlaceholder = "Error loading posts. Please refresh the page."
)

var errPostMissing = errors.New("post not found")

type feedService struct {
	// mu serializes every reload, change and persist of the posts collection.
	mu sync.Mutex

	logger  *zap.Logger
	repo    *repository.Repository
	mirror  *mirrorRunner
	project func(posts []model.Post, users []model.User, view feed.ViewState) model.Projection
}

func newFeedService(logger *zap.Logger, repo *repository.Repository, mirror *mirrorRunner) Feed {
	return &feedService{
		logger:  logger,
		repo:    repo,
		mirror:  mirror,
		project: feed.Project,
	}
}

func (s *feedService) View(ctx context.Context, sess *feed.Session) model.FeedView {
	return s.render(ctx, sess)
}

func (s *feedService) SetSort(ctx context.Context, sess *feed.Session, mode string) model.FeedView {
	sess.SetSort(mode)
	return s.render(ctx, sess)
}

func (s *feedService) SetFilter(ctx context.Context, sess *feed.Session, keyword string) model.FeedView {
	sess.SetFilter(keyword)
	return s.render(ctx, sess)
}

// ToggleLike adds userID to the post's likedBy set or removes it, moving likes by one (never below 0).
func (s *feedService) ToggleLike(ctx context.Context, sess *feed.Session, postID string, userID string) (model.MutationResult, error) {
	var updated model.Post
	result, err := s.mutate(ctx, sess, "toggle_like", postID, func(post *model.Post) error {
		if post.LikedBy == nil {
			post.LikedBy = []string{}
		}

		index := -1
		for i, id := range post.LikedBy {
			if id == userID {
				index = i
				break
			}
		}

		if index > -1 {
			post.LikedBy = append(post.LikedBy[:index], post.LikedBy[index+1:]...)
			post.Likes = max(0, post.Likes-1)
		} else {
			post.LikedBy = append(post.LikedBy, userID)
			post.Likes++
		}
		updated = *post
		return nil
	})
	if err == nil && result.Applied {
		s.mirror.Go("save post", func(ctx context.Context, m RemoteMirror) error {
			return m.SavePost(ctx, updated)
		})
	}

	return result, err
}

// AddComment appends a comment to the post. Blank text is a no-op that still returns the current view.
func (s *feedService) AddComment(ctx context.Context, sess *feed.Session, postID string, userID string, username string, text string) (model.MutationResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.Mutations.WithLabelValues("add_comment", metrics.ResultNoop).Inc()
		return model.MutationResult{View: s.render(ctx, sess)}, nil
	}
	if username == "" {
		username = "Unknown"
	}

	comment := model.Comment{
		ID:        repository.NewID(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		Timestamp: model.Now(),
	}

	result, err := s.mutate(ctx, sess, "add_comment", postID, func(post *model.Post) error {
		if post.Comments == nil {
			post.Comments = []model.Comment{}
		}
		post.Comments = append(post.Comments, comment)
		return nil
	})
	if err == nil && result.Applied {
		s.mirror.Go("append comment", func(ctx context.Context, m RemoteMirror) error {
			return m.AppendComment(ctx, postID, comment)
		})
	}

	return result, err
}

// DeletePost removes the post permanently. A non-empty requesterID must own the post.
func (s *feedService) DeletePost(ctx context.Context, sess *feed.Session, postID string, requesterID string) (model.MutationResult, error) {
	const op = "delete_post"

	err := s.update(ctx, func(posts []model.Post) ([]model.Post, error) {
		kept := make([]model.Post, 0, len(posts))
		for _, p := range posts {
			if p.ID != postID {
				kept = append(kept, p)
				continue
			}
			if requesterID != "" && p.UserID != requesterID {
				return nil, ErrNotPostOwner
			}
		}
		if len(kept) == len(posts) {
			return nil, errPostMissing
		}
		return kept, nil
	})
	switch {
	case errors.Is(err, errPostMissing):
		return s.notFound(ctx, sess, op, postID), nil
	case errors.Is(err, ErrNotPostOwner):
		metrics.Mutations.WithLabelValues(op, metrics.ResultNoop).Inc()
		return model.MutationResult{View: s.render(ctx, sess)}, ErrNotPostOwner
	case err != nil:
		return s.failed(ctx, sess, op, postID, err)
	}

	metrics.Mutations.WithLabelValues(op, metrics.ResultApplied).Inc()

	s.mirror.Go("delete post", func(ctx context.Context, m RemoteMirror) error {
		return m.DeletePost(ctx, postID)
	})

	return model.MutationResult{View: s.render(ctx, sess), Applied: true}, nil
}

// CreatePost validates the input and puts the new post at the front of the collection.
func (s *feedService) CreatePost(ctx context.Context, sess *feed.Session, author model.User, text string, imageURL string) (*model.Post, model.FeedView, error) {
	const op = "create_post"

	text = strings.TrimSpace(text)
	imageURL = strings.TrimSpace(imageURL)
	if err := validatePost(text, imageURL); err != nil {
		return nil, s.render(ctx, sess), err
	}

	post := repository.NewPost(&author, text, imageURL)
	err := s.update(ctx, func(posts []model.Post) ([]model.Post, error) {
		return append([]model.Post{post}, posts...), nil
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", author.ID, err.Error())
		metrics.Mutations.WithLabelValues(op, metrics.ResultError).Inc()
		return nil, s.render(ctx, sess), ErrInternal
	}
	metrics.Mutations.WithLabelValues(op, metrics.ResultApplied).Inc()

	s.mirror.Go("save post", func(ctx context.Context, m RemoteMirror) error {
		return m.SavePost(ctx, post)
	})

	return &post, s.render(ctx, sess), nil
}

func validatePost(text string, imageURL string) error {
	if text == "" || utf8.RuneCountInString(text) > MaxPostTextLength {
		return ErrInvalidPostText
	}
	if imageURL != "" {
		u, err := url.Parse(imageURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidImageURL
		}
	}
	return nil
}

// mutate runs reload, locate, mutate and persist against the latest stored snapshot,
// then re-projects with the session's current view state.
func (s *feedService) mutate(ctx context.Context, sess *feed.Session, op string, postID string, fn func(post *model.Post) error) (model.MutationResult, error) {
	err := s.update(ctx, func(posts []model.Post) ([]model.Post, error) {
		for i := range posts {
			if posts[i].ID == postID {
				if err := fn(&posts[i]); err != nil {
					return nil, err
				}
				return posts, nil
			}
		}
		return nil, errPostMissing
	})
	switch {
	case errors.Is(err, errPostMissing):
		return s.notFound(ctx, sess, op, postID), nil
	case err != nil:
		return s.failed(ctx, sess, op, postID, err)
	}

	metrics.Mutations.WithLabelValues(op, metrics.ResultApplied).Inc()
	return model.MutationResult{View: s.render(ctx, sess), Applied: true}, nil
}

// update loads the posts, applies change and saves the result while holding mu.
// Nothing is saved when change returns an error.
func (s *feedService) update(ctx context.Context, change func(posts []model.Post) ([]model.Post, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.repo.Posts.Load(ctx)
	if err != nil {
		return err
	}

	posts, err = change(posts)
	if err != nil {
		return err
	}

	return s.repo.Posts.Save(ctx, posts)
}

func (s *feedService) notFound(ctx context.Context, sess *feed.Session, op string, postID string) model.MutationResult {
	s.logger.Sugar().Warnf("%s: post(%s) not found", op, postID)
	metrics.Mutations.WithLabelValues(op, metrics.ResultNoop).Inc()
	return model.MutationResult{View: s.render(ctx, sess)}
}

func (s *feedService) failed(ctx context.Context, sess *feed.Session, op string, postID string, err error) (model.MutationResult, error) {
	s.logger.Sugar().Errorf("failed to %s post(%s): %s", op, postID, err.Error())
	metrics.Mutations.WithLabelValues(op, metrics.ResultError).Inc()
	return model.MutationResult{View: s.render(ctx, sess)}, ErrInternal
}

// render reloads posts and users and projects them with the session's view state.
// If that fails it falls back to the unsorted reloaded list, then to the error placeholder.
func (s *feedService) render(ctx context.Context, sess *feed.Session) model.FeedView {
	view := sess.View()

	projection, err := s.safeProject(ctx, view)
	if err == nil {
		return model.FeedView{Projection: projection}
	}
	s.logger.Sugar().Errorf("failed to project feed (sort=%s, q=%q): %s", view.SortMode, view.FilterKeyword, err.Error())

	posts, err := s.repo.Posts.Load(ctx)
	if err == nil {
		metrics.ProjectionFallbacks.WithLabelValues(metrics.StageRaw).Inc()
		return model.FeedView{
			Projection: model.Projection{Posts: posts, Users: []model.User{}},
			Degraded:   true,
		}
	}
	s.logger.Sugar().Errorf("failed to load posts for fallback render: %s", err.Error())

	metrics.ProjectionFallbacks.WithLabelValues(metrics.StagePlaceholder).Inc()
	return model.FeedView{
		Projection:  model.Projection{Posts: []model.Post{}, Users: []model.User{}},
		Placeholder: ErrorPlaceholder,
	}
}

func (s *feedService) safeProject(ctx context.Context, view feed.ViewState) (projection model.Projection, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("projection panicked: %v", r)
		}
	}()

	posts, err := s.repo.Posts.Load(ctx)
	if err != nil {
		return model.Projection{}, err
	}

	var users []model.User
	if strings.TrimSpace(view.FilterKeyword) != "" {
		users, err = s.repo.Users.Directory(ctx)
		if err != nil {
			return model.Projection{}, err
		}
	}

	return s.project(posts, users, view), nil
}
