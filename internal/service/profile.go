package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"go.uber.org/zap"
)

var genders = map[string]struct{}{
	"Male":              {},
	"Female":            {},
	"Other":             {},
	"Prefer not to say": {},
}

// ProfileUpdate carries optional fields. A nil field is left untouched; an empty Gender or DOB is ignored.
type ProfileUpdate struct {
	Bio    *string
	Gender *string
	DOB    *string
}

type profileService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	mirror  *mirrorRunner
	usersMu *sync.Mutex
}

func newProfileService(logger *zap.Logger, repo *repository.Repository, mirror *mirrorRunner, usersMu *sync.Mutex) Profile {
	return &profileService{
		logger:  logger,
		repo:    repo,
		mirror:  mirror,
		usersMu: usersMu,
	}
}

func (s *profileService) Get(ctx context.Context, userID string, viewerID string) (*model.Profile, error) {
	posts, err := s.repo.Posts.Load(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load posts for user(%s) profile: %s", userID, err.Error())
		return nil, ErrInternal
	}

	user, err := s.resolveUser(ctx, userID, posts)
	if err != nil {
		return nil, err
	}

	var userPosts []model.Post
	ok := s.mirror.Call(ctx, "query posts by user", func(ctx context.Context, m RemoteMirror) error {
		userPosts, err = m.QueryPostsByUser(ctx, userID)
		return err
	})
	if !ok || userPosts == nil {
		userPosts = make([]model.Post, 0)
		for _, p := range posts {
			if p.UserID == userID {
				userPosts = append(userPosts, p)
			}
		}
	}
	feed.SortPosts(userPosts, feed.SortLatest)

	var totalLikes int64
	for _, p := range userPosts {
		totalLikes += p.Likes
	}

	return &model.Profile{
		User:       user.Session(),
		Posts:      userPosts,
		TotalLikes: totalLikes,
		IsOwn:      viewerID != "" && viewerID == user.ID,
	}, nil
}

// resolveUser tries the mirror, the local directory, the current session and finally a stub
// built from the user's first post.
func (s *profileService) resolveUser(ctx context.Context, userID string, posts []model.Post) (*model.User, error) {
	var user *model.User
	s.mirror.Call(ctx, "get user", func(ctx context.Context, m RemoteMirror) error {
		var err error
		user, err = m.GetUser(ctx, userID)
		return err
	})
	if user != nil {
		return user, nil
	}

	user, err := s.repo.Users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) in directory: %s", userID, err.Error())
		return nil, ErrInternal
	}
	if user != nil {
		return user, nil
	}

	current, err := s.repo.Users.Current(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read current user: %s", err.Error())
		return nil, ErrInternal
	}
	if current != nil && current.ID == userID {
		return current, nil
	}

	for _, p := range posts {
		if p.UserID == userID {
			stub := &model.User{ID: userID, Name: p.Username}
			stub.ProfileInitial = stub.Initial()
			return stub, nil
		}
	}

	return nil, ErrUserNotFound
}

func (s *profileService) Update(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error) {
	fields := map[string]interface{}{}

	if update.Bio != nil {
		fields["bio"] = strings.TrimSpace(*update.Bio)
	}
	if update.Gender != nil && *update.Gender != "" {
		if _, ok := genders[*update.Gender]; !ok {
			return nil, ErrInvalidGender
		}
		fields["gender"] = *update.Gender
	}
	if update.DOB != nil && *update.DOB != "" {
		if _, err := time.Parse(time.DateOnly, *update.DOB); err != nil {
			return nil, ErrInvalidDOB
		}
		fields["dob"] = *update.DOB
	}

	return s.apply(ctx, userID, fields)
}

func (s *profileService) ChangeInitial(ctx context.Context, userID string, initial string) (*model.User, error) {
	initial = strings.TrimSpace(initial)
	if utf8.RuneCountInString(initial) != 1 {
		return nil, ErrInvalidInitial
	}

	return s.apply(ctx, userID, map[string]interface{}{
		"profileInitial": strings.ToUpper(initial),
	})
}

// apply writes fields to the directory entry and the current session, then mirrors them.
func (s *profileService) apply(ctx context.Context, userID string, fields map[string]interface{}) (*model.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := s.repo.Users.Directory(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load users for user(%s) update: %s", userID, err.Error())
		return nil, ErrInternal
	}

	current, err := s.repo.Users.Current(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read current user: %s", err.Error())
		return nil, ErrInternal
	}

	var updated *model.User
	for i := range users {
		if users[i].ID == userID {
			applyFields(&users[i], fields)
			updated = &users[i]
			break
		}
	}

	if updated != nil {
		if err := s.repo.Users.SaveDirectory(ctx, users); err != nil {
			s.logger.Sugar().Errorf("failed to save user(%s) update: %s", userID, err.Error())
			return nil, ErrInternal
		}
	}

	if current != nil && current.ID == userID {
		applyFields(current, fields)
		if err := s.repo.Users.SetCurrent(ctx, *current); err != nil {
			s.logger.Sugar().Errorf("failed to save current user(%s): %s", userID, err.Error())
			return nil, ErrInternal
		}
		if updated == nil {
			updated = current
		}
	}

	if updated == nil {
		return nil, ErrUserNotFound
	}

	if len(fields) > 0 {
		s.mirror.Go("update user", func(ctx context.Context, m RemoteMirror) error {
			return m.UpdateUser(ctx, userID, fields)
		})
	}

	result := updated.Session()
	return &result, nil
}

func applyFields(user *model.User, fields map[string]interface{}) {
	for k, v := range fields {
		value, _ := v.(string)
		switch k {
		case "bio":
			user.Bio = value
		case "gender":
			user.Gender = value
		case "dob":
			user.DOB = value
		case "profileInitial":
			user.ProfileInitial = value
		}
	}
}
