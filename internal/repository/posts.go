package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultWelcomeText = "Welcome to Social Connect! Share your thoughts and connect with others."

type Posts interface {
	// Load never fails on malformed stored data: it drops invalid records and normalizes the rest.
	// It only returns an error when the store itself cannot be read or the welcome seed cannot be written.
	Load(ctx context.Context) ([]model.Post, error)
	// Save overwrites the whole collection with one write. Last writer wins.
	Save(ctx context.Context, posts []model.Post) error
}

type postsRepo struct {
	store       redisrepo.Default
	users       Users
	logger      *zap.Logger
	welcomeText string
}

func newPostsRepo(store redisrepo.Default, users Users, logger *zap.Logger, welcomeText string) Posts {
	if welcomeText == "" {
		welcomeText = DefaultWelcomeText
	}
	return &postsRepo{
		store:       store,
		users:       users,
		logger:      logger,
		welcomeText: welcomeText,
	}
}

func (r *postsRepo) Load(ctx context.Context) ([]model.Post, error) {
	raw, err := r.store.Get(ctx, redisrepo.POSTS_KEY)
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}

	posts, dropped := DecodePosts(raw)
	if dropped > 0 {
		metrics.DroppedRecords.Add(float64(dropped))
		r.logger.Sugar().Warnf("dropped %d malformed post records", dropped)
	}

	if len(posts) == 0 {
		seeded, err := r.seed(ctx)
		if err != nil {
			return nil, err
		}
		posts = seeded
	}

	return posts, nil
}

// DecodePosts parses a stored posts blob. Anything that is not a JSON array reads as empty.
// dropped counts array elements that were not well-formed posts.
func DecodePosts(raw []byte) (posts []model.Post, dropped int) {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []model.Post{}, 0
	}

	posts = make([]model.Post, 0, len(items))
	for _, item := range items {
		if p, ok := model.DecodePost(item); ok {
			posts = append(posts, p)
		}
	}
	return posts, len(items) - len(posts)
}

// seed creates the welcome post when a session exists. Without one the feed stays empty.
func (r *postsRepo) seed(ctx context.Context) ([]model.Post, error) {
	current, err := r.users.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return []model.Post{}, nil
	}

	posts := []model.Post{NewPost(current, r.welcomeText, "")}
	if err := r.Save(ctx, posts); err != nil {
		return nil, fmt.Errorf("seed welcome post: %w", err)
	}
	r.logger.Sugar().Infof("seeded welcome post for user(%s)", current.ID)

	return posts, nil
}

func (r *postsRepo) Save(ctx context.Context, posts []model.Post) error {
	if posts == nil {
		posts = []model.Post{}
	}
	if err := r.store.SetJSON(ctx, redisrepo.POSTS_KEY, posts); err != nil {
		return fmt.Errorf("write posts: %w", err)
	}
	return nil
}

// NewID returns a time-ordered id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewPost builds a post authored by user with a snapshot of the user's display name.
func NewPost(user *model.User, text string, imageURL string) model.Post {
	return model.Post{
		ID:        NewID(),
		UserID:    user.ID,
		Username:  user.DisplayName(),
		Text:      text,
		ImageURL:  imageURL,
		Timestamp: model.Now(),
		Likes:     0,
		LikedBy:   []string{},
		Comments:  []model.Comment{},
	}
}
