package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errMirrorDown = errors.New("mirror down")

// fakeMirror records calls. With fail set, every call returns errMirrorDown.
type fakeMirror struct {
	mu sync.Mutex

	fail  bool
	users map[string]*model.User
	posts map[string][]model.Post

	savedPosts   []model.Post
	deletedPosts []string
	comments     map[string][]model.Comment
	userUpdates  map[string]map[string]interface{}
	savedUsers   []model.User
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		users:       map[string]*model.User{},
		posts:       map[string][]model.Post{},
		comments:    map[string][]model.Comment{},
		userUpdates: map[string]map[string]interface{}{},
	}
}

func (m *fakeMirror) Available() bool { return true }

func (m *fakeMirror) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errMirrorDown
	}
	return m.users[id], nil
}

func (m *fakeMirror) QueryPostsByUser(_ context.Context, userID string) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errMirrorDown
	}
	return m.posts[userID], nil
}

func (m *fakeMirror) UpdateUser(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errMirrorDown
	}
	m.userUpdates[id] = fields
	return nil
}

func (m *fakeMirror) AppendComment(_ context.Context, postID string, comment model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errMirrorDown
	}
	m.comments[postID] = append(m.comments[postID], comment)
	return nil
}

func (m *fakeMirror) SavePost(_ context.Context, post model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errMirrorDown
	}
	m.savedPosts = append(m.savedPosts, post)
	return nil
}

func (m *fakeMirror) DeletePost(_ context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errMirrorDown
	}
	m.deletedPosts = append(m.deletedPosts, postID)
	return nil
}

func (m *fakeMirror) SaveUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errMirrorDown
	}
	m.savedUsers = append(m.savedUsers, user)
	return nil
}

type testEnv struct {
	svc  *Service
	repo *repository.Repository
	mr   *miniredis.Miniredis
}

func newTestEnv(t *testing.T, mirror RemoteMirror) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := zap.NewNop()
	repo := repository.New(rdb, nil, logger, repository.Options{Namespace: "test"})
	svc := New(logger, repo, mirror, Options{AccessSecret: []byte("secret")})
	t.Cleanup(svc.Close)

	return &testEnv{svc: svc, repo: repo, mr: mr}
}

func (e *testEnv) seed(t *testing.T, posts ...model.Post) {
	t.Helper()
	require.NoError(t, e.repo.Posts.Save(context.Background(), posts))
}

func (e *testEnv) stored(t *testing.T) []model.Post {
	t.Helper()
	posts, err := e.repo.Posts.Load(context.Background())
	require.NoError(t, err)
	return posts
}

func testPost(id string, userID string, username string, text string, ts string, likes int64, likedBy ...string) model.Post {
	if likedBy == nil {
		likedBy = []string{}
	}
	return model.Post{
		ID:        id,
		UserID:    userID,
		Username:  username,
		Text:      text,
		Timestamp: ts,
		Likes:     likes,
		LikedBy:   likedBy,
		Comments:  []model.Comment{},
	}
}

func postIDs(posts []model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
