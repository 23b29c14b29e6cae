package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = []byte("test-secret")

type client struct {
	t       *testing.T
	router  *gin.Engine
	token   string
	session string
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := zap.NewNop()
	repo := repository.New(rdb, nil, logger, repository.Options{Namespace: "http"})
	services := service.New(logger, repo, nil, service.Options{AccessSecret: secret})
	t.Cleanup(services.Close)

	h := New(logger, services, feed.NewSessions(), Options{AccessSecret: secret})
	return &client{t: t, router: h.InitRoutes()}
}

func (c *client) do(method string, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.session != "" {
		req.Header.Set(SessionHeader, c.session)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if s := w.Header().Get(SessionHeader); s != "" {
		c.session = s
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (c *client) signup(name string, email string) dto.AuthResponse {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/v1/auth/signup", dto.SignupRequest{Name: name, Email: email, Password: "hunter22"})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[dto.AuthResponse](c.t, w)
	c.token = resp.Token
	return resp
}

func TestFeedFlow(t *testing.T) {
	c := newClient(t)
	ann := c.signup("Ann", "ann@example.com")

	w := c.do(http.MethodGet, "/api/v1/feed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, c.session)

	page := decode[dto.FeedResponse](t, w)
	require.Len(t, page.Page.Posts, 1, "welcome post is seeded for the signed-in user")
	assert.True(t, page.Page.Posts[0].IsOwn)

	w = c.do(http.MethodPost, "/api/v1/posts", dto.CreatePostRequest{Text: "my cat is great"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.CreatePostResponse](t, w)
	postID := created.Post.ID
	assert.Equal(t, ann.User.ID, created.Post.UserID)

	w = c.do(http.MethodPut, "/api/v1/feed/search", dto.SearchRequest{Q: "CAT"})
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[dto.FeedResponse](t, w)
	require.Len(t, page.Page.Posts, 1)
	assert.Equal(t, "CAT", page.View.FilterKeyword)

	w = c.do(http.MethodPost, "/api/v1/posts/"+postID+"/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mutation := decode[dto.MutationResponse](t, w)
	assert.True(t, mutation.Applied)
	require.Len(t, mutation.Page.Posts, 1, "search survives the mutation")
	assert.True(t, mutation.Page.Posts[0].LikedByViewer)
	assert.Equal(t, int64(1), mutation.Page.Posts[0].Likes)

	w = c.do(http.MethodPost, "/api/v1/posts/"+postID+"/comments", dto.CreateCommentRequest{Text: "purr"})
	require.Equal(t, http.StatusOK, w.Code)
	mutation = decode[dto.MutationResponse](t, w)
	require.Len(t, mutation.Page.Posts[0].Comments, 1)
	assert.Equal(t, "Ann", mutation.Page.Posts[0].Comments[0].Username)

	w = c.do(http.MethodPost, "/api/v1/posts/"+postID+"/comments", dto.CreateCommentRequest{Text: "   "})
	require.Equal(t, http.StatusOK, w.Code)
	mutation = decode[dto.MutationResponse](t, w)
	assert.False(t, mutation.Applied)
	assert.Len(t, mutation.Page.Posts[0].Comments, 1)

	w = c.do(http.MethodPost, "/api/v1/posts/missing/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[dto.MutationResponse](t, w).Applied)

	w = c.do(http.MethodDelete, "/api/v1/posts/"+postID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mutation = decode[dto.MutationResponse](t, w)
	assert.True(t, mutation.Applied)
	assert.Empty(t, mutation.Page.Posts)
	assert.Equal(t, "No posts or users found", mutation.Page.Empty)
}

func TestSortIsPerSession(t *testing.T) {
	c := newClient(t)
	c.signup("Ann", "ann@example.com")

	w := c.do(http.MethodPut, "/api/v1/feed/sort", dto.SortRequest{Mode: "oldest"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, feed.SortOldest, decode[dto.FeedResponse](t, w).View.SortMode)

	w = c.do(http.MethodGet, "/api/v1/feed", nil)
	assert.Equal(t, feed.SortOldest, decode[dto.FeedResponse](t, w).View.SortMode)

	c.session = ""
	w = c.do(http.MethodGet, "/api/v1/feed", nil)
	assert.Equal(t, feed.SortLatest, decode[dto.FeedResponse](t, w).View.SortMode)

	w = c.do(http.MethodPut, "/api/v1/feed/sort", dto.SortRequest{Mode: "popular"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodPost, "/api/v1/posts", dto.CreatePostRequest{Text: "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.token = "garbage"
	w = c.do(http.MethodPost, "/api/v1/posts/p1/like", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodGet, "/api/v1/feed", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupErrors(t *testing.T) {
	c := newClient(t)
	c.signup("Ann", "ann@example.com")

	w := c.do(http.MethodPost, "/api/v1/auth/signup", dto.SignupRequest{Name: "Ann", Email: "ann@example.com", Password: "hunter22"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/api/v1/auth/signup", dto.SignupRequest{Name: "A", Email: "a@example.com", Password: "hunter22"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Email: "ann@example.com", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteOthersPostIsForbidden(t *testing.T) {
	c := newClient(t)
	c.signup("Ann", "ann@example.com")
	w := c.do(http.MethodPost, "/api/v1/posts", dto.CreatePostRequest{Text: "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := decode[dto.CreatePostResponse](t, w).Post.ID

	c.signup("Bob", "bob@example.com")
	w = c.do(http.MethodDelete, "/api/v1/posts/"+postID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProfileEndpoints(t *testing.T) {
	c := newClient(t)
	ann := c.signup("Ann", "ann@example.com")
	w := c.do(http.MethodPost, "/api/v1/posts", dto.CreatePostRequest{Text: "hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	bio := "I like cats"
	w = c.do(http.MethodPatch, "/api/v1/profile", dto.UpdateProfileRequest{Bio: &bio})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodPut, "/api/v1/profile/initial", dto.ChangeInitialRequest{Initial: "q"})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPut, "/api/v1/profile/initial", dto.ChangeInitialRequest{Initial: "qq"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodGet, "/api/v1/users/"+ann.User.ID+"/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[dto.ProfileResponse](t, w)
	assert.Equal(t, "I like cats", profile.User.Bio)
	assert.Equal(t, "Q", profile.Initial)
	assert.True(t, profile.IsOwn)
	assert.Equal(t, profile.PostCount, len(profile.Posts))

	c.token = ""
	w = c.do(http.MethodGet, "/api/v1/users/"+ann.User.ID+"/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[dto.ProfileResponse](t, w).IsOwn)

	w = c.do(http.MethodGet, "/api/v1/users/nobody/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestThemeAndMetrics(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/api/v1/theme", nil)
	assert.Equal(t, "light", decode[dto.ThemeResponse](t, w).Theme)

	w = c.do(http.MethodPost, "/api/v1/theme/toggle", nil)
	assert.Equal(t, "dark", decode[dto.ThemeResponse](t, w).Theme)

	w = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
