package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ts1 = "2024-01-01T10:00:00.000Z"
	ts2 = "2024-01-02T10:00:00.000Z"
	ts3 = "2024-01-03T10:00:00.000Z"
)

func TestToggleLike_TwiceRestoresState(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 3, "a", "b", "c"))
	sess := feed.NewSession()

	result, err := env.svc.Feed.ToggleLike(ctx, sess, "p1", "me")
	require.NoError(t, err)
	require.True(t, result.Applied)

	p := env.stored(t)[0]
	assert.Equal(t, int64(4), p.Likes)
	assert.Equal(t, []string{"a", "b", "c", "me"}, p.LikedBy)

	_, err = env.svc.Feed.ToggleLike(ctx, sess, "p1", "me")
	require.NoError(t, err)

	p = env.stored(t)[0]
	assert.Equal(t, int64(3), p.Likes)
	assert.Equal(t, []string{"a", "b", "c"}, p.LikedBy)
}

func TestToggleLike_ConcurrentLikersAreAllKept(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 0))

	const likers = 50
	var wg sync.WaitGroup
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.svc.Feed.ToggleLike(context.Background(), feed.NewSession(), "p1", fmt.Sprintf("u%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p := env.stored(t)[0]
	assert.Equal(t, int64(likers), p.Likes)
	assert.Len(t, p.LikedBy, likers)
}

func TestFeed_ConcurrentCreateCommentAndDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t,
		testPost("p1", "u1", "Ann", "keep", ts1, 0),
		testPost("p2", "u1", "Ann", "drop", ts2, 0),
	)
	author := model.User{ID: "u2", Name: "Bob"}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _, err := env.svc.Feed.CreatePost(context.Background(), feed.NewSession(), author, fmt.Sprintf("post %d", i), "")
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := env.svc.Feed.AddComment(context.Background(), feed.NewSession(), "p1", "u2", "Bob", fmt.Sprintf("comment %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := env.svc.Feed.DeletePost(context.Background(), feed.NewSession(), "p2", "")
		assert.NoError(t, err)
	}()
	wg.Wait()

	posts := env.stored(t)
	assert.Len(t, posts, 11)
	for _, p := range posts {
		assert.NotEqual(t, "p2", p.ID)
		if p.ID == "p1" {
			assert.Len(t, p.Comments, 10)
		}
	}
}

func TestToggleLike_UnlikeFloorsAtZero(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 0, "me"))

	_, err := env.svc.Feed.ToggleLike(context.Background(), feed.NewSession(), "p1", "me")
	require.NoError(t, err)

	p := env.stored(t)[0]
	assert.Equal(t, int64(0), p.Likes)
	assert.Empty(t, p.LikedBy)
}

func TestToggleLike_CoercesMalformedLikeFields(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mr.Set("test:posts", `[{"id":"p1","userId":"u1","username":"Ann","timestamp":"`+ts1+`","likes":"many","likedBy":"me"}]`)

	_, err := env.svc.Feed.ToggleLike(context.Background(), feed.NewSession(), "p1", "me")
	require.NoError(t, err)

	p := env.stored(t)[0]
	assert.Equal(t, int64(1), p.Likes)
	assert.Equal(t, []string{"me"}, p.LikedBy)
}

func TestToggleLike_MissingPostIsNoop(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 0))

	result, err := env.svc.Feed.ToggleLike(context.Background(), feed.NewSession(), "nope", "me")
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.Equal(t, []string{"p1"}, postIDs(result.View.Posts))
	assert.Equal(t, int64(0), env.stored(t)[0].Likes)
}

func TestAddComment_AppendsInOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 0))
	sess := feed.NewSession()

	for _, text := range []string{"first", "second"} {
		result, err := env.svc.Feed.AddComment(ctx, sess, "p1", "u2", "Bob", "  "+text+" ")
		require.NoError(t, err)
		require.True(t, result.Applied)
	}

	comments := env.stored(t)[0].Comments
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "Bob", comments[0].Username)
	assert.NotEqual(t, comments[0].ID, comments[1].ID)
	_, ok := model.ParseTimestamp(comments[0].Timestamp)
	assert.True(t, ok)
}

func TestAddComment_BlankTextChangesNothing(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 0))

	result, err := env.svc.Feed.AddComment(context.Background(), feed.NewSession(), "p1", "u2", "Bob", "   ")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Len(t, result.View.Posts, 1)
	assert.Empty(t, env.stored(t)[0].Comments)
}

func TestAddComment_KeepsSortAndFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t,
		testPost("p3", "u1", "Ann", "cat three", ts3, 0),
		testPost("p1", "u1", "Ann", "cat one", ts1, 0),
		testPost("p2", "u2", "Bob", "dog two", ts2, 0),
	)
	sess := feed.NewSession()
	sess.SetSort("oldest")
	sess.SetFilter("cat")

	result, err := env.svc.Feed.AddComment(context.Background(), sess, "p3", "u2", "Bob", "nice")
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p3"}, postIDs(result.View.Posts))
	assert.Equal(t, feed.ViewState{SortMode: feed.SortOldest, FilterKeyword: "cat"}, sess.View())
}

func TestDeletePost_IsPermanent(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seed(t,
		testPost("p1", "u1", "Ann", "one", ts1, 0),
		testPost("p2", "u1", "Ann", "two", ts2, 0),
	)

	result, err := env.svc.Feed.DeletePost(ctx, feed.NewSession(), "p1", "u1")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []string{"p2"}, postIDs(result.View.Posts))

	for i := 0; i < 2; i++ {
		assert.NotContains(t, postIDs(env.stored(t)), "p1")
	}

	result, err = env.svc.Feed.DeletePost(ctx, feed.NewSession(), "p1", "u1")
	require.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestDeletePost_RequiresOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, testPost("p1", "u1", "Ann", "one", ts1, 0))

	_, err := env.svc.Feed.DeletePost(context.Background(), feed.NewSession(), "p1", "intruder")
	assert.ErrorIs(t, err, ErrNotPostOwner)
	assert.Len(t, env.stored(t), 1)
}

func TestCreatePost_PrependsAndValidates(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seed(t, testPost("old", "u1", "Ann", "old", ts1, 0))
	author := model.User{ID: "u2", Name: "Bob"}
	sess := feed.NewSession()

	_, _, err := env.svc.Feed.CreatePost(ctx, sess, author, "   ", "")
	assert.ErrorIs(t, err, ErrInvalidPostText)

	_, _, err = env.svc.Feed.CreatePost(ctx, sess, author, strings.Repeat("x", MaxPostTextLength+1), "")
	assert.ErrorIs(t, err, ErrInvalidPostText)

	_, _, err = env.svc.Feed.CreatePost(ctx, sess, author, "hello", "not a url")
	assert.ErrorIs(t, err, ErrInvalidImageURL)

	post, view, err := env.svc.Feed.CreatePost(ctx, sess, author, " hello ", "https://img.example/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, "Bob", post.Username)
	assert.Equal(t, post.ID, view.Posts[0].ID)

	stored := env.stored(t)
	require.Len(t, stored, 2)
	assert.Equal(t, post.ID, stored[0].ID)
}

func TestView_LikedScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t,
		testPost("t1", "u1", "Ann", "a", ts1, 5),
		testPost("t2", "u1", "Ann", "b", ts2, 1),
		testPost("t3", "u1", "Ann", "c", ts3, 5),
	)
	sess := feed.NewSession()

	view := env.svc.Feed.SetSort(context.Background(), sess, "liked")

	assert.Equal(t, []string{"t3", "t1", "t2"}, postIDs(view.Posts))
}

func TestView_SearchIncludesUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seed(t, testPost("p1", "u1", "Ann", "hello", ts1, 0))
	require.NoError(t, env.repo.Users.SaveDirectory(ctx, []model.User{{ID: "u1", Name: "Ann"}, {ID: "u2", Name: "Annika"}}))

	view := env.svc.Feed.SetFilter(ctx, feed.NewSession(), "ann")

	assert.Equal(t, []string{"p1"}, postIDs(view.Posts))
	require.Len(t, view.Users, 1)
	assert.Equal(t, "u2", view.Users[0].ID)
}

func TestView_FallsBackToRawListWhenProjectionPanics(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t,
		testPost("p1", "u1", "Ann", "one", ts1, 0),
		testPost("p2", "u1", "Ann", "two", ts2, 0),
	)
	env.svc.Feed.(*feedService).project = func([]model.Post, []model.User, feed.ViewState) model.Projection {
		panic("boom")
	}

	view := env.svc.Feed.View(context.Background(), feed.NewSession())

	assert.True(t, view.Degraded)
	assert.Equal(t, []string{"p1", "p2"}, postIDs(view.Posts))
	assert.Empty(t, view.Placeholder)
}

func TestView_PlaceholderWhenStoreIsDown(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mr.Close()

	view := env.svc.Feed.View(context.Background(), feed.NewSession())

	assert.Equal(t, ErrorPlaceholder, view.Placeholder)
	assert.Empty(t, view.Posts)
}

func TestMutations_StoreDownReportsInternalError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mr.Close()

	result, err := env.svc.Feed.ToggleLike(context.Background(), feed.NewSession(), "p1", "me")

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, ErrorPlaceholder, result.View.Placeholder)
}

func TestMutations_MirrorFailureDoesNotBlockLocalWrite(t *testing.T) {
	mirror := newFakeMirror()
	mirror.fail = true
	env := newTestEnv(t, mirror)
	ctx := context.Background()
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 0))

	result, err := env.svc.Feed.AddComment(ctx, feed.NewSession(), "p1", "u2", "Bob", "still saved")
	require.NoError(t, err)
	assert.True(t, result.Applied)

	env.svc.Close()
	assert.Len(t, env.stored(t)[0].Comments, 1)
}

func TestMutations_AreMirrored(t *testing.T) {
	mirror := newFakeMirror()
	env := newTestEnv(t, mirror)
	ctx := context.Background()
	sess := feed.NewSession()
	env.seed(t, testPost("p1", "u1", "Ann", "hi", ts1, 0))

	_, err := env.svc.Feed.AddComment(ctx, sess, "p1", "u2", "Bob", "hey")
	require.NoError(t, err)
	_, err = env.svc.Feed.ToggleLike(ctx, sess, "p1", "u2")
	require.NoError(t, err)
	_, err = env.svc.Feed.DeletePost(ctx, sess, "p1", "")
	require.NoError(t, err)

	env.svc.Close()

	mirror.mu.Lock()
	defer mirror.mu.Unlock()
	require.Len(t, mirror.comments["p1"], 1)
	assert.Equal(t, "hey", mirror.comments["p1"][0].Text)
	require.Len(t, mirror.savedPosts, 1)
	assert.Equal(t, int64(1), mirror.savedPosts[0].Likes)
	assert.Equal(t, []string{"p1"}, mirror.deletedPosts)
}
