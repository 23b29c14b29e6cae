package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
)

// Project filters posts by the view's keyword, collects users matching it who have no post in the
// result, and orders the posts by the view's sort mode. The input slices are not modified.
func Project(posts []model.Post, users []model.User, view ViewState) model.Projection {
	keyword := strings.ToLower(strings.TrimSpace(view.FilterKeyword))

	filtered := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if keyword == "" || matchesPost(p, keyword) {
			filtered = append(filtered, p)
		}
	}

	matched := []model.User{}
	if keyword != "" {
		matched = matchUsers(users, filtered, keyword)
	}

	SortPosts(filtered, view.SortMode)

	return model.Projection{
		Posts: filtered,
		Users: matched,
	}
}

func matchesPost(p model.Post, keyword string) bool {
	return strings.Contains(strings.ToLower(p.Text), keyword) ||
		strings.Contains(strings.ToLower(p.Username), keyword)
}

// matchUsers never returns a user who already appears through one of the posts.
func matchUsers(users []model.User, posts []model.Post, keyword string) []model.User {
	authors := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		authors[p.UserID] = struct{}{}
	}

	matched := []model.User{}
	for _, u := range users {
		if _, ok := authors[u.ID]; ok {
			continue
		}
		if strings.Contains(strings.ToLower(u.DisplayName()), keyword) {
			matched = append(matched, u)
		}
	}
	return matched
}

type sortKey struct {
	at    time.Time
	valid bool
	likes int64
}

type entry struct {
	post model.Post
	key  sortKey
}

// SortPosts orders posts in place. The sort is stable: posts that compare equal keep their order.
func SortPosts(posts []model.Post, mode SortMode) {
	entries := make([]entry, len(posts))
	for i, p := range posts {
		at, ok := model.ParseTimestamp(p.Timestamp)
		entries[i] = entry{post: p, key: sortKey{at: at, valid: ok, likes: p.Likes}}
	}

	mode = ParseSortMode(string(mode))
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].key, entries[j].key
		switch mode {
		case SortOldest:
			return compareTime(a, b, true) < 0
		case SortLiked:
			if a.likes != b.likes {
				return a.likes > b.likes
			}
			return compareTime(a, b, false) < 0
		default:
			return compareTime(a, b, false) < 0
		}
	})

	for i := range entries {
		posts[i] = entries[i].post
	}
}

// compareTime puts unparseable timestamps after parseable ones and treats two of them as equal.
func compareTime(a, b sortKey, ascending bool) int {
	switch {
	case !a.valid && !b.valid:
		return 0
	case !a.valid:
		return 1
	case !b.valid:
		return -1
	}

	c := a.at.Compare(b.at)
	if !ascending {
		c = -c
	}
	return c
}
