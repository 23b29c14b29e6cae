// Package render turns feed projections into display models. It does no I/O and never fails.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BloggingApp/feed-service/internal/model"
)

const (
	EmptyState    = "No posts or users found"
	EmptyComments = "No comments yet"
)

type CommentItem struct {
	ID       string `json:"id"`
	Initial  string `json:"initial"`
	Username string `json:"username"`
	Text     string `json:"text"`
	TimeAgo  string `json:"timeAgo"`
}

type PostCard struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Username      string        `json:"username"`
	Initial       string        `json:"initial"`
	Text          string        `json:"text"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	Timestamp     string        `json:"timestamp"`
	TimeAgo       string        `json:"timeAgo"`
	Likes         int64         `json:"likes"`
	LikedByViewer bool          `json:"likedByViewer"`
	IsOwn         bool          `json:"isOwn"`
	Comments      []CommentItem `json:"comments"`
	CommentsEmpty string        `json:"commentsEmpty,omitempty"`
}

type UserCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Initial string `json:"initial"`
	Bio     string `json:"bio,omitempty"`
}

type FeedPage struct {
	Users       []UserCard `json:"users"`
	Posts       []PostCard `json:"posts"`
	Empty       string     `json:"empty,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Degraded    bool       `json:"degraded"`
}

// Feed builds the full page for viewerID. An empty viewerID renders an anonymous view.
func Feed(view model.FeedView, viewerID string, now time.Time) FeedPage {
	page := FeedPage{
		Users:       make([]UserCard, 0, len(view.Users)),
		Posts:       make([]PostCard, 0, len(view.Posts)),
		Placeholder: view.Placeholder,
		Degraded:    view.Degraded,
	}
	if view.Placeholder != "" {
		return page
	}

	for i := range view.Users {
		page.Users = append(page.Users, User(&view.Users[i]))
	}
	for i := range view.Posts {
		page.Posts = append(page.Posts, Post(&view.Posts[i], viewerID, now))
	}

	if len(page.Users) == 0 && len(page.Posts) == 0 {
		page.Empty = EmptyState
	}

	return page
}

func Post(p *model.Post, viewerID string, now time.Time) PostCard {
	card := PostCard{
		ID:            p.ID,
		UserID:        p.UserID,
		Username:      p.Username,
		Initial:       initial(p.Username, "U"),
		Text:          p.Text,
		ImageURL:      p.ImageURL,
		Timestamp:     p.Timestamp,
		TimeAgo:       TimeAgo(p.Timestamp, now),
		Likes:         p.Likes,
		LikedByViewer: viewerID != "" && p.IsLikedBy(viewerID),
		IsOwn:         viewerID != "" && p.UserID == viewerID,
		Comments:      RenderComments(p.Comments, now),
	}
	if len(card.Comments) == 0 {
		card.CommentsEmpty = EmptyComments
	}
	return card
}

func User(u *model.User) UserCard {
	return UserCard{
		ID:      u.ID,
		Name:    u.DisplayName(),
		Initial: u.Initial(),
		Bio:     u.Bio,
	}
}

// RenderComments keeps stored order.
func RenderComments(comments []model.Comment, now time.Time) []CommentItem {
	items := make([]CommentItem, 0, len(comments))
	for _, c := range comments {
		username := c.Username
		if username == "" {
			username = "Unknown"
		}
		items = append(items, CommentItem{
			ID:       c.ID,
			Initial:  initial(c.Username, "U"),
			Username: username,
			Text:     c.Text,
			TimeAgo:  TimeAgo(c.Timestamp, now),
		})
	}
	return items
}

// TimeAgo reports whole days, hours or minutes since timestamp. Unparseable and future
// timestamps read as "Just now".
func TimeAgo(timestamp string, now time.Time) string {
	t, ok := model.ParseTimestamp(timestamp)
	if !ok {
		return "Just now"
	}

	diff := now.Sub(t)
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours())
	minutes := int(diff.Minutes())

	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

func initial(name string, fallback string) string {
	if name == "" {
		return fallback
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}
