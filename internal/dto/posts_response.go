package dto

import (
	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/render"
)

type FeedResponse struct {
	Session string          `json:"session"`
	View    feed.ViewState  `json:"view"`
	Page    render.FeedPage `json:"page"`
}

type MutationResponse struct {
	FeedResponse
	Applied bool `json:"applied"`
}

type CreatePostResponse struct {
	FeedResponse
	Post render.PostCard `json:"post"`
}

type AuthResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type ProfileResponse struct {
	User       model.User        `json:"user"`
	Initial    string            `json:"initial"`
	Posts      []render.PostCard `json:"posts"`
	PostCount  int               `json:"postCount"`
	TotalLikes int64             `json:"totalLikes"`
	IsOwn      bool              `json:"isOwn"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}
