package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/render"
	"github.com/gin-gonic/gin"
)

func postIDParam(c *gin.Context) (string, bool) {
	postID := strings.TrimSpace(c.Param("postID"))
	if postID == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidPostID))
		return "", false
	}
	return postID, true
}

func (h *Handler) mutationResponse(c *gin.Context, sessionID string, sess *feed.Session, result model.MutationResult, err error) {
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Sugar().Errorf("failed to handle %s %s: %s", c.Request.Method, c.FullPath(), err.Error())
		}
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	respondOK(c, dto.MutationResponse{
		FeedResponse: h.feedResponse(c, sessionID, sess, result.View),
		Applied:      result.Applied,
	})
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)
	sessionID, sess := h.session(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	post, view, err := h.services.Feed.CreatePost(c.Request.Context(), sess, *user, input.Text, input.ImageURL)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, dto.CreatePostResponse{
		FeedResponse: h.feedResponse(c, sessionID, sess, view),
		Post:         render.Post(post, user.ID, h.now()),
	})
}

func (h *Handler) postsLike(c *gin.Context) {
	user := h.getUserFromRequest(c)
	sessionID, sess := h.session(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	result, err := h.services.Feed.ToggleLike(c.Request.Context(), sess, postID, user.ID)
	h.mutationResponse(c, sessionID, sess, result, err)
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)
	sessionID, sess := h.session(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	result, err := h.services.Feed.DeletePost(c.Request.Context(), sess, postID, user.ID)
	h.mutationResponse(c, sessionID, sess, result, err)
}
