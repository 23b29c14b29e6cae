package handler

import (
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/render"
	"github.com/gin-gonic/gin"
)

func (h *Handler) feedResponse(c *gin.Context, sessionID string, sess *feed.Session, view model.FeedView) dto.FeedResponse {
	return dto.FeedResponse{
		Session: sessionID,
		View:    sess.View(),
		Page:    render.Feed(view, viewerID(h.getUserFromRequest(c)), h.now()),
	}
}

func (h *Handler) feedGet(c *gin.Context) {
	sessionID, sess := h.session(c)

	view := h.services.Feed.View(c.Request.Context(), sess)

	respondOK(c, h.feedResponse(c, sessionID, sess, view))
}

func (h *Handler) feedSort(c *gin.Context) {
	sessionID, sess := h.session(c)

	var input dto.SortRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	view := h.services.Feed.SetSort(c.Request.Context(), sess, input.Mode)

	respondOK(c, h.feedResponse(c, sessionID, sess, view))
}

func (h *Handler) feedSearch(c *gin.Context) {
	sessionID, sess := h.session(c)

	var input dto.SearchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	view := h.services.Feed.SetFilter(c.Request.Context(), sess, input.Q)

	respondOK(c, h.feedResponse(c, sessionID, sess, view))
}
