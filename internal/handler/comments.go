package handler

import (
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)
	sessionID, sess := h.session(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	result, err := h.services.Feed.AddComment(c.Request.Context(), sess, postID, user.ID, user.DisplayName(), input.Text)
	h.mutationResponse(c, sessionID, sess, result, err)
}
