package handler

import (
	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) themeGet(c *gin.Context) {
	respondOK(c, dto.ThemeResponse{Theme: h.services.Theme.Get(c.Request.Context())})
}

func (h *Handler) themeToggle(c *gin.Context) {
	theme, err := h.services.Theme.Toggle(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	respondOK(c, dto.ThemeResponse{Theme: theme})
}
