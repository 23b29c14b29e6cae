package handler

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		c.Next()
		return
	}

	user, err := h.getUserFromAccessToken(c, accessToken)
	if err != nil {
		c.Next()
		return
	}

	c.Set(userCtxKey, *user)

	c.Next()
}
