package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, errNotAuthorized)
		return
	}

	user, err := h.getUserFromAccessToken(c, accessToken)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, errNotAuthorized)
		return
	}

	c.Set(userCtxKey, *user)

	c.Next()
}

func (h *Handler) getUserFromAccessToken(c *gin.Context, accessToken string) (*model.User, error) {
	userID, err := utils.SubjectFromJWT(accessToken, h.opts.AccessSecret)
	if err != nil {
		return nil, err
	}

	return h.services.Auth.User(c.Request.Context(), userID)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return accessToken, accessToken != ""
}
