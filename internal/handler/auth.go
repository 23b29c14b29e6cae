package handler

import (
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authSignup(c *gin.Context) {
	var input dto.SignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	user, token, err := h.services.Auth.Signup(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{User: *user, Token: token})
}

func (h *Handler) authLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	user, token, err := h.services.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	respondOK(c, dto.AuthResponse{User: *user, Token: token})
}

func (h *Handler) authLogout(c *gin.Context) {
	if err := h.services.Auth.Logout(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	if sessionID := c.GetHeader(SessionHeader); sessionID != "" {
		h.sessions.Drop(sessionID)
	}

	respondOK(c, dto.NewBasicResponse(true, ""))
}
