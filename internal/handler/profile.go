package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/render"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) profileGet(c *gin.Context) {
	viewer := viewerID(h.getUserFromRequest(c))

	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidUserID))
		return
	}

	profile, err := h.services.Profile.Get(c.Request.Context(), userID, viewer)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	now := h.now()
	posts := make([]render.PostCard, 0, len(profile.Posts))
	for i := range profile.Posts {
		posts = append(posts, render.Post(&profile.Posts[i], viewer, now))
	}

	respondOK(c, dto.ProfileResponse{
		User:       profile.User,
		Initial:    profile.User.Initial(),
		Posts:      posts,
		PostCount:  len(posts),
		TotalLikes: profile.TotalLikes,
		IsOwn:      profile.IsOwn,
	})
}

func (h *Handler) profileUpdate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	updated, err := h.services.Profile.Update(c.Request.Context(), user.ID, service.ProfileUpdate{
		Bio:    input.Bio,
		Gender: input.Gender,
		DOB:    input.DOB,
	})
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	respondOK(c, updated)
}

func (h *Handler) profileChangeInitial(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.ChangeInitialRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	updated, err := h.services.Profile.ChangeInitial(c.Request.Context(), user.ID, input.Initial)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	respondOK(c, updated)
}
