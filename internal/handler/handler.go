package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Feed-Session"

	userCtxKey = "user"
)

type Options struct {
	AccessSecret []byte
	ClientOrigin string
}

type Handler struct {
	logger   *zap.Logger
	services *service.Service
	sessions *feed.Sessions
	opts     Options
	now      func() time.Time
}

func New(logger *zap.Logger, services *service.Service, sessions *feed.Sessions, opts Options) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
		sessions: sessions,
		opts:     opts,
		now:      time.Now,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if h.opts.ClientOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{h.opts.ClientOrigin},
			AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Authorization", "Content-Type", SessionHeader},
			ExposeHeaders:    []string{SessionHeader},
			AllowCredentials: true,
		}))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.authSignup)
			auth.POST("/login", h.authLogin)
			auth.POST("/logout", h.authMiddleware, h.authLogout)
		}

		feedGroup := v1.Group("/feed")
		{
			feedGroup.GET("", h.notRequiredAuthMiddleware, h.feedGet)
			feedGroup.PUT("/sort", h.notRequiredAuthMiddleware, h.feedSort)
			feedGroup.PUT("/search", h.notRequiredAuthMiddleware, h.feedSearch)
		}

		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)

			post := posts.Group("/:postID")
			{
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.POST("/comments", h.authMiddleware, h.commentsCreate)
				post.DELETE("", h.authMiddleware, h.postsDelete)
			}
		}

		v1.GET("/users/:userID/profile", h.notRequiredAuthMiddleware, h.profileGet)

		profile := v1.Group("/profile")
		{
			profile.PATCH("", h.authMiddleware, h.profileUpdate)
			profile.PUT("/initial", h.authMiddleware, h.profileChangeInitial)
		}

		theme := v1.Group("/theme")
		{
			theme.GET("", h.themeGet)
			theme.POST("/toggle", h.themeToggle)
		}
	}

	return r
}

// session returns the caller's feed session, minting an id when the request has none.
func (h *Handler) session(c *gin.Context) (string, *feed.Session) {
	id := strings.TrimSpace(c.GetHeader(SessionHeader))
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(SessionHeader, id)

	return id, h.sessions.Get(id)
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.User {
	userReq, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}

	user, ok := userReq.(model.User)
	if !ok {
		return nil
	}

	return &user
}

func viewerID(user *model.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(err))
}

func respondOK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}
