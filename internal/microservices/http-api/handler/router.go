package handler

import (
	"context"
	"net/http"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/middleware/auth"

	"github.com/gin-gonic/gin"
)

// Services bundles the business services the API exposes.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.CategoryService
	Genres     service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

// RouterConfig carries the collaborators the router needs besides the services.
type RouterConfig struct {
	Tokens  auth.TokenManager
	Users   middleware.UserFinder
	Limiter *middleware.IPRateLimiter
	// Ping checks the database for /check-conn; nil reports healthy.
	Ping func(ctx context.Context) error
}

// NewRouter wires every route of the API onto a gin engine.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	dto.RegisterValidators()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/check-conn", func(c *gin.Context) {
		if cfg.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api/v1")

	// signup and token never look at the bearer header
	authGroup := api.Group("/auth")
	if cfg.Limiter != nil {
		authGroup.Use(middleware.RateLimit(cfg.Limiter))
	}
	NewAuthHandler(svc.Auth).RegisterRoutes(authGroup)

	authed := api.Group("", middleware.OptionalAuth(cfg.Tokens, cfg.Users))
	NewUserHandler(svc.Users).RegisterRoutes(authed.Group("/users"))
	NewCategoryHandler(svc.Categories).RegisterRoutes(authed.Group("/categories"))
	NewGenreHandler(svc.Genres).RegisterRoutes(authed.Group("/genres"))

	titles := authed.Group("/titles")
	NewTitleHandler(svc.Titles).RegisterRoutes(titles)
	NewReviewHandler(svc.Reviews).RegisterRoutes(titles)
	NewCommentHandler(svc.Comments).RegisterRoutes(titles)

	return r
}
