package handler

import (
	"context"
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment routes under a title group
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/:title_id/reviews/:review_id/comments",
		middleware.RequirePermission(permission.ReadOnlyOrAuthenticated))
	{
		comments.GET("/", h.List)
		comments.POST("/", h.Create)
		comments.GET("/:comment_id/", h.Get)
		comments.PATCH("/:comment_id/", h.Update)
		comments.DELETE("/:comment_id/", h.Delete)
	}
}

// path reads title_id and review_id, answering 400 on a malformed one.
func (h *CommentHandler) path(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = parseID(c, "title_id"); !ok {
		return
	}
	reviewID, ok = parseID(c, "review_id")
	return
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments/
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := h.path(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comments, err := h.commentService.List(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToCommentResponses(comments))
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := h.path(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, err := h.commentService.Get(ctx, titleID, reviewID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

// Create creates a new comment on a review
// POST /api/v1/titles/:title_id/reviews/:review_id/comments/
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := h.path(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, err := h.commentService.Create(ctx, middleware.CallerFrom(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToCommentResponse(comment))
}

// Update updates an existing comment (author, moderator or admin)
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := h.path(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, err := h.commentService.Update(ctx, middleware.CallerFrom(c), titleID, reviewID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

// Delete deletes a comment (author, moderator or admin)
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := h.path(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.commentService.Delete(ctx, middleware.CallerFrom(c), titleID, reviewID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
