package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds every service call made by a handler.
const requestTimeout = 5 * time.Second

// respondError maps a service error onto a status code and JSON body.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  verr.Error(),
			"fields": gin.H{verr.Field: verr.Err.Error()},
		})
	case errors.Is(err, service.ErrAlreadyReviewed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSignupThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request_failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "invalid request body",
		"fields": dto.FieldErrors(err),
	})
}

// parseID reads a numeric path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
