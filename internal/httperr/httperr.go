// Package httperr maps the domain error taxonomy onto HTTP responses.
package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/domain"
)

// Abort writes the JSON error response for err and aborts the request.
// Unrecognized errors become an opaque 500; internals never leak.
func Abort(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error": "not_found",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
		})
	case errors.Is(err, domain.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "forbidden",
		})
	case errors.Is(err, domain.ErrAlreadyApplied):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":   "already_applied",
			"message": "You have already applied for this job.",
		})
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
	default:
		slog.Error("unhandled error", "path", c.FullPath(), "error", err.Error())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal_error",
		})
	}
}

// BadRequest reports a request-binding failure.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": err.Error(),
	})
}
