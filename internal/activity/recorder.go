// Package activity appends audit rows for security and ops visibility.
// Request metadata is passed explicitly; there is no ambient request state.
package activity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/models"
	"gorm.io/gorm"
)

// RequestMeta carries the network origin of the action being recorded.
// SystemMeta is used for actions not tied to an inbound request.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// SystemMeta marks activity generated by the application itself.
var SystemMeta = RequestMeta{IPAddress: "system", UserAgent: "system"}

// MetaFromRequest extracts client IP and user agent from a gin request.
func MetaFromRequest(c *gin.Context) RequestMeta {
	return RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// Recorder writes append-only UserActivity rows.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Record appends one audit row. Failures are logged and swallowed: audit
// writes never fail the operation that triggered them.
func (r *Recorder) Record(ctx context.Context, userID uint, action, details string, meta RequestMeta) {
	row := models.UserActivity{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.logger.Error("failed to record activity",
			"user_id", userID,
			"action", action,
			"error", err.Error(),
		)
	}
}

// pathsWithoutTracking are request prefixes that never produce view rows.
var pathsWithoutTracking = []string{"/static/", "/media/", "/favicon.ico", "/health"}

// TrackViews is a gin middleware that records a "view" activity for every
// authenticated page request outside the skip list.
func TrackViews(rec *Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("user_id")
		if ok {
			skip := false
			for _, p := range pathsWithoutTracking {
				if strings.HasPrefix(c.Request.URL.Path, p) {
					skip = true
					break
				}
			}
			if !skip {
				rec.Record(c.Request.Context(), userID.(uint), models.ActivityView,
					"Viewed page: "+c.Request.URL.Path, MetaFromRequest(c))
			}
		}
		c.Next()
	}
}
