// Package notifications serves a user's in-app notification feed.
package notifications

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/auth"
	"github.com/jobportal/jobportal/internal/domain"
	"github.com/jobportal/jobportal/internal/httperr"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/notify"
	"gorm.io/gorm"
)

// recentLimit bounds the dropdown feed.
const recentLimit = 5

// Handlers exposes the notification endpoints.
type Handlers struct {
	db *gorm.DB
}

// NewHandlers creates the notification HTTP handlers.
func NewHandlers(db *gorm.DB) *Handlers {
	return &Handlers{db: db}
}

// Recent serves the unread count plus the five newest notifications, for the
// header dropdown.
func (h *Handlers) Recent(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var unread int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", user.ID, false).
		Count(&unread).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("count unread notifications: %w", err))
		return
	}

	var recent []models.Notification
	if err := h.db.WithContext(c.Request.Context()).
		Where("recipient_id = ?", user.ID).
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&recent).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("list notifications: %w", err))
		return
	}

	resp := make([]gin.H, 0, len(recent))
	for i := range recent {
		resp = append(resp, notificationResponse(&recent[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"unread_count":  unread,
		"notifications": resp,
	})
}

// List serves the user's full notification history, newest first.
func (h *Handlers) List(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var out []models.Notification
	if err := h.db.WithContext(c.Request.Context()).
		Where("recipient_id = ?", user.ID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("list notifications: %w", err))
		return
	}

	resp := make([]gin.H, 0, len(out))
	for i := range out {
		resp = append(resp, notificationResponse(&out[i]))
	}
	c.JSON(http.StatusOK, gin.H{"notifications": resp})
}

// MarkRead marks one of the user's notifications read. Another user's
// notification reads as not found.
func (h *Handlers) MarkRead(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.Abort(c, &domain.ValidationError{Field: "id", Message: fmt.Sprintf("invalid notification id %q", c.Param("id"))})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, user.ID).
		Update("is_read", true)
	if res.Error != nil {
		httperr.Abort(c, fmt.Errorf("mark notification read: %w", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		httperr.Abort(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// MarkAllRead marks every unread notification of the user read.
func (h *Handlers) MarkAllRead(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	res := h.db.WithContext(c.Request.Context()).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)
	if res.Error != nil {
		httperr.Abort(c, fmt.Errorf("mark notifications read: %w", res.Error))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read", "updated": res.RowsAffected})
}

func notificationResponse(n *models.Notification) gin.H {
	return gin.H{
		"id":         n.ID,
		"title":      n.Title,
		"message":    n.Message,
		"category":   n.Category,
		"severity":   notify.Severity(n.Category),
		"action_url": n.ActionURL,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
}
