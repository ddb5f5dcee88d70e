// Package dashboard aggregates per-role summary stats.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/applications"
	"github.com/jobportal/jobportal/internal/auth"
	"github.com/jobportal/jobportal/internal/httperr"
	"github.com/jobportal/jobportal/internal/models"
	"gorm.io/gorm"
)

// Handlers exposes the dashboard endpoints.
type Handlers struct {
	db *gorm.DB
}

// NewHandlers creates the dashboard HTTP handlers.
func NewHandlers(db *gorm.DB) *Handlers {
	return &Handlers{db: db}
}

// Stats serves the summary for the current user's role. Employers see their
// posting pipeline, seekers their application pipeline, staff the moderation
// backlog; a user wearing several hats gets every matching section.
func (h *Handlers) Stats(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	ctx := c.Request.Context()
	resp := gin.H{}

	if user.IsEmployer {
		stats, err := h.employerStats(ctx, user)
		if err != nil {
			httperr.Abort(c, err)
			return
		}
		resp["employer"] = stats
	}
	if user.IsSeeker {
		stats, err := h.seekerStats(ctx, user)
		if err != nil {
			httperr.Abort(c, err)
			return
		}
		resp["seeker"] = stats
	}
	if user.IsStaff {
		stats, err := h.staffStats(ctx)
		if err != nil {
			httperr.Abort(c, err)
			return
		}
		resp["staff"] = stats
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) employerStats(ctx context.Context, user *models.User) (gin.H, error) {
	jobs := func() *gorm.DB {
		return h.db.WithContext(ctx).Model(&models.Job{}).Where("user_id = ?", user.ID)
	}

	var total, active, approved, pending int64
	if err := jobs().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	if err := jobs().Where("is_active = ?", true).Count(&active).Error; err != nil {
		return nil, fmt.Errorf("count active jobs: %w", err)
	}
	if err := jobs().Where("is_approved = ?", true).Count(&approved).Error; err != nil {
		return nil, fmt.Errorf("count approved jobs: %w", err)
	}
	if err := jobs().Where("is_approved = ?", false).Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("count pending jobs: %w", err)
	}

	scope := h.db.WithContext(ctx).Model(&models.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.user_id = ?", user.ID)
	byStatus, err := applications.CountByStatus(scope)
	if err != nil {
		return nil, err
	}
	var totalApps int64
	for _, n := range byStatus {
		totalApps += n
	}

	return gin.H{
		"total_jobs":             total,
		"active_jobs":            active,
		"approved_jobs":          approved,
		"pending_jobs":           pending,
		"total_applications":     totalApps,
		"applications_by_status": byStatus,
	}, nil
}

func (h *Handlers) seekerStats(ctx context.Context, user *models.User) (gin.H, error) {
	scope := h.db.WithContext(ctx).Model(&models.Application{}).Where("user_id = ?", user.ID)
	byStatus, err := applications.CountByStatus(scope)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}
	return gin.H{
		"total_applications":     total,
		"applications_by_status": byStatus,
	}, nil
}

func (h *Handlers) staffStats(ctx context.Context) (gin.H, error) {
	var pending, totalJobs, totalUsers int64
	if err := h.db.WithContext(ctx).Model(&models.Job{}).
		Where("is_active = ? AND is_approved = ?", true, false).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("count moderation queue: %w", err)
	}
	if err := h.db.WithContext(ctx).Model(&models.Job{}).Count(&totalJobs).Error; err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	if err := h.db.WithContext(ctx).Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return gin.H{
		"pending_moderation": pending,
		"total_jobs":         totalJobs,
		"total_users":        totalUsers,
	}, nil
}
