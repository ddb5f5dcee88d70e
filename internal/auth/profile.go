package auth

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/activity"
	"github.com/jobportal/jobportal/internal/domain"
	"github.com/jobportal/jobportal/internal/httperr"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/storage"
	"github.com/jobportal/jobportal/internal/worker"
)

// Profile returns the current user's full profile.
func (h *Handlers) Profile(c *gin.Context) {
	user, _ := CurrentUser(c)
	resp := userResponse(user)
	resp["phone"] = user.Phone
	resp["skills"] = user.Skills
	resp["experience"] = user.Experience
	resp["company_name"] = user.CompanyName
	resp["company_website"] = user.CompanyWebsite
	resp["resume_path"] = user.ResumePath
	resp["profile_image_path"] = user.ProfileImagePath
	resp["profile_thumbnail_path"] = user.ProfileThumbnailPath
	c.JSON(http.StatusOK, resp)
}

type profileRequest struct {
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone"`
	Skills         string `json:"skills"`
	Experience     string `json:"experience"`
	CompanyName    string `json:"company_name"`
	CompanyWebsite string `json:"company_website"`
}

// UpdateProfile saves the editable profile fields.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	updates := map[string]interface{}{
		"name":            req.Name,
		"phone":           req.Phone,
		"skills":          req.Skills,
		"experience":      req.Experience,
		"company_name":    req.CompanyName,
		"company_website": req.CompanyWebsite,
	}
	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("update profile: %w", err))
		return
	}

	h.recorder.Record(c.Request.Context(), user.ID, models.ActivityUpdate,
		"Updated profile", activity.MetaFromRequest(c))
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// UploadProfileImage stores a new profile image and enqueues thumbnail
// generation. The request returns as soon as the file is stored; the
// thumbnail appears when the worker gets to it.
func (h *Handlers) UploadProfileImage(c *gin.Context) {
	user, _ := CurrentUser(c)

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, err)
		return
	}

	if err := storage.ValidateImage(fh.Filename, fh.Size); err != nil {
		httperr.Abort(c, err)
		return
	}

	rel, err := h.files.SaveUpload(fh, "profile_images", fmt.Sprintf("profile_%d", user.ID))
	if err != nil {
		httperr.Abort(c, fmt.Errorf("store profile image: %w", err))
		return
	}

	if err := h.db.Model(user).Update("profile_image_path", rel).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("record profile image: %w", err))
		return
	}

	// Thumbnail generation is best-effort; a failed enqueue leaves the full
	// image usable and the next upload retries.
	_ = worker.EnqueueGenerateThumbnail(user.ID, rel)

	c.JSON(http.StatusOK, gin.H{"status": "uploaded", "path": rel})
}

// UploadResume stores a seeker's profile resume, reusing the application
// resume rules (pdf/doc/docx, 2 MiB).
func (h *Handlers) UploadResume(c *gin.Context) {
	user, _ := CurrentUser(c)

	fh, err := c.FormFile("resume")
	if err != nil {
		httperr.BadRequest(c, err)
		return
	}
	if err := storage.ValidateResume(fh.Filename, fh.Size); err != nil {
		httperr.Abort(c, err)
		return
	}

	rel, err := h.files.SaveUpload(fh, "user_resumes", fmt.Sprintf("resume_user_%d", user.ID))
	if err != nil {
		httperr.Abort(c, fmt.Errorf("store resume: %w", err))
		return
	}

	if err := h.db.Model(user).Update("resume_path", rel).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("record resume: %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "uploaded", "path": rel})
}

// DownloadResume streams the seeker's own stored resume. Resumes are kept
// off the public media mount.
func (h *Handlers) DownloadResume(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user.ResumePath == "" {
		httperr.Abort(c, domain.ErrNotFound)
		return
	}
	c.FileAttachment(h.files.Abs(user.ResumePath), filepath.Base(user.ResumePath))
}
