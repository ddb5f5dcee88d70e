package applications

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/auth"
	"github.com/jobportal/jobportal/internal/domain"
	"github.com/jobportal/jobportal/internal/httperr"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/notify"
	"github.com/jobportal/jobportal/internal/storage"
)

// Handlers exposes the application endpoints.
type Handlers struct {
	svc   *Service
	files *storage.Files
}

// NewHandlers creates the application HTTP handlers.
func NewHandlers(svc *Service, files *storage.Files) *Handlers {
	return &Handlers{svc: svc, files: files}
}

// Apply accepts a multipart application for a job. The resume is validated
// before it is stored, and stored before the row is written, so a rejected
// upload leaves nothing behind.
func (h *Handlers) Apply(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	jobID, err := paramID(c, "id")
	if err != nil {
		return
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		httperr.BadRequest(c, err)
		return
	}
	if err := storage.ValidateResume(fh.Filename, fh.Size); err != nil {
		httperr.Abort(c, err)
		return
	}

	rel, err := h.files.SaveUpload(fh, "resumes", fmt.Sprintf("resume_job_%d_user_%d", jobID, user.ID))
	if err != nil {
		httperr.Abort(c, fmt.Errorf("store resume: %w", err))
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), jobID, user, rel, c.PostForm("cover_letter"))
	if err != nil {
		// A rejected application must not leave the upload behind.
		_ = h.files.Remove(rel)
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, applicationResponse(app))
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an application through the review pipeline.
func (h *Handlers) UpdateStatus(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	appID, err := paramID(c, "id")
	if err != nil {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), appID, user, req.Status)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationResponse(app))
}

// DownloadResume streams an application's resume. The service's viewer rule
// applies: only the applicant and the job's employer can fetch it, everyone
// else reads not-found. Resumes are never served statically.
func (h *Handlers) DownloadResume(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	appID, err := paramID(c, "id")
	if err != nil {
		return
	}

	app, err := h.svc.Get(c.Request.Context(), appID, user)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.FileAttachment(h.files.Abs(app.ResumePath), filepath.Base(app.ResumePath))
}

// Get serves one application to its seeker or the job's employer.
func (h *Handlers) Get(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	appID, err := paramID(c, "id")
	if err != nil {
		return
	}

	app, err := h.svc.Get(c.Request.Context(), appID, user)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationResponse(app))
}

// Mine lists the seeker's own applications.
func (h *Handlers) Mine(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	out, err := h.svc.ListForSeeker(c.Request.Context(), user)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp := make([]gin.H, 0, len(out))
	for i := range out {
		resp = append(resp, applicationResponse(&out[i]))
	}
	c.JSON(http.StatusOK, gin.H{"applications": resp})
}

// ForJob lists the applications to one of the employer's jobs.
func (h *Handlers) ForJob(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	jobID, err := paramID(c, "id")
	if err != nil {
		return
	}

	out, err := h.svc.ListForJob(c.Request.Context(), jobID, user)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp := make([]gin.H, 0, len(out))
	for i := range out {
		resp = append(resp, applicationResponse(&out[i]))
	}
	c.JSON(http.StatusOK, gin.H{"applications": resp})
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		httperr.Abort(c, &domain.ValidationError{Field: name, Message: fmt.Sprintf("invalid %s %q", name, c.Param(name))})
		return 0, err
	}
	return uint(id), nil
}

func applicationResponse(app *models.Application) gin.H {
	resp := gin.H{
		"id":             app.ID,
		"job_id":         app.JobID,
		"status":         app.Status,
		"status_display": notify.StatusDisplay(app.Status),
		"cover_letter":   app.CoverLetter,
		"resume_path":    app.ResumePath,
		"applied_at":     app.CreatedAt,
	}
	if app.Job.ID != 0 {
		resp["job_title"] = app.Job.Title
		resp["company"] = app.Job.Company
	}
	if app.User.ID != 0 {
		resp["applicant"] = app.User.Name
		resp["applicant_email"] = app.User.Email
	}
	return resp
}
