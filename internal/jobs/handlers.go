package jobs

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/auth"
	"github.com/jobportal/jobportal/internal/domain"
	"github.com/jobportal/jobportal/internal/httperr"
	"github.com/jobportal/jobportal/internal/listing"
	"github.com/jobportal/jobportal/internal/models"
)

// Handlers exposes the job endpoints.
type Handlers struct {
	svc     *Service
	listing *listing.Service
}

// NewHandlers creates the job HTTP handlers.
func NewHandlers(svc *Service, lister *listing.Service) *Handlers {
	return &Handlers{svc: svc, listing: lister}
}

// List serves the public job board: approved, active listings filtered by the
// query string and paginated ten to a page.
func (h *Handlers) List(c *gin.Context) {
	var filters listing.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	page := listing.ParsePage(c.Query("page"))

	result, err := h.listing.List(c.Request.Context(), filters, page)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jobs":        result.Jobs,
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

// Get serves a single listing, applying the visibility rule.
func (h *Handlers) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	viewer, _ := auth.CurrentUser(c)

	job, err := h.svc.Get(c.Request.Context(), id, viewer)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, jobResponse(job))
}

type jobRequest struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	JobType      string `json:"job_type"`
	Salary       string `json:"salary"`
	IsActive     *bool  `json:"is_active"`
}

func (r *jobRequest) input() Input {
	return Input{
		Title:        r.Title,
		Company:      r.Company,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		JobType:      r.JobType,
		Salary:       r.Salary,
		IsActive:     r.IsActive,
	}
}

// Create posts a new listing.
func (h *Handlers) Create(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	job, err := h.svc.Create(c.Request.Context(), user, req.input())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobResponse(job))
}

// Update applies owner edits to a listing.
func (h *Handlers) Update(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	job, err := h.svc.Update(c.Request.Context(), id, user, req.input())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, jobResponse(job))
}

// Delete removes a listing.
func (h *Handlers) Delete(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, user); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Mine lists the employer's own postings.
func (h *Handlers) Mine(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	out, err := h.svc.ListForOwner(c.Request.Context(), user)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp := make([]gin.H, 0, len(out))
	for i := range out {
		resp = append(resp, jobResponse(&out[i]))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": resp})
}

type moderateRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// Moderate approves or rejects a listing. Staff only.
func (h *Handlers) Moderate(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	job, err := h.svc.Moderate(c.Request.Context(), id, user, req.Decision == "approve")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, jobResponse(job))
}

// Pending lists the moderation queue. Staff only.
func (h *Handlers) Pending(c *gin.Context) {
	out, err := h.svc.PendingModeration(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp := make([]gin.H, 0, len(out))
	for i := range out {
		resp = append(resp, jobResponse(&out[i]))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": resp})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.Abort(c, &domain.ValidationError{Field: "id", Message: fmt.Sprintf("invalid job id %q", c.Param("id"))})
		return 0, err
	}
	return uint(id), nil
}

func jobResponse(job *models.Job) gin.H {
	resp := gin.H{
		"id":           job.ID,
		"title":        job.Title,
		"company":      job.Company,
		"description":  job.Description,
		"requirements": job.Requirements,
		"location":     job.Location,
		"job_type":     job.JobType,
		"salary":       job.Salary,
		"is_active":    job.IsActive,
		"is_approved":  job.IsApproved,
		"created_at":   job.CreatedAt,
	}
	if job.User.ID != 0 {
		resp["posted_by"] = job.User.Name
	}
	return resp
}
