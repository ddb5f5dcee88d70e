// Package jobs owns the job entity's moderation lifecycle. Listings start
// unapproved, staff flip the approval gate, and any content edit by the owner
// sends the listing back through moderation.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobportal/jobportal/internal/domain"
	"github.com/jobportal/jobportal/internal/models"
	"gorm.io/gorm"
)

// Hook observes persisted job transitions. old is nil on create, updated is
// nil on delete. Hooks run after the row is committed, in registration order,
// with both the previous and the new state so a real transition can be told
// apart from a no-op save.
type Hook func(ctx context.Context, old, updated *models.Job)

// Service owns job reads and writes.
type Service struct {
	db    *gorm.DB
	hooks []Hook
}

// NewService creates a job Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddHook registers a post-save observer.
func (s *Service) AddHook(h Hook) {
	s.hooks = append(s.hooks, h)
}

func (s *Service) runHooks(ctx context.Context, old, updated *models.Job) {
	for _, h := range s.hooks {
		h(ctx, old, updated)
	}
}

// Input carries the owner-editable job fields. A nil IsActive means the
// caller did not send the flag: creates default to active, updates keep the
// stored value.
type Input struct {
	Title        string
	Company      string
	Description  string
	Requirements string
	Location     string
	JobType      string
	Salary       string
	IsActive     *bool
}

// apply writes the owner-editable fields onto job. The active flag only
// changes when the input carries it.
func (in Input) apply(job *models.Job) {
	job.Title = in.Title
	job.Company = in.Company
	job.Description = in.Description
	job.Requirements = in.Requirements
	job.Location = in.Location
	job.JobType = in.JobType
	job.Salary = in.Salary
	if in.IsActive != nil {
		job.IsActive = *in.IsActive
	}
}

func (in *Input) validate() error {
	switch {
	case in.Title == "":
		return &domain.ValidationError{Field: "title", Message: "title is required"}
	case in.Company == "":
		return &domain.ValidationError{Field: "company", Message: "company is required"}
	case in.Description == "":
		return &domain.ValidationError{Field: "description", Message: "description is required"}
	case in.Requirements == "":
		return &domain.ValidationError{Field: "requirements", Message: "requirements are required"}
	case in.Location == "":
		return &domain.ValidationError{Field: "location", Message: "location is required"}
	}
	if !models.ValidJobType(in.JobType) {
		return &domain.ValidationError{Field: "job_type", Message: fmt.Sprintf("invalid job type %q", in.JobType)}
	}
	if !models.ValidSalaryBand(in.Salary) {
		return &domain.ValidationError{Field: "salary", Message: fmt.Sprintf("invalid salary band %q", in.Salary)}
	}
	return nil
}

// ContentChanged reports whether in edits any of the moderated fields
// (title, description, requirements) relative to the stored job. Edits to
// location, salary, or the active flag never retrigger moderation.
func ContentChanged(job *models.Job, in Input) bool {
	return job.Title != in.Title ||
		job.Description != in.Description ||
		job.Requirements != in.Requirements
}

// Create posts a new listing for an employer. The listing starts unapproved
// and waits for staff moderation.
func (s *Service) Create(ctx context.Context, owner *models.User, in Input) (*models.Job, error) {
	if !owner.IsEmployer {
		return nil, fmt.Errorf("only employers can post jobs: %w", domain.ErrForbidden)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	job := models.Job{
		UserID:     owner.ID,
		IsActive:   true,
		IsApproved: false,
	}
	in.apply(&job)
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	job.User = *owner
	s.runHooks(ctx, nil, &job)
	return &job, nil
}

// Update applies owner edits. A change to any moderated field resets the
// approval gate; the reset is computed against the values being written, not
// a stale read.
func (s *Service) Update(ctx context.Context, jobID uint, owner *models.User, in Input) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).Preload("User").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job.UserID != owner.ID {
		return nil, fmt.Errorf("job belongs to another employer: %w", domain.ErrForbidden)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	old := job
	in.apply(&job)
	if ContentChanged(&old, in) {
		job.IsApproved = false
	}

	if err := s.db.WithContext(ctx).Save(&job).Error; err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	s.runHooks(ctx, &old, &job)
	return &job, nil
}

// Moderate flips the approval gate. Staff only.
func (s *Service) Moderate(ctx context.Context, jobID uint, staff *models.User, approve bool) (*models.Job, error) {
	if !staff.IsStaff {
		return nil, fmt.Errorf("only staff can moderate jobs: %w", domain.ErrForbidden)
	}

	var job models.Job
	if err := s.db.WithContext(ctx).Preload("User").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}

	old := job
	job.IsApproved = approve
	if err := s.db.WithContext(ctx).Save(&job).Error; err != nil {
		return nil, fmt.Errorf("moderate job: %w", err)
	}

	s.runHooks(ctx, &old, &job)
	return &job, nil
}

// Delete hard-deletes a listing. The database cascades the delete to its
// applications.
func (s *Service) Delete(ctx context.Context, jobID uint, owner *models.User) error {
	var job models.Job
	if err := s.db.WithContext(ctx).First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load job: %w", err)
	}
	if job.UserID != owner.ID {
		return fmt.Errorf("job belongs to another employer: %w", domain.ErrForbidden)
	}

	old := job
	if err := s.db.WithContext(ctx).Unscoped().Delete(&job).Error; err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	s.runHooks(ctx, &old, nil)
	return nil
}

// VisibleTo applies the listing visibility rule: staff see every job, owners
// see their own regardless of approval, everyone else only public listings.
func VisibleTo(job *models.Job, viewer *models.User) bool {
	if viewer != nil {
		if viewer.IsStaff || viewer.ID == job.UserID {
			return true
		}
	}
	return job.IsPublic()
}

// Get loads a job enforcing VisibleTo; hidden jobs read as not found rather
// than leaking their existence.
func (s *Service) Get(ctx context.Context, jobID uint, viewer *models.User) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).Preload("User").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	if !VisibleTo(&job, viewer) {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

// ListForOwner returns every listing posted by the employer, newest first.
func (s *Service) ListForOwner(ctx context.Context, owner *models.User) ([]models.Job, error) {
	var out []models.Job
	err := s.db.WithContext(ctx).
		Where("user_id = ?", owner.ID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

// PendingModeration returns active listings awaiting approval, oldest first.
func (s *Service) PendingModeration(ctx context.Context) ([]models.Job, error) {
	var out []models.Job
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("is_active = ? AND is_approved = ?", true, false).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}
	return out, nil
}
