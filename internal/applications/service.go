// Package applications owns the application review lifecycle: a seeker
// applies once per job, the employer moves the application through the five
// review statuses. The status set is deliberately permissive; any valid value
// can follow any other.
package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobportal/jobportal/internal/domain"
	"github.com/jobportal/jobportal/internal/models"
	"gorm.io/gorm"
)

// Hook observes persisted application transitions. old is nil on create.
// Hooks receive both the previous and new row so status-change observers can
// detect real transitions.
type Hook func(ctx context.Context, old, updated *models.Application)

// Service owns application reads and writes.
type Service struct {
	db    *gorm.DB
	hooks []Hook
}

// NewService creates an application Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddHook registers a post-save observer.
func (s *Service) AddHook(h Hook) {
	s.hooks = append(s.hooks, h)
}

func (s *Service) runHooks(ctx context.Context, old, updated *models.Application) {
	for _, h := range s.hooks {
		h(ctx, old, updated)
	}
}

// Apply submits an application for a public listing. resumePath points at the
// already-validated, already-stored upload. The (job, seeker) uniqueness is
// double-checked: an application-level existence check for the friendly
// error, and the database unique index for the concurrent case.
func (s *Service) Apply(ctx context.Context, jobID uint, seeker *models.User, resumePath, coverLetter string) (*models.Application, error) {
	if !seeker.IsSeeker {
		return nil, fmt.Errorf("only job seekers can apply: %w", domain.ErrForbidden)
	}

	var job models.Job
	if err := s.db.WithContext(ctx).Preload("User").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	if !job.IsPublic() {
		return nil, domain.ErrNotFound
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, seeker.ID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrAlreadyApplied
	}

	app := models.Application{
		JobID:       jobID,
		UserID:      seeker.ID,
		ResumePath:  resumePath,
		CoverLetter: coverLetter,
		Status:      models.ApplicationStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		// A racing second apply lands on the unique (job_id, user_id) index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	app.Job = job
	app.User = *seeker
	s.runHooks(ctx, nil, &app)
	return &app, nil
}

// UpdateStatus sets the review status. Only the employer who owns the job
// may move it, and only to one of the five enumerated values; an invalid
// value fails validation and leaves the stored status unchanged.
func (s *Service) UpdateStatus(ctx context.Context, appID uint, employer *models.User, newStatus string) (*models.Application, error) {
	status, err := models.ParseApplicationStatus(newStatus)
	if err != nil {
		return nil, &domain.ValidationError{Field: "status", Message: err.Error()}
	}

	var app models.Application
	if err := s.db.WithContext(ctx).Preload("Job").Preload("Job.User").Preload("User").First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load application: %w", err)
	}
	if app.Job.UserID != employer.ID {
		return nil, fmt.Errorf("application belongs to another employer's job: %w", domain.ErrForbidden)
	}

	old := app
	app.Status = status
	if err := s.db.WithContext(ctx).Model(&app).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}

	s.runHooks(ctx, &old, &app)
	return &app, nil
}

// Get loads an application. A seeker may read only their own; an employer
// only applications to jobs they own.
func (s *Service) Get(ctx context.Context, appID uint, viewer *models.User) (*models.Application, error) {
	var app models.Application
	if err := s.db.WithContext(ctx).Preload("Job").Preload("User").First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load application: %w", err)
	}
	if app.UserID != viewer.ID && app.Job.UserID != viewer.ID {
		return nil, domain.ErrNotFound
	}
	return &app, nil
}

// ListForSeeker returns the seeker's own applications, newest first.
func (s *Service) ListForSeeker(ctx context.Context, seeker *models.User) ([]models.Application, error) {
	var out []models.Application
	err := s.db.WithContext(ctx).
		Preload("Job").
		Where("user_id = ?", seeker.ID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// ListForJob returns the applications to one of the employer's jobs.
func (s *Service) ListForJob(ctx context.Context, jobID uint, employer *models.User) ([]models.Application, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job.UserID != employer.ID {
		return nil, fmt.Errorf("job belongs to another employer: %w", domain.ErrForbidden)
	}

	var out []models.Application
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// CountByStatus returns how many of the rows in scope hold each status.
// scope is a prepared query on models.Application.
func CountByStatus(scope *gorm.DB) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := scope.Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}
	out := make(map[string]int64, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
