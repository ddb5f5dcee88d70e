package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Application status constants
const (
	ApplicationStatusPending     = "pending"
	ApplicationStatusReviewing   = "reviewing"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusAccepted    = "accepted"
)

// ApplicationStatuses lists every valid review status. Any employer-driven
// update may set any of these; there is no transition graph.
var ApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusReviewing,
	ApplicationStatusShortlisted,
	ApplicationStatusRejected,
	ApplicationStatusAccepted,
}

// Application links a seeker to a job they applied to. The (job_id, user_id)
// pair is unique at the database level so a racing second apply fails with a
// constraint violation rather than creating a duplicate row.
type Application struct {
	gorm.Model
	JobID       uint   `gorm:"not null;uniqueIndex:idx_applications_job_user"`
	Job         Job    `gorm:"constraint:OnDelete:CASCADE;"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_applications_job_user"`
	User        User   `gorm:"constraint:OnDelete:CASCADE;"`
	ResumePath  string `gorm:"not null"`
	CoverLetter string `gorm:"type:text"`
	Status      string `gorm:"not null;size:20;default:'pending';index"`
}

// ParseApplicationStatus validates a raw status string, returning an error
// for anything outside the five enum values.
func ParseApplicationStatus(s string) (string, error) {
	for _, v := range ApplicationStatuses {
		if v == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid application status %q", s)
}
