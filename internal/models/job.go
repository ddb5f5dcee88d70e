package models

import "gorm.io/gorm"

// Job type constants
const (
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
	JobTypeFreelance  = "freelance"
)

// Salary band constants. Free-text salaries are not accepted; listings pick a band.
const (
	SalaryNegotiable = "negotiable"
	Salary10to30     = "10000-30000"
	Salary30to50     = "30000-50000"
	Salary50to70     = "50000-70000"
	Salary70to90     = "70000-90000"
	Salary90to110    = "90000-110000"
	Salary110to130   = "110000-130000"
	Salary130Plus    = "130000+"
)

// JobTypes lists every valid job_type value.
var JobTypes = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance}

// SalaryBands lists every valid salary value.
var SalaryBands = []string{SalaryNegotiable, Salary10to30, Salary30to50, Salary50to70, Salary70to90, Salary90to110, Salary110to130, Salary130Plus}

// Job is a listing posted by an employer. IsActive is owner-controlled
// visibility; IsApproved is the moderation gate. A listing is public only
// when both are set.
type Job struct {
	gorm.Model
	UserID       uint   `gorm:"not null;index"`
	User         User   `gorm:"constraint:OnDelete:CASCADE;"`
	Title        string `gorm:"not null;size:100"`
	Company      string `gorm:"not null;size:100"`
	Description  string `gorm:"not null;type:text"`
	Requirements string `gorm:"not null;type:text"`
	Location     string `gorm:"not null;size:100"`
	JobType      string `gorm:"not null;size:20;default:'full_time'"`
	Salary       string `gorm:"not null;size:20;default:'negotiable'"`
	IsActive     bool   `gorm:"not null;default:true;index"`
	IsApproved   bool   `gorm:"not null;default:false;index"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE;"`
}

// IsPublic reports whether the job appears in public listings.
func (j *Job) IsPublic() bool {
	return j.IsActive && j.IsApproved
}

// ValidJobType reports whether t is one of the job_type enum values.
func ValidJobType(t string) bool {
	for _, v := range JobTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidSalaryBand reports whether s is one of the salary enum values.
func ValidSalaryBand(s string) bool {
	for _, v := range SalaryBands {
		if v == s {
			return true
		}
	}
	return false
}
