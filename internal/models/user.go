package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the shared account record for employers, job seekers, and staff.
// Role flags are set at registration (or at the role-selection step after a
// first social login) and do not change afterwards.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null"`
	Name         string `gorm:"not null;default:''"`
	PasswordHash string `gorm:"type:text"` // empty for social-only accounts

	// Role flags
	IsEmployer bool `gorm:"not null;default:false"`
	IsSeeker   bool `gorm:"not null;default:false"`
	IsStaff    bool `gorm:"not null;default:false"`

	// Email verification
	EmailVerified     bool   `gorm:"not null;default:false"`
	VerificationToken string `gorm:"index"`

	// Seeker profile
	ResumePath string
	Skills     string `gorm:"type:text"`
	Experience string `gorm:"type:text"`

	// Employer profile
	CompanyName    string
	CompanyWebsite string

	// Shared profile
	ProfileImagePath     string
	ProfileThumbnailPath string
	Phone                string
	LastLoginAt          *time.Time

	// Associations
	AuthIdentities []AuthIdentity `gorm:"constraint:OnDelete:CASCADE;"`
	Jobs           []Job          `gorm:"constraint:OnDelete:CASCADE;"`
	Applications   []Application  `gorm:"constraint:OnDelete:CASCADE;"`
	Notifications  []Notification `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;"`
}

// HasRole reports whether the user holds any platform role. Accounts created
// through social login sit roleless until they pick one.
func (u *User) HasRole() bool {
	return u.IsEmployer || u.IsSeeker || u.IsStaff
}
