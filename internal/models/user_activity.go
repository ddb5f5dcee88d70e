package models

import (
	"time"
)

// Activity action kinds
const (
	ActivityLogin  = "login"
	ActivityLogout = "logout"
	ActivityView   = "view"
	ActivityCreate = "create"
	ActivityUpdate = "update"
	ActivityDelete = "delete"
)

// UserActivity is an append-only audit row. Rows are never updated or
// soft-deleted, so it does not embed gorm.Model.
type UserActivity struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE;"`
	Action    string `gorm:"not null;size:20"`
	Details   string `gorm:"column:action_details;type:text"`
	IPAddress string `gorm:"not null"`
	UserAgent string `gorm:"type:text"`
	CreatedAt time.Time
}
