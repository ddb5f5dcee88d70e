package models

import "gorm.io/gorm"

// Notification categories. The first four are generic severities; the rest
// name domain events and map onto a display severity via notify.Severity.
const (
	NotificationInfo              = "info"
	NotificationSuccess           = "success"
	NotificationWarning           = "warning"
	NotificationError             = "error"
	NotificationJobApplication    = "job_application"
	NotificationJobApproved       = "job_approved"
	NotificationJobRejected       = "job_rejected"
	NotificationApplicationStatus = "application_status"
)

// Notification is the durable in-app record created by the dispatcher.
// Mutated only by the recipient marking it read; old read notifications are
// purged by the cleanup sweep.
type Notification struct {
	gorm.Model
	RecipientID uint   `gorm:"not null;index"`
	Recipient   User   `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;"`
	Title       string `gorm:"not null;size:255"`
	Message     string `gorm:"not null;type:text"`
	Category    string `gorm:"column:notification_type;not null;size:60;default:'info'"`
	ActionURL   string
	IsRead      bool `gorm:"not null;default:false;index"`
}
