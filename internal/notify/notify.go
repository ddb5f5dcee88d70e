// Package notify is the notification dispatcher: one durable in-app record
// per call plus a best-effort templated email.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobportal/jobportal/internal/models"
	"gorm.io/gorm"
)

// severityByCategory maps every notification category to its fixed display
// severity. Presentation only; nothing branches on it server-side.
var severityByCategory = map[string]string{
	models.NotificationInfo:              "info",
	models.NotificationSuccess:           "success",
	models.NotificationWarning:           "warning",
	models.NotificationError:             "danger",
	models.NotificationJobApplication:    "info",
	models.NotificationJobApproved:       "success",
	models.NotificationJobRejected:       "danger",
	models.NotificationApplicationStatus: "info",
}

// Severity returns the display severity for a category, defaulting to "info".
func Severity(category string) string {
	if s, ok := severityByCategory[category]; ok {
		return s
	}
	return "info"
}

// statusDisplay and statusSeverity describe how an application review status
// is presented to the applicant.
var statusDisplay = map[string]string{
	models.ApplicationStatusPending:     "Pending Review",
	models.ApplicationStatusReviewing:   "Under Review",
	models.ApplicationStatusShortlisted: "Shortlisted",
	models.ApplicationStatusAccepted:    "Accepted",
	models.ApplicationStatusRejected:    "Rejected",
}

var statusSeverity = map[string]string{
	models.ApplicationStatusPending:     "warning",
	models.ApplicationStatusReviewing:   "info",
	models.ApplicationStatusShortlisted: "info",
	models.ApplicationStatusAccepted:    "success",
	models.ApplicationStatusRejected:    "danger",
}

// StatusDisplay returns the human label for an application status.
func StatusDisplay(status string) string {
	if d, ok := statusDisplay[status]; ok {
		return d
	}
	return status
}

// StatusSeverity returns the display severity for an application status.
func StatusSeverity(status string) string {
	if s, ok := statusSeverity[status]; ok {
		return s
	}
	return "info"
}

// Store persists in-app notification records.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// NewStore wraps a gorm connection as a notification Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// EmailEnqueuer hands a rendered email off for asynchronous delivery.
type EmailEnqueuer func(to, subject, htmlBody string) error

// Dispatcher records in-app notifications and enqueues their email copies.
type Dispatcher struct {
	store        Store
	enqueueEmail EmailEnqueuer
	siteURL      string
	logger       *slog.Logger
}

// NewDispatcher creates a Dispatcher. enqueueEmail may be nil to disable
// email entirely (tests, workers without a queue).
func NewDispatcher(store Store, enqueueEmail EmailEnqueuer, siteURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:        store,
		enqueueEmail: enqueueEmail,
		siteURL:      siteURL,
		logger:       logger,
	}
}

// Option customizes a single notification.
type Option func(*message)

// WithActionURL attaches a link the recipient can follow from the
// notification or email.
func WithActionURL(url string) Option {
	return func(m *message) { m.actionURL = url }
}

// WithStatus adds an application review status badge to the email.
func WithStatus(status string) Option {
	return func(m *message) {
		m.statusDisplay = StatusDisplay(status)
		m.statusClass = StatusSeverity(status)
	}
}

type message struct {
	actionURL     string
	statusDisplay string
	statusClass   string
}

// Notify creates exactly one in-app notification record for the recipient,
// then enqueues one templated email. Identical calls produce independent
// records; the dispatcher never deduplicates. Email enqueue failures are
// logged and swallowed. The in-app record is the durable source of truth.
func (d *Dispatcher) Notify(ctx context.Context, recipient *models.User, title, body, category string, opts ...Option) error {
	var m message
	for _, opt := range opts {
		opt(&m)
	}

	record := models.Notification{
		RecipientID: recipient.ID,
		Title:       title,
		Message:     body,
		Category:    category,
		ActionURL:   m.actionURL,
	}
	if err := d.store.CreateNotification(ctx, &record); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if d.enqueueEmail == nil {
		return nil
	}

	html, err := renderEmail(emailContext{
		RecipientName: recipient.Name,
		Title:         title,
		Message:       body,
		Severity:      Severity(category),
		ActionURL:     m.actionURL,
		StatusDisplay: m.statusDisplay,
		StatusClass:   m.statusClass,
		SiteURL:       d.siteURL,
		SiteName:      "Job Portal",
	})
	if err != nil {
		d.logger.Error("failed to render notification email",
			"recipient_id", recipient.ID,
			"category", category,
			"error", err.Error(),
		)
		return nil
	}

	if err := d.enqueueEmail(recipient.Email, title, html); err != nil {
		d.logger.Error("failed to enqueue notification email",
			"recipient_id", recipient.ID,
			"category", category,
			"error", err.Error(),
		)
	}
	return nil
}
