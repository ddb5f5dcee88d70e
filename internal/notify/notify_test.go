package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jobportal/jobportal/internal/models"
)

type fakeStore struct {
	created []models.Notification
	err     error
}

func (s *fakeStore) CreateNotification(_ context.Context, n *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *n)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecipient() *models.User {
	u := &models.User{Name: "Dana", Email: "dana@example.com"}
	u.ID = 42
	return u
}

func TestNotifyCreatesExactlyOneRecord(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, nil, "http://localhost:8080", discardLogger())

	err := d.Notify(context.Background(), testRecipient(),
		"Job Posting Approved", "Your posting is live.", models.NotificationJobApproved,
		WithActionURL("http://localhost:8080/jobs/1"),
	)
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(store.created))
	}
	n := store.created[0]
	if n.RecipientID != 42 {
		t.Errorf("recipient = %d, want 42", n.RecipientID)
	}
	if n.Category != models.NotificationJobApproved {
		t.Errorf("category = %q", n.Category)
	}
	if n.ActionURL != "http://localhost:8080/jobs/1" {
		t.Errorf("action url = %q", n.ActionURL)
	}
	if n.IsRead {
		t.Error("new notifications must start unread")
	}
}

func TestNotifyDoesNotDeduplicate(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, nil, "http://localhost:8080", discardLogger())
	recipient := testRecipient()

	for i := 0; i < 2; i++ {
		if err := d.Notify(context.Background(), recipient,
			"Same Title", "Same body.", models.NotificationInfo); err != nil {
			t.Fatalf("Notify #%d: %v", i+1, err)
		}
	}
	if len(store.created) != 2 {
		t.Errorf("identical calls should create independent records, got %d", len(store.created))
	}
}

func TestNotifyStoreFailureReturnsError(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	d := NewDispatcher(store, nil, "http://localhost:8080", discardLogger())

	err := d.Notify(context.Background(), testRecipient(), "T", "B", models.NotificationInfo)
	if err == nil {
		t.Fatal("expected an error when the record cannot be written")
	}
}

func TestNotifyEmailFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{}
	enqueue := func(to, subject, htmlBody string) error {
		return errors.New("queue down")
	}
	d := NewDispatcher(store, enqueue, "http://localhost:8080", discardLogger())

	err := d.Notify(context.Background(), testRecipient(), "T", "B", models.NotificationInfo)
	if err != nil {
		t.Fatalf("email failures must not surface: %v", err)
	}
	if len(store.created) != 1 {
		t.Errorf("record should exist despite the email failure, got %d", len(store.created))
	}
}

func TestNotifyEnqueuesRenderedEmail(t *testing.T) {
	store := &fakeStore{}
	var gotTo, gotSubject, gotBody string
	enqueue := func(to, subject, htmlBody string) error {
		gotTo, gotSubject, gotBody = to, subject, htmlBody
		return nil
	}
	d := NewDispatcher(store, enqueue, "http://localhost:8080", discardLogger())

	err := d.Notify(context.Background(), testRecipient(),
		"Application Status Update", "Your application moved forward.",
		models.NotificationApplicationStatus,
		WithStatus(models.ApplicationStatusShortlisted),
	)
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotTo != "dana@example.com" {
		t.Errorf("to = %q", gotTo)
	}
	if gotSubject != "Application Status Update" {
		t.Errorf("subject = %q", gotSubject)
	}
	if !strings.Contains(gotBody, "Your application moved forward.") {
		t.Error("email body should contain the message")
	}
	if !strings.Contains(gotBody, "Shortlisted") {
		t.Error("email body should carry the status badge")
	}
	if !strings.Contains(gotBody, "Dana") {
		t.Error("email body should greet the recipient")
	}
}

func TestSeverity(t *testing.T) {
	tests := map[string]string{
		models.NotificationInfo:              "info",
		models.NotificationSuccess:           "success",
		models.NotificationWarning:           "warning",
		models.NotificationError:             "danger",
		models.NotificationJobApproved:       "success",
		models.NotificationJobRejected:       "danger",
		models.NotificationJobApplication:    "info",
		models.NotificationApplicationStatus: "info",
		"unknown":                            "info",
	}
	for category, want := range tests {
		if got := Severity(category); got != want {
			t.Errorf("Severity(%q) = %q, want %q", category, got, want)
		}
	}
}

func TestStatusDisplay(t *testing.T) {
	tests := map[string]string{
		models.ApplicationStatusPending:     "Pending Review",
		models.ApplicationStatusReviewing:   "Under Review",
		models.ApplicationStatusShortlisted: "Shortlisted",
		models.ApplicationStatusAccepted:    "Accepted",
		models.ApplicationStatusRejected:    "Rejected",
		"mystery":                           "mystery",
	}
	for status, want := range tests {
		if got := StatusDisplay(status); got != want {
			t.Errorf("StatusDisplay(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestStatusSeverity(t *testing.T) {
	if got := StatusSeverity(models.ApplicationStatusAccepted); got != "success" {
		t.Errorf("accepted severity = %q", got)
	}
	if got := StatusSeverity(models.ApplicationStatusRejected); got != "danger" {
		t.Errorf("rejected severity = %q", got)
	}
	if got := StatusSeverity("mystery"); got != "info" {
		t.Errorf("unknown severity = %q", got)
	}
}
