package triggers

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jobportal/jobportal/internal/activity"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/notify"
)

type fakeStore struct {
	created []models.Notification
}

func (s *fakeStore) CreateNotification(_ context.Context, n *models.Notification) error {
	s.created = append(s.created, *n)
	return nil
}

type auditEntry struct {
	userID  uint
	action  string
	details string
}

type fakeRecorder struct {
	entries []auditEntry
}

func (r *fakeRecorder) Record(_ context.Context, userID uint, action, details string, _ activity.RequestMeta) {
	r.entries = append(r.entries, auditEntry{userID: userID, action: action, details: details})
}

func testObserver(t *testing.T) (*Observer, *fakeStore, *fakeRecorder) {
	t.Helper()
	store := &fakeStore{}
	recorder := &fakeRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := notify.NewDispatcher(store, nil, "http://localhost:8080", logger)
	return NewObserver(dispatcher, recorder, nil, "http://localhost:8080", logger), store, recorder
}

func testJob(approved bool) *models.Job {
	owner := models.User{Name: "Erin", Email: "erin@example.com"}
	owner.ID = 7
	job := &models.Job{
		UserID:     7,
		User:       owner,
		Title:      "Backend Engineer",
		IsActive:   true,
		IsApproved: approved,
	}
	job.ID = 3
	return job
}

func TestJobHookCreate(t *testing.T) {
	obs, store, recorder := testObserver(t)
	hook := obs.JobHook()

	hook(context.Background(), nil, testJob(false))

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	n := store.created[0]
	if n.RecipientID != 7 {
		t.Errorf("recipient = %d, want the job owner", n.RecipientID)
	}
	if n.Category != models.NotificationSuccess {
		t.Errorf("category = %q, want %q", n.Category, models.NotificationSuccess)
	}
	if !strings.Contains(n.Message, "pending approval") {
		t.Errorf("message %q should say the posting awaits approval", n.Message)
	}
	if !strings.Contains(n.ActionURL, "/jobs/3") {
		t.Errorf("action url %q should link the listing", n.ActionURL)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorder.entries))
	}
	e := recorder.entries[0]
	if e.userID != 7 || e.action != models.ActivityCreate {
		t.Errorf("audit entry = %+v, want a create by the owner", e)
	}
	if !strings.Contains(e.details, "Backend Engineer") {
		t.Errorf("audit details %q should name the posting", e.details)
	}
}

func TestJobHookApproval(t *testing.T) {
	obs, store, _ := testObserver(t)
	hook := obs.JobHook()

	old := testJob(false)
	updated := testJob(true)
	hook(context.Background(), old, updated)

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	n := store.created[0]
	if n.Category != models.NotificationJobApproved {
		t.Errorf("category = %q, want %q", n.Category, models.NotificationJobApproved)
	}
	if n.RecipientID != 7 {
		t.Errorf("recipient = %d, want the job owner", n.RecipientID)
	}
	if !strings.Contains(n.ActionURL, "/jobs/3") {
		t.Errorf("action url %q should link the listing", n.ActionURL)
	}
}

func TestJobHookRejection(t *testing.T) {
	obs, store, _ := testObserver(t)
	hook := obs.JobHook()

	hook(context.Background(), testJob(true), testJob(false))

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	if got := store.created[0].Category; got != models.NotificationJobRejected {
		t.Errorf("category = %q, want %q", got, models.NotificationJobRejected)
	}
}

func TestJobHookIgnoresNoOpSave(t *testing.T) {
	obs, store, _ := testObserver(t)
	hook := obs.JobHook()

	hook(context.Background(), testJob(true), testJob(true))

	if len(store.created) != 0 {
		t.Errorf("a save without an approval flip should not notify, got %d records", len(store.created))
	}
}

func TestJobHookDelete(t *testing.T) {
	obs, store, _ := testObserver(t)
	hook := obs.JobHook()

	hook(context.Background(), testJob(true), nil)

	if len(store.created) != 0 {
		t.Errorf("deletes should not notify, got %d records", len(store.created))
	}
}

func testApplication(status string) *models.Application {
	applicant := models.User{Name: "Dana", Email: "dana@example.com"}
	applicant.ID = 11
	app := &models.Application{
		JobID:  3,
		UserID: 11,
		User:   applicant,
		Job:    *testJob(true),
		Status: status,
	}
	app.ID = 5
	return app
}

func TestApplicationHookCreate(t *testing.T) {
	obs, store, recorder := testObserver(t)
	hook := obs.ApplicationHook()

	hook(context.Background(), nil, testApplication(models.ApplicationStatusPending))

	if len(store.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(store.created))
	}

	confirmation := store.created[0]
	if confirmation.RecipientID != 11 {
		t.Errorf("confirmation recipient = %d, want the applicant", confirmation.RecipientID)
	}
	if confirmation.Category != models.NotificationJobApplication {
		t.Errorf("confirmation category = %q", confirmation.Category)
	}
	if !strings.Contains(confirmation.ActionURL, "/jobs/3") {
		t.Errorf("confirmation action url %q should link the listing", confirmation.ActionURL)
	}

	alert := store.created[1]
	if alert.RecipientID != 7 {
		t.Errorf("alert recipient = %d, want the employer", alert.RecipientID)
	}
	if alert.Category != models.NotificationJobApplication {
		t.Errorf("alert category = %q", alert.Category)
	}
	if !strings.Contains(alert.Message, "Dana") {
		t.Errorf("alert message %q should name the applicant", alert.Message)
	}
	if !strings.Contains(alert.ActionURL, "/dashboard/applications/5") {
		t.Errorf("alert action url %q should link the application", alert.ActionURL)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorder.entries))
	}
	if e := recorder.entries[0]; e.userID != 11 || e.action != models.ActivityCreate {
		t.Errorf("audit entry = %+v, want a create by the applicant", e)
	}
}

func TestApplicationHookStatusChange(t *testing.T) {
	obs, store, _ := testObserver(t)
	hook := obs.ApplicationHook()

	hook(context.Background(),
		testApplication(models.ApplicationStatusPending),
		testApplication(models.ApplicationStatusShortlisted))

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	n := store.created[0]
	if n.Category != models.NotificationApplicationStatus {
		t.Errorf("category = %q", n.Category)
	}
	if n.RecipientID != 11 {
		t.Errorf("recipient = %d, want the applicant", n.RecipientID)
	}
	if !strings.Contains(n.Message, "Shortlisted") {
		t.Errorf("message %q should carry the display status", n.Message)
	}
}

func TestApplicationHookIgnoresNoOpSave(t *testing.T) {
	obs, store, _ := testObserver(t)
	hook := obs.ApplicationHook()

	hook(context.Background(),
		testApplication(models.ApplicationStatusReviewing),
		testApplication(models.ApplicationStatusReviewing))

	if len(store.created) != 0 {
		t.Errorf("an unchanged status should not notify, got %d records", len(store.created))
	}
}
