// Package triggers holds the change-observers bound to job and application
// saves. Each observer receives the previous and new entity explicitly and
// translates real transitions into dispatcher calls, audit rows, and search
// feed events. Observing the old value here is what distinguishes "the
// approval flag flipped" from "the row was re-saved".
package triggers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobportal/jobportal/internal/activity"
	"github.com/jobportal/jobportal/internal/applications"
	"github.com/jobportal/jobportal/internal/jobs"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/notify"
	"github.com/jobportal/jobportal/internal/search"
)

// Recorder appends audit rows for observed transitions. *activity.Recorder
// satisfies it.
type Recorder interface {
	Record(ctx context.Context, userID uint, action, details string, meta activity.RequestMeta)
}

// Observer turns lifecycle transitions into notifications and audit entries.
type Observer struct {
	dispatcher *notify.Dispatcher
	recorder   Recorder
	feed       *search.Publisher // nil when the index feed is disabled
	siteURL    string
	logger     *slog.Logger
}

// NewObserver creates an Observer. feed may be nil.
func NewObserver(dispatcher *notify.Dispatcher, recorder Recorder, feed *search.Publisher, siteURL string, logger *slog.Logger) *Observer {
	return &Observer{
		dispatcher: dispatcher,
		recorder:   recorder,
		feed:       feed,
		siteURL:    siteURL,
		logger:     logger,
	}
}

// JobHook returns the observer for job saves.
func (o *Observer) JobHook() jobs.Hook {
	return func(ctx context.Context, old, updated *models.Job) {
		switch {
		case updated == nil:
			// Deleted: only the search index cares.
			if old != nil {
				o.publishIndexEvent(ctx, old, false)
			}

		case old == nil:
			o.onJobCreated(ctx, updated)

		case old.IsApproved != updated.IsApproved:
			o.onJobApprovalChanged(ctx, updated)

		default:
			// Content edits and active-flag flips still need to reach the index.
			o.publishIndexEvent(ctx, updated, updated.IsPublic())
		}
	}
}

func (o *Observer) onJobCreated(ctx context.Context, job *models.Job) {
	o.recorder.Record(ctx, job.UserID, models.ActivityCreate,
		"Created job posting: "+job.Title, activity.SystemMeta)

	err := o.dispatcher.Notify(ctx, &job.User,
		"Job Posted Successfully",
		fmt.Sprintf("Your job posting %q has been created and is pending approval.", job.Title),
		models.NotificationSuccess,
		notify.WithActionURL(o.jobURL(job.ID)),
	)
	if err != nil {
		o.logger.Error("job created notification failed", "job_id", job.ID, "error", err.Error())
	}
}

func (o *Observer) onJobApprovalChanged(ctx context.Context, job *models.Job) {
	if job.IsApproved {
		err := o.dispatcher.Notify(ctx, &job.User,
			"Job Posting Approved",
			fmt.Sprintf("Your job posting %q has been approved and is now live.", job.Title),
			models.NotificationJobApproved,
			notify.WithActionURL(o.jobURL(job.ID)),
		)
		if err != nil {
			o.logger.Error("job approval notification failed", "job_id", job.ID, "error", err.Error())
		}
	} else {
		err := o.dispatcher.Notify(ctx, &job.User,
			"Job Posting Not Approved",
			fmt.Sprintf("Your job posting %q was not approved. Please review and update the posting.", job.Title),
			models.NotificationJobRejected,
			notify.WithActionURL(fmt.Sprintf("%s/dashboard/jobs/%d/edit", o.siteURL, job.ID)),
		)
		if err != nil {
			o.logger.Error("job rejection notification failed", "job_id", job.ID, "error", err.Error())
		}
	}

	o.publishIndexEvent(ctx, job, job.IsPublic())
}

// ApplicationHook returns the observer for application saves.
func (o *Observer) ApplicationHook() applications.Hook {
	return func(ctx context.Context, old, updated *models.Application) {
		switch {
		case updated == nil:
			// Applications are never deleted in the normal flow.

		case old == nil:
			o.onApplicationCreated(ctx, updated)

		case old.Status != updated.Status:
			o.onApplicationStatusChanged(ctx, updated)
		}
	}
}

func (o *Observer) onApplicationCreated(ctx context.Context, app *models.Application) {
	o.recorder.Record(ctx, app.UserID, models.ActivityCreate,
		"Applied for job: "+app.Job.Title, activity.SystemMeta)

	// Applicant confirmation.
	err := o.dispatcher.Notify(ctx, &app.User,
		fmt.Sprintf("Application submitted for %s", app.Job.Title),
		"Your application has been successfully submitted and is under review.",
		models.NotificationJobApplication,
		notify.WithActionURL(o.jobURL(app.JobID)),
		notify.WithStatus(app.Status),
	)
	if err != nil {
		o.logger.Error("applicant confirmation failed", "application_id", app.ID, "error", err.Error())
	}

	// Employer alert.
	err = o.dispatcher.Notify(ctx, &app.Job.User,
		fmt.Sprintf("New application for %s", app.Job.Title),
		fmt.Sprintf("%s has applied for your job posting.", app.User.Name),
		models.NotificationJobApplication,
		notify.WithActionURL(fmt.Sprintf("%s/dashboard/applications/%d", o.siteURL, app.ID)),
	)
	if err != nil {
		o.logger.Error("employer alert failed", "application_id", app.ID, "error", err.Error())
	}
}

func (o *Observer) onApplicationStatusChanged(ctx context.Context, app *models.Application) {
	err := o.dispatcher.Notify(ctx, &app.User,
		"Application Status Update - "+app.Job.Title,
		fmt.Sprintf("Your application for %q is now %s.", app.Job.Title, notify.StatusDisplay(app.Status)),
		models.NotificationApplicationStatus,
		notify.WithActionURL(o.jobURL(app.JobID)),
		notify.WithStatus(app.Status),
	)
	if err != nil {
		o.logger.Error("status update notification failed", "application_id", app.ID, "error", err.Error())
	}
}

func (o *Observer) publishIndexEvent(ctx context.Context, job *models.Job, public bool) {
	if o.feed == nil {
		return
	}
	var err error
	if public {
		err = o.feed.PublishUpsert(ctx, job)
	} else {
		err = o.feed.PublishDelete(ctx, job.ID)
	}
	if err != nil {
		// The index is eventually consistent; a missed event is repaired by
		// the next save or a reindex run.
		o.logger.Error("failed to publish index event", "job_id", job.ID, "error", err.Error())
	}
}

func (o *Observer) jobURL(id uint) string {
	return fmt.Sprintf("%s/jobs/%d", o.siteURL, id)
}
