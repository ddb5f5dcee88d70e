package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jobportal/jobportal/internal/config"
	"github.com/jobportal/jobportal/internal/mailer"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/storage"
	"gorm.io/gorm"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, db *gorm.DB, files *storage.Files) error {
	srv, mux, err := newServer(cfg, db, files)
	if err != nil {
		return err
	}
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop
// function. Use this for embedded mode so the caller coordinates shutdown.
func Start(cfg *config.Config, db *gorm.DB, files *storage.Files) (stop func(), err error) {
	srv, mux, err := newServer(cfg, db, files)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, db *gorm.DB, files *storage.Files) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	m := mailer.New(cfg, logger)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, handleSendEmail(logger, m))
	mux.HandleFunc(TaskGenerateThumbnail, handleGenerateThumbnail(logger, db, files))
	mux.HandleFunc(TaskCleanupNotifications, handleCleanupNotifications(logger, db, cfg.NotificationRetentionDays))
	mux.HandleFunc(TaskExpireJobs, handleExpireJobs(logger, db, cfg.JobRetentionDays))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// handleSendEmail delivers one queued email. Delivery is best-effort from
// the caller's perspective; failures here retry without touching the in-app
// notification record.
func handleSendEmail(logger *slog.Logger, m *mailer.Mailer) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload EmailPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		if err := m.Send(payload.To, payload.Subject, payload.HTMLBody); err != nil {
			// SMTP hiccups are retryable.
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	}
}

// handleGenerateThumbnail builds the 150x150 profile thumbnail for a user's
// uploaded image and records its path. Re-delivery just regenerates the same
// file, so the task is safe to run twice.
func handleGenerateThumbnail(logger *slog.Logger, db *gorm.DB, files *storage.Files) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload ThumbnailPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		var user models.User
		if err := db.WithContext(ctx).First(&user, payload.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("User not found for thumbnail", "user_id", payload.UserID)
				return fmt.Errorf("user not found: %w", asynq.SkipRetry)
			}
			return fmt.Errorf("failed to fetch user: %w", err)
		}

		thumbRel := thumbnailPathFor(payload.ImagePath)
		if err := generateThumbnail(files.Abs(payload.ImagePath), files.Abs(thumbRel)); err != nil {
			// A corrupt upload will never succeed; retrying only burns the queue.
			logger.Error("Thumbnail generation failed",
				"user_id", payload.UserID,
				"image_path", payload.ImagePath,
				"error", err.Error(),
			)
			return fmt.Errorf("generate thumbnail: %w", asynq.SkipRetry)
		}

		if err := db.WithContext(ctx).Model(&user).
			Update("profile_thumbnail_path", thumbRel).Error; err != nil {
			return fmt.Errorf("failed to record thumbnail path: %w", err)
		}

		logger.Info("Thumbnail generated", "user_id", payload.UserID, "path", thumbRel)
		return nil
	}
}

// handleCleanupNotifications purges read notifications older than the
// retention window.
func handleCleanupNotifications(logger *slog.Logger, db *gorm.DB, retentionDays int) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		cutoff := time.Now().AddDate(0, 0, -retentionDays)

		result := db.WithContext(ctx).Unscoped().
			Where("is_read = ? AND created_at < ?", true, cutoff).
			Delete(&models.Notification{})
		if result.Error != nil {
			return fmt.Errorf("cleanup notifications: %w", result.Error)
		}

		logger.Info("Notification cleanup completed",
			"deleted", result.RowsAffected,
			"cutoff", cutoff.Format(time.RFC3339),
		)
		return nil
	}
}

// handleExpireJobs deactivates listings older than the retention window so
// they drop out of the public listing. The rows stay around for the
// employer's dashboard; only the active flag changes, which the listing
// cache picks up as its entries expire.
func handleExpireJobs(logger *slog.Logger, db *gorm.DB, retentionDays int) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		cutoff := time.Now().AddDate(0, 0, -retentionDays)

		result := db.WithContext(ctx).Model(&models.Job{}).
			Where("is_active = ? AND created_at < ?", true, cutoff).
			Update("is_active", false)
		if result.Error != nil {
			return fmt.Errorf("expire jobs: %w", result.Error)
		}

		logger.Info("Job expiry sweep completed",
			"deactivated", result.RowsAffected,
			"cutoff", cutoff.Format(time.RFC3339),
		)
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
