package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jobportal/jobportal/internal/config"
)

// StartScheduler creates and starts an Asynq Scheduler for the periodic
// sweeps. Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	sweeps := []struct {
		taskType string
	}{
		{TaskCleanupNotifications},
		{TaskExpireJobs},
	}

	for _, sweep := range sweeps {
		task := asynq.NewTask(
			sweep.taskType,
			nil,
			asynq.MaxRetry(3),
			asynq.Timeout(10*time.Minute),
			asynq.Retention(24*time.Hour),
			asynq.Unique(24*time.Hour), // prevent doubled sweeps if the scheduler restarts
		)
		entryID, err := scheduler.Register(cfg.CleanupSchedule, task)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s schedule: %w", sweep.taskType, err)
		}
		logger.Info("Sweep registered", "task_type", sweep.taskType, "schedule", cfg.CleanupSchedule, "entry_id", entryID)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	slog.Info("Scheduler started", "schedule", cfg.CleanupSchedule)
	return func() { scheduler.Shutdown() }, nil
}
