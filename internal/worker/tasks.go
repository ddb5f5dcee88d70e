package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskSendEmail            = "email:send"
	TaskGenerateThumbnail    = "thumbnail:generate"
	TaskCleanupNotifications = "notifications:cleanup"
	TaskExpireJobs           = "jobs:expire"
)

// EmailPayload is the body of an email:send task.
type EmailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// ThumbnailPayload is the body of a thumbnail:generate task.
type ThumbnailPayload struct {
	UserID    uint   `json:"user_id"`
	ImagePath string `json:"image_path"`
}

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}
	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueSendEmail queues one email for asynchronous delivery. The request
// that produced the email only enqueues and returns; delivery retries happen
// inside the worker.
func EnqueueSendEmail(to, subject, htmlBody string) error {
	payload, err := json.Marshal(EmailPayload{To: to, Subject: subject, HTMLBody: htmlBody})
	if err != nil {
		return err
	}
	task := asynq.NewTask(
		TaskSendEmail,
		payload,
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		asynq.Retention(24*time.Hour),
	)
	_, err = client.Enqueue(task)
	return err
}

// EnqueueGenerateThumbnail queues thumbnail generation for a freshly
// uploaded profile image.
func EnqueueGenerateThumbnail(userID uint, imagePath string) error {
	payload, err := json.Marshal(ThumbnailPayload{UserID: userID, ImagePath: imagePath})
	if err != nil {
		return err
	}
	task := asynq.NewTask(
		TaskGenerateThumbnail,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	_, err = client.Enqueue(task)
	return err
}
