// Package search feeds job changes to the external indexer over a Redis
// Stream. The indexer owns the actual full-text index; this side only
// guarantees that listings which stop being public are eventually removed.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobportal/jobportal/internal/models"
	"github.com/redis/go-redis/v9"
)

// Stream and schema constants
const (
	StreamJobIndex  = "jobs:index"
	SchemaVersionV1 = "v1"
)

// Event operation values
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// JobEvent is one index feed message.
type JobEvent struct {
	Op          string `json:"op"`
	JobID       uint   `json:"job_id"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	JobType     string `json:"job_type,omitempty"`
	Salary      string `json:"salary,omitempty"`
	PostedAt    int64  `json:"posted_at,omitempty"`
}

// Publisher publishes job index events to the stream.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a Publisher from a redis URL.
func NewPublisher(redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Publisher{rdb: redis.NewClient(opts)}, nil
}

// NewPublisherWithClient wraps an existing redis client (tests).
func NewPublisherWithClient(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishUpsert announces that a job is publicly listed with the given content.
func (p *Publisher) PublishUpsert(ctx context.Context, job *models.Job) error {
	return p.publish(ctx, JobEvent{
		Op:          OpUpsert,
		JobID:       job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Description: job.Description,
		Location:    job.Location,
		JobType:     job.JobType,
		Salary:      job.Salary,
		PostedAt:    job.CreatedAt.Unix(),
	})
}

// PublishDelete announces that a job left the public listing.
func (p *Publisher) PublishDelete(ctx context.Context, jobID uint) error {
	return p.publish(ctx, JobEvent{Op: OpDelete, JobID: jobID})
}

func (p *Publisher) publish(ctx context.Context, ev JobEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal index event: %w", err)
	}

	result := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamJobIndex,
		MaxLen: 10000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"payload":        string(payload),
			"published_at":   time.Now().Unix(),
			"schema_version": SchemaVersionV1,
		},
	})
	if result.Err() != nil {
		return fmt.Errorf("failed to publish index event: %w", result.Err())
	}
	return nil
}

// Close closes the Redis client connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
