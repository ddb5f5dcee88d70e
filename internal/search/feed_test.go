package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/redis/go-redis/v9"
)

func testPublisher(t *testing.T) (*Publisher, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewPublisherWithClient(rdb), rdb
}

func readEvents(t *testing.T, rdb *redis.Client) []redis.XMessage {
	t.Helper()
	msgs, err := rdb.XRange(context.Background(), StreamJobIndex, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	return msgs
}

func TestPublishUpsert(t *testing.T) {
	pub, rdb := testPublisher(t)

	job := &models.Job{
		Title:    "Backend Engineer",
		Company:  "Acme",
		Location: "Berlin",
		JobType:  models.JobTypeFullTime,
		Salary:   models.SalaryNegotiable,
	}
	job.ID = 42

	if err := pub.PublishUpsert(context.Background(), job); err != nil {
		t.Fatalf("PublishUpsert: %v", err)
	}

	msgs := readEvents(t, rdb)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 stream entry, got %d", len(msgs))
	}

	if v := msgs[0].Values["schema_version"]; v != SchemaVersionV1 {
		t.Errorf("schema_version = %v", v)
	}
	if _, ok := msgs[0].Values["published_at"]; !ok {
		t.Error("entry is missing published_at")
	}

	var ev JobEvent
	if err := json.Unmarshal([]byte(msgs[0].Values["payload"].(string)), &ev); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if ev.Op != OpUpsert {
		t.Errorf("op = %q, want %q", ev.Op, OpUpsert)
	}
	if ev.JobID != 42 || ev.Title != "Backend Engineer" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestPublishDelete(t *testing.T) {
	pub, rdb := testPublisher(t)

	if err := pub.PublishDelete(context.Background(), 42); err != nil {
		t.Fatalf("PublishDelete: %v", err)
	}

	msgs := readEvents(t, rdb)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 stream entry, got %d", len(msgs))
	}

	var ev JobEvent
	if err := json.Unmarshal([]byte(msgs[0].Values["payload"].(string)), &ev); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if ev.Op != OpDelete || ev.JobID != 42 {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Title != "" {
		t.Errorf("delete events should carry no content, got title %q", ev.Title)
	}
}

func TestPublishOrdering(t *testing.T) {
	pub, rdb := testPublisher(t)
	ctx := context.Background()

	job := &models.Job{Title: "Backend Engineer"}
	job.ID = 1

	if err := pub.PublishUpsert(ctx, job); err != nil {
		t.Fatalf("PublishUpsert: %v", err)
	}
	if err := pub.PublishDelete(ctx, job.ID); err != nil {
		t.Fatalf("PublishDelete: %v", err)
	}

	msgs := readEvents(t, rdb)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 stream entries, got %d", len(msgs))
	}

	var first, second JobEvent
	json.Unmarshal([]byte(msgs[0].Values["payload"].(string)), &first)
	json.Unmarshal([]byte(msgs[1].Values["payload"].(string)), &second)
	if first.Op != OpUpsert || second.Op != OpDelete {
		t.Errorf("events out of order: %q then %q", first.Op, second.Op)
	}
}
