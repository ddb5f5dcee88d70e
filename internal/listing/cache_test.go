package listing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCacheWithClient(rdb, ttl), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t, time.Minute)
	ctx := context.Background()

	page := &Page{
		Jobs:       []JobSummary{{ID: 1, Title: "Backend Engineer", Company: "Acme"}},
		Total:      1,
		Page:       1,
		TotalPages: 1,
	}
	if err := cache.Set(ctx, "job_list_page:1", page); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := cache.Get(ctx, "job_list_page:1")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Total != 1 || len(got.Jobs) != 1 || got.Jobs[0].Title != "Backend Engineer" {
		t.Errorf("unexpected cached page: %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, _ := testCache(t, time.Minute)

	if _, ok := cache.Get(context.Background(), "job_list_page:999"); ok {
		t.Error("expected a miss for an unknown key")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, mr := testCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "job_list_page:1", &Page{Page: 1, TotalPages: 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := cache.Get(ctx, "job_list_page:1"); !ok {
		t.Fatal("expected a hit before expiry")
	}

	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx, "job_list_page:1"); ok {
		t.Error("expected a miss after the TTL elapsed")
	}
}

func TestStorePageCachesRequestedKey(t *testing.T) {
	cache, _ := testCache(t, time.Minute)
	ctx := context.Background()

	svc := NewService(nil, cache, discardLogger())
	page := &Page{Page: 2, TotalPages: 2, Total: 11}

	f := Filters{Keyword: "go"}
	svc.storePage(ctx, f.CacheKey(50), f.CacheKey(2), page)

	for _, key := range []string{f.CacheKey(2), f.CacheKey(50)} {
		got, ok := cache.Get(ctx, key)
		if !ok {
			t.Fatalf("expected a hit for %q", key)
		}
		if got.Page != 2 {
			t.Errorf("cached page under %q = %d, want the clamped page", key, got.Page)
		}
	}
}

func TestCacheCorruptEntryReadsAsMiss(t *testing.T) {
	cache, mr := testCache(t, time.Minute)

	mr.Set("job_list_page:1", "{not json")
	if _, ok := cache.Get(context.Background(), "job_list_page:1"); ok {
		t.Error("corrupt entries should read as a miss")
	}
}
