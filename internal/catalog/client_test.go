package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/liftline/liftline/internal/catalog"
	"github.com/liftline/liftline/internal/testhelpers"
)

func newCatalogServer(t *testing.T, fail *atomic.Bool, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/exercises" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err := json.NewEncoder(w).Encode(testExercises()); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientFetchAll(t *testing.T) {
	t.Parallel()

	var (
		fail  atomic.Bool
		calls atomic.Int64
	)
	server := newCatalogServer(t, &fail, &calls)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := catalog.NewCacheWithClock(24*time.Hour, func() time.Time { return now })
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	client, err := catalog.NewClient(server.URL, "", server.Client(), cache, logger)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	got, err := client.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if diff := cmp.Diff(testExercises(), got); diff != "" {
		t.Errorf("FetchAll() mismatch (-want +got):\n%s", diff)
	}

	// A second call within the TTL is served from the cache.
	if _, err := client.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("catalog API called %d times, want 1", calls.Load())
	}
}

func TestClientStaleFallback(t *testing.T) {
	t.Parallel()

	var (
		fail  atomic.Bool
		calls atomic.Int64
	)
	server := newCatalogServer(t, &fail, &calls)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := catalog.NewCacheWithClock(24*time.Hour, func() time.Time { return now })
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	client, err := catalog.NewClient(server.URL, "test-key", server.Client(), cache, logger)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := client.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	// Expire the cache and break the API. The stale entry is served.
	now = now.Add(25 * time.Hour)
	fail.Store(true)

	got, err := client.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if diff := cmp.Diff(testExercises(), got); diff != "" {
		t.Errorf("stale FetchAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestClientDegradesToEmpty(t *testing.T) {
	t.Parallel()

	var (
		fail  atomic.Bool
		calls atomic.Int64
	)
	fail.Store(true)
	server := newCatalogServer(t, &fail, &calls)

	cache := catalog.NewCache(24 * time.Hour)
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	client, err := catalog.NewClient(server.URL, "", server.Client(), cache, logger)
	if err != nil {
		t.Fatal(err)
	}

	got, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(got) != 0 || got == nil {
		t.Errorf("FetchAll() with empty cache = %v, want empty non-nil slice", got)
	}
}

func TestSetAPIKeyClearsCache(t *testing.T) {
	t.Parallel()

	var (
		fail  atomic.Bool
		calls atomic.Int64
	)
	server := newCatalogServer(t, &fail, &calls)

	cache := catalog.NewCache(24 * time.Hour)
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	client, err := catalog.NewClient(server.URL, "old-key", server.Client(), cache, logger)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := client.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}
	client.SetAPIKey("new-key")
	if _, err := client.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("catalog API called %d times, want 2", calls.Load())
	}
}
