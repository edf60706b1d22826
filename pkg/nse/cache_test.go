package nse

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"nsefetch/internal/testutil"
)

// setupTestRedis creates a test Redis client, skipping when no local
// Redis is available. The testcontainers-backed variant lives in
// tests/integration.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		query    url.Values
		want     string
	}{
		{
			name:     "no params",
			endpoint: "/crd",
			query:    url.Values{},
			want:     "nse:crd",
		},
		{
			name:     "params sorted",
			endpoint: "/announcements",
			query: url.Values{
				"per_page": {"1000"},
				"market":   {"equity"},
				"page":     {"2"},
			},
			want: "nse:announcements:market=equity:page=2:per_page=1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheKey(tt.endpoint, tt.query); got != tt.want {
				t.Errorf("cacheKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageCache_GetSet(t *testing.T) {
	redisClient := setupTestRedis(t)
	cache := NewPageCache(redisClient, time.Minute)
	ctx := context.Background()

	key := cacheKey("/crd", url.Values{"page": {"1"}})

	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() on empty cache = %v, want ErrCacheMiss", err)
	}

	body := []byte(`{"success":true,"data":[]}`)
	if err := cache.Set(ctx, key, body); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("Get() = %s, want %s", got, body)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after delete = %v, want ErrCacheMiss", err)
	}
}

func TestFetchPage_ServedFromCache(t *testing.T) {
	redisClient := setupTestRedis(t)

	mock := testutil.NewMockNSE()
	defer mock.Close()
	mock.SetPages("/crd", [][]map[string]any{
		{testutil.Rec("COMPANY NAME", "Acme Ltd")},
	})

	client, err := New(Config{
		BaseURL:  mock.URL(),
		Timeout:  5 * time.Second,
		Redis:    redisClient,
		CacheTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx := context.Background()
	if _, err := client.FetchPage(ctx, "/crd", nil, 1, 100); err != nil {
		t.Fatalf("first FetchPage() error: %v", err)
	}
	resp, err := client.FetchPage(ctx, "/crd", nil, 1, 100)
	if err != nil {
		t.Fatalf("second FetchPage() error: %v", err)
	}

	if mock.GetRequestCount() != 1 {
		t.Errorf("request count = %d, want 1 (second fetch cached)", mock.GetRequestCount())
	}
	if len(resp.Data) != 1 || resp.Data[0].Display("COMPANY NAME") != "Acme Ltd" {
		t.Errorf("cached response data = %+v", resp.Data)
	}
}

func TestPageCache_TTLExpiry(t *testing.T) {
	redisClient := setupTestRedis(t)
	cache := NewPageCache(redisClient, 50*time.Millisecond)
	ctx := context.Background()

	key := cacheKey("/event-calendar", url.Values{})
	if err := cache.Set(ctx, key, []byte(`{}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after TTL = %v, want ErrCacheMiss", err)
	}
}
