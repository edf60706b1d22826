package nse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// Cache metrics.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nse_cache_hits_total",
		Help: "Total page cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nse_cache_misses_total",
		Help: "Total page cache misses",
	})

	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nse_cache_errors_total",
		Help: "Total page cache operation errors",
	}, []string{"operation"})
)

// PageCache is a Redis-backed cache of raw page response bodies. The NSE
// API publishes no cache validators, so entries carry a fixed TTL only.
type PageCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// cacheEntry is the stored shape of one cached page.
type cacheEntry struct {
	Body      json.RawMessage `json:"body"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// DefaultCacheTTL is used when no TTL is configured.
const DefaultCacheTTL = 15 * time.Minute

// NewPageCache creates a page cache on the given Redis client.
func NewPageCache(redisClient *redis.Client, ttl time.Duration) *PageCache {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PageCache{redis: redisClient, ttl: ttl}
}

// Get retrieves a cached page body by key. Returns ErrCacheMiss when the
// key is absent.
func (p *PageCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := p.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			cacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("invalid cache entry: %w", err)
	}

	cacheHits.Inc()
	return entry.Body, nil
}

// Set stores a page body under key with the configured TTL.
func (p *PageCache) Set(ctx context.Context, key string, body []byte) error {
	entry := cacheEntry{Body: body, FetchedAt: time.Now()}

	data, err := json.Marshal(entry)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := p.redis.Set(ctx, key, data, p.ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a cache entry.
func (p *PageCache) Delete(ctx context.Context, key string) error {
	if err := p.redis.Del(ctx, key).Err(); err != nil {
		cacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// cacheKey generates a deterministic cache key string.
// Format: nse:endpoint:param1=val1:param2=val2
func cacheKey(endpoint string, query url.Values) string {
	parts := []string{"nse", strings.Trim(endpoint, "/")}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, query.Get(k)))
	}

	return strings.Join(parts, ":")
}
