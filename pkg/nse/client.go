// Package nse provides the HTTP client for the NSE event board API:
// single-page fetching, health probing, error classification, and an
// optional Redis-backed page cache.
package nse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for NSE client operations.
var (
	nseRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nse_requests_total",
		Help: "Total NSE requests by endpoint and status",
	}, []string{"endpoint", "status"})

	nseRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nse_request_duration_seconds",
		Help:    "NSE request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	nseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nse_errors_total",
		Help: "Total NSE errors by class",
	}, []string{"class"})

	nsePagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nse_pages_fetched_total",
		Help: "Total pages fetched successfully by endpoint",
	}, []string{"endpoint"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the deployed NSE event board API.
	BaseURL string

	// Timeout per page request.
	Timeout time.Duration

	// HealthTimeout per health probe.
	HealthTimeout time.Duration

	// Redis enables the page-response cache when non-nil.
	Redis *redis.Client

	// CacheTTL is how long cached pages stay fresh.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:       baseURL,
		Timeout:       30 * time.Second,
		HealthTimeout: 10 * time.Second,
		CacheTTL:      15 * time.Minute,
	}
}

// Client fetches pages and health reports from the NSE event board API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *PageCache
	healthTO   time.Duration
	logger     zerolog.Logger
}

// New creates a new NSE API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 10 * time.Second
	}

	logger := log.With().Str("component", "nse-client").Logger()

	var pageCache *PageCache
	if cfg.Redis != nil {
		pageCache = NewPageCache(cfg.Redis, cfg.CacheTTL)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		cache:      pageCache,
		healthTO:   cfg.HealthTimeout,
		logger:     logger,
	}, nil
}

// FetchPage fetches a single page of an endpoint. Query parameters are
// built fresh per call; the shared params map is never written to. No
// retries are attempted here: whether a failed page is retried is the
// caller's policy.
func (c *Client) FetchPage(ctx context.Context, endpoint string, params map[string]string, page, perPage int) (*PageResponse, error) {
	if endpoint == "" {
		return nil, &APIError{Class: ErrorClassAPI, Message: "empty endpoint"}
	}
	if page < 1 {
		return nil, &APIError{Class: ErrorClassAPI, Message: fmt.Sprintf("invalid page %d", page)}
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	startTime := time.Now()
	defer func() {
		nseRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Cache consult before touching the network.
	key := cacheKey(endpoint, query)
	if c.cache != nil {
		if body, err := c.cache.Get(ctx, key); err == nil {
			resp, decodeErr := decodePage(body)
			if decodeErr == nil {
				c.logger.Debug().
					Str("endpoint", endpoint).
					Int("page", page).
					Msg("Page served from cache")
				return resp, nil
			}
			c.logger.Warn().Err(decodeErr).Str("key", key).Msg("Invalid cache entry, refetching")
		} else if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	reqURL := c.baseURL + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		nseErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		nseRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, &APIError{Class: ErrorClassTransport, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	nseRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		nseErrorsTotal.WithLabelValues(string(ErrorClassHTTP)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("page", page).
			Int("status", resp.StatusCode).
			Msg("NSE request error")
		return nil, &APIError{StatusCode: resp.StatusCode, Class: ErrorClassHTTP, Message: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		nseErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		return nil, &APIError{Class: ErrorClassTransport, Message: "read body", Err: err}
	}

	pageResp, err := decodePage(body)
	if err != nil {
		nseErrorsTotal.WithLabelValues(string(ErrorClassAPI)).Inc()
		return nil, &APIError{Class: ErrorClassAPI, Message: "decode response", Err: err}
	}

	if !pageResp.Success {
		nseErrorsTotal.WithLabelValues(string(ErrorClassAPI)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("page", page).
			Str("api_error", pageResp.Error).
			Msg("API reported failure")
		return nil, &APIError{Class: ErrorClassAPI, Message: pageResp.Error}
	}

	nsePagesFetchedTotal.WithLabelValues(endpoint).Inc()

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache page")
		}
	}

	return pageResp, nil
}

// CheckHealth queries the readiness endpoint. An unreachable or
// undecodable health endpoint is reported as ErrProbeUnavailable, which
// callers treat as "do not proceed" by default.
func (c *Client) CheckHealth(ctx context.Context) (*ReadinessReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTO)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProbeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProbeUnavailable, resp.StatusCode)
	}

	var report ReadinessReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProbeUnavailable, err)
	}

	c.logger.Info().
		Str("status", report.Status).
		Bool("ready", report.Ready).
		Int("monitors_ready", report.ReadyCount()).
		Int("monitors_total", len(report.Monitors)).
		Msg("Health probe complete")

	return &report, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// MaxPerPage is the per_page ceiling the API accepts.
const MaxPerPage = 1000

func decodePage(body []byte) (*PageResponse, error) {
	var resp PageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
