// Package testutil provides testing utilities for the NSE data fetcher.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// MockNSE is a configurable mock NSE event board API server for testing.
type MockNSE struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	LastQuery    url.Values
}

// NewMockNSE creates a new mock API server.
func NewMockNSE() *MockNSE {
	mock := &MockNSE{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockNSE) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockNSE) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockNSE) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastQuery = nil
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockNSE) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// SetHandler sets a custom handler for a specific path.
func (m *MockNSE) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetPages serves a paginated endpoint from fixed per-page record sets.
// The page query parameter selects which slice is returned; total_pages
// always reflects len(pages).
func (m *MockNSE) SetPages(path string, pages [][]map[string]any) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)

		if page < 1 || page > len(pages) {
			WriteJSON(w, http.StatusOK, PageEnvelope(page, len(pages), nil))
			return
		}
		WriteJSON(w, http.StatusOK, PageEnvelope(page, len(pages), pages[page-1]))
	})
}

// SetFailAfter serves pages like SetPages but returns an HTTP 500 for
// every page past failPage.
func (m *MockNSE) SetFailAfter(path string, pages [][]map[string]any, failPage int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)

		if page >= failPage {
			WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": "boom"})
			return
		}
		WriteJSON(w, http.StatusOK, PageEnvelope(page, len(pages), pages[page-1]))
	})
}

// SetHealth serves a health endpoint with the given monitor states.
func (m *MockNSE) SetHealth(status string, ready bool, monitors map[string]bool) {
	m.SetHandler("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":    status,
			"ready":     ready,
			"monitors":  monitors,
			"timestamp": "2026-01-02T03:04:05",
		})
	})
}

// PageEnvelope builds a successful page response envelope.
func PageEnvelope(page, totalPages int, records []map[string]any) map[string]any {
	if records == nil {
		records = []map[string]any{}
	}
	total := len(records)
	return map[string]any{
		"success": true,
		"metadata": map[string]any{
			"source_url":       "https://www.nseindia.com",
			"scrape_timestamp": "2026-01-02T03:04:05",
			"total_records":    total,
			"total_pages":      totalPages,
		},
		"pagination": map[string]any{
			"page":          page,
			"per_page":      1000,
			"total_pages":   totalPages,
			"total_records": total,
		},
		"data": records,
	}
}

// APIErrorEnvelope builds a well-formed envelope whose success flag is
// false.
func APIErrorEnvelope(msg string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   msg,
	}
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Rec builds a record map from alternating field/value pairs, keeping
// the declaration compact in tests.
func Rec(pairs ...any) map[string]any {
	rec := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rec[pairs[i].(string)] = pairs[i+1]
	}
	return rec
}
