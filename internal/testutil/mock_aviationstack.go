// Package testutil provides testing utilities for the Aviationstack export
// pipeline.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// MockResponse defines the behavior of a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockAviationstack is a configurable mock Aviationstack server. Without a
// custom handler it serves a paginated view over the records registered per
// route, honoring the limit and offset query parameters the way the real
// API does.
type MockAviationstack struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	records  map[string][]json.RawMessage

	// Tracking
	RequestCount int
	Offsets      []int
	LastQuery    url.Values
}

// NewMockAviationstack creates a new mock server.
func NewMockAviationstack() *MockAviationstack {
	mock := &MockAviationstack{
		handlers: make(map[string]http.HandlerFunc),
		records:  make(map[string][]json.RawMessage),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
			mock.Offsets = append(mock.Offsets, offset)
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.paginatedHandler(w, r)
	}))

	return mock
}

// URL returns the mock server base URL.
func (m *MockAviationstack) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAviationstack) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAviationstack) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Offsets = nil
	m.LastQuery = nil
}

// SetHandler sets a custom handler for a specific path (e.g. "/v1/flights").
func (m *MockAviationstack) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAviationstack) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		status := resp.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, resp.Body)
	})
}

// SetRecords registers the full record set served for a route. The default
// handler slices it by limit/offset and reports its length as the total.
func (m *MockAviationstack) SetRecords(route string, records []json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[route] = records
}

// GenerateRecords registers n simple records {"flight":{"number":"<i>"}} for
// a route.
func (m *MockAviationstack) GenerateRecords(route string, n int) {
	records := make([]json.RawMessage, n)
	for i := range records {
		records[i] = json.RawMessage(fmt.Sprintf(`{"flight":{"number":"%d"}}`, i))
	}
	m.SetRecords(route, records)
}

// paginatedHandler serves the registered records in pages, mimicking the
// upstream pagination envelope.
func (m *MockAviationstack) paginatedHandler(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Path
	if len(route) > 4 && route[:4] == "/v1/" {
		route = route[4:]
	}

	m.mu.RLock()
	records := m.records[route]
	m.mu.RUnlock()

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 100
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	start := offset
	if start > len(records) {
		start = len(records)
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	page := records[start:end]

	envelope := map[string]any{
		"pagination": map[string]int{
			"limit":  limit,
			"offset": offset,
			"count":  len(page),
			"total":  len(records),
		},
		"data": page,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
