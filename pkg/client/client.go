// Package client provides the HTTP fetcher used to pull raw JSON pages from
// the Aviationstack API, with error classification and request metrics.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avsdata/aviationstack-export/pkg/request"
)

// Prometheus metrics for API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aviationstack_requests_total",
		Help: "Total Aviationstack requests by route and status",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aviationstack_request_duration_seconds",
		Help:    "Aviationstack request duration in seconds by route",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"route"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aviationstack_errors_total",
		Help: "Total Aviationstack request errors by class",
	}, []string{"class"})
)

// Fetcher is the capability the pipeline depends on: fetch a URL, return
// the raw response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Config holds the fetcher configuration.
type Config struct {
	// Timeout applies per request. The upstream API has no SLA; 30s is a
	// safe ceiling for a 100-record page.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "aviationstack-export/0.1.0",
	}
}

// Client fetches raw JSON from the Aviationstack API. It performs no
// retries and no caching: a failed page fetch fails the whole run.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new API client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "client").Logger(),
	}
}

// Fetch performs a GET against the given URL and returns the response body.
// Network failures, non-2xx statuses, and body read failures are returned
// as *TransportError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	route := routeFromURL(url)
	redacted := request.Redact(url)

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("route", route).
		Str("url", redacted).
		Msg("Fetching page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(route, "network_error").Inc()
		c.logger.Error().Err(err).Str("url", redacted).Msg("HTTP request failed")
		return nil, &TransportError{
			URL:   redacted,
			Class: ErrorClassNetwork,
			Err:   err,
		}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(route, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("route", route).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Request failed")
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			URL:        redacted,
			Class:      class,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			URL:        redacted,
			Class:      ErrorClassNetwork,
			Err:        fmt.Errorf("read body: %w", err),
		}
	}

	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// routeFromURL extracts the route segment from an API URL for metric labels.
// Expects paths of the form /v1/<route>.
func routeFromURL(url string) string {
	idx := strings.Index(url, "/v1/")
	if idx < 0 {
		return "unknown"
	}
	rest := url[idx+len("/v1/"):]
	if end := strings.IndexAny(rest, "?/"); end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "unknown"
	}
	return rest
}
