// Package metrics provides the centralized Prometheus registry reference for
// the export pipeline. Metrics are defined in their owning packages (client,
// pagination) to keep them next to the code that drives them.
//
// This package documents all available metrics in one place.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the pipeline. All
// metrics are registered automatically via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - aviationstack_requests_total{route, status} (Counter): Requests by route and HTTP status
//   - aviationstack_request_duration_seconds{route} (Histogram): Request duration by route
//   - aviationstack_errors_total{class} (Counter): Transport errors by class (client, server, network)
//
// Pagination Metrics (pkg/pagination):
//   - aviationstack_pages_fetched_total{route} (Counter): Pages fetched by route
//   - aviationstack_page_delay_seconds (Histogram): Inter-page delay slept between requests
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(aviationstack_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(aviationstack_request_duration_seconds_bucket[5m]))
//
//   # Pages per run (averaged)
//   increase(aviationstack_pages_fetched_total[1h])
