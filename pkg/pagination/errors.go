package pagination

import (
	"errors"
	"fmt"
	"time"

	"github.com/avsdata/aviationstack-export/pkg/request"
)

// errMissingPagination marks a response with no pagination object at all.
var errMissingPagination = errors.New("response has no pagination metadata")

// RateLimitConfigError reports an inter-page delay below the route's
// mandatory minimum. It is raised before any request is sent.
type RateLimitConfigError struct {
	Route    request.Route
	Delay    time.Duration
	MinDelay time.Duration
}

// Error implements the error interface.
func (e *RateLimitConfigError) Error() string {
	return fmt.Sprintf("rate limit config error: route %q requires an inter-page delay of at least %s (got %s)",
		e.Route, e.MinDelay, e.Delay)
}

// ParseError reports malformed JSON or missing pagination metadata in a
// response. Offset identifies the failing page.
type ParseError struct {
	Offset int
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Err
}
