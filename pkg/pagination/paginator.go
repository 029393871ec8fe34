package pagination

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avsdata/aviationstack-export/pkg/request"
)

// Prometheus metrics for pagination runs.
var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aviationstack_pages_fetched_total",
		Help: "Total pages fetched by route",
	}, []string{"route"})

	pageDelaySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aviationstack_page_delay_seconds",
		Help:    "Inter-page delay slept between requests",
		Buckets: []float64{1, 5, 15, 30, 62, 65, 120},
	})
)

// MaxPagesUnbounded disables the page cap: the run fetches every page the
// reported total makes available.
const MaxPagesUnbounded = -1

// TimetableMinDelay is the minimum inter-page delay on the timetable route,
// which is limited to one request per minute upstream.
const TimetableMinDelay = 62 * time.Second

// Pagination is the running-total metadata carried by every page.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

// Page is one response unit from a paginated route. Raw holds the untouched
// response body so the raw artifact can be persisted byte-for-byte.
type Page struct {
	Pagination Pagination        `json:"pagination"`
	Data       []json.RawMessage `json:"data"`
	Raw        json.RawMessage   `json:"-"`
}

// Config holds the pagination parameters for one run.
type Config struct {
	// Limit is the page size, 1..request.MaxLimit.
	Limit int

	// MaxPages caps the number of pages fetched. MaxPagesUnbounded fetches
	// all pages the reported total allows.
	MaxPages int

	// Delay is slept before every request past the first. Must meet the
	// route's mandatory minimum (see MinDelay).
	Delay time.Duration
}

// DefaultConfig returns the configuration the original ingestion job ran
// with: full pages, a three-page cap, no delay.
func DefaultConfig() Config {
	return Config{
		Limit:    request.MaxLimit,
		MaxPages: 3,
		Delay:    0,
	}
}

// MinDelay returns the mandatory minimum inter-page delay for a route.
func MinDelay(route request.Route) time.Duration {
	if route == request.RouteTimetable {
		return TimetableMinDelay
	}
	return 0
}

// Fetcher is the capability the paginator depends on for single-page
// fetching. *client.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Paginator drives repeated page fetches against one route.
type Paginator struct {
	fetcher Fetcher
	cfg     Config
	logger  zerolog.Logger

	// sleep is injected so tests do not block on real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a paginator. The configuration is validated up front so a bad
// limit or page cap never reaches the network.
func New(fetcher Fetcher, cfg Config) (*Paginator, error) {
	if cfg.Limit < 1 || cfg.Limit > request.MaxLimit {
		return nil, &request.ConfigurationError{
			Field:  "limit",
			Reason: "page size must be between 1 and 100",
		}
	}
	if cfg.MaxPages < 1 && cfg.MaxPages != MaxPagesUnbounded {
		return nil, &request.ConfigurationError{
			Field:  "max_pages",
			Reason: "must be a positive integer or MaxPagesUnbounded",
		}
	}
	if cfg.Delay < 0 {
		return nil, &request.ConfigurationError{
			Field:  "delay",
			Reason: "must not be negative",
		}
	}

	return &Paginator{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  log.With().Str("component", "pagination").Logger(),
		sleep:   sleepContext,
	}, nil
}

// Run fetches pages starting at offset 0 until all available records are
// retrieved or the page cap is reached. It returns the ordered sequence of
// pages fetched; page one is always fetched, so the result holds at least
// one page. Any fetch or parse failure aborts the run unresolved.
func (p *Paginator) Run(ctx context.Context, baseURL string, route request.Route, params request.Params, apiKey string) ([]Page, error) {
	if min := MinDelay(route); p.cfg.Delay < min {
		return nil, &RateLimitConfigError{
			Route:    route,
			Delay:    p.cfg.Delay,
			MinDelay: min,
		}
	}

	limit := p.cfg.Limit
	offset := 0

	p.logger.Info().
		Str("route", string(route)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("Fetching first page")

	page, err := p.fetchPage(ctx, baseURL, route, params, apiKey, limit, offset)
	if err != nil {
		return nil, err
	}

	pages := []Page{page}
	total := page.Pagination.Total
	bound := p.effectiveBound(total, len(pages))

	p.logger.Info().
		Str("route", string(route)).
		Int("total_records", total).
		Int("pages_available", pagesAvailable(total, limit)).
		Int("effective_pages", bound).
		Msg("Pagination bound established")

	for len(pages) < bound {
		if p.cfg.Delay > 0 {
			p.logger.Info().
				Dur("delay", p.cfg.Delay).
				Msg("Sleeping before next page")
			pageDelaySeconds.Observe(p.cfg.Delay.Seconds())
			if err := p.sleep(ctx, p.cfg.Delay); err != nil {
				return nil, err
			}
		}

		offset += limit

		p.logger.Info().
			Str("route", string(route)).
			Int("offset", offset).
			Int("page", len(pages)+1).
			Int("effective_pages", bound).
			Msg("Fetching page")

		page, err = p.fetchPage(ctx, baseURL, route, params, apiKey, limit, offset)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)

		// The dataset is live: the reported total may have changed since
		// page one. Last-seen total wins, but the bound never drops below
		// the pages already fetched.
		if page.Pagination.Total != total {
			p.logger.Warn().
				Int("previous_total", total).
				Int("new_total", page.Pagination.Total).
				Msg("Reported total changed mid-run")
			total = page.Pagination.Total
			bound = p.effectiveBound(total, len(pages))
		}

		if len(page.Data) == 0 && len(pages) < bound {
			p.logger.Warn().
				Int("offset", offset).
				Msg("Empty page before computed bound, ending run early")
			break
		}
	}

	p.logger.Info().
		Str("route", string(route)).
		Int("pages", len(pages)).
		Msg("Pagination run complete")

	return pages, nil
}

// fetchPage builds the URL, fetches it, and decodes the pagination envelope.
func (p *Paginator) fetchPage(ctx context.Context, baseURL string, route request.Route, params request.Params, apiKey string, limit, offset int) (Page, error) {
	url, err := request.Build(baseURL, route, params, apiKey, limit, offset)
	if err != nil {
		return Page{}, err
	}

	body, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return Page{}, err
	}

	page, err := decodePage(body, offset)
	if err != nil {
		return Page{}, err
	}

	pagesFetchedTotal.WithLabelValues(string(route)).Inc()
	return page, nil
}

// effectiveBound computes how many pages the run should fetch in total given
// the last-seen record total, never fewer than already fetched.
func (p *Paginator) effectiveBound(total, fetched int) int {
	bound := pagesAvailable(total, p.cfg.Limit)
	if p.cfg.MaxPages != MaxPagesUnbounded && p.cfg.MaxPages < bound {
		bound = p.cfg.MaxPages
	}
	if bound < fetched {
		bound = fetched
	}
	return bound
}

// pagesAvailable is ceil(total/limit), floored at 1 because page one is
// fetched unconditionally.
func pagesAvailable(total, limit int) int {
	pages := (total + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}

// pageEnvelope mirrors the upstream response shape. Pagination is a pointer
// so a response missing the metadata entirely is distinguishable from one
// reporting zeros.
type pageEnvelope struct {
	Pagination *Pagination       `json:"pagination"`
	Data       []json.RawMessage `json:"data"`
}

// decodePage parses one raw response body into a Page.
func decodePage(body []byte, offset int) (Page, error) {
	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Page{}, &ParseError{Offset: offset, Err: err}
	}
	if env.Pagination == nil {
		return Page{}, &ParseError{Offset: offset, Err: errMissingPagination}
	}

	raw := make(json.RawMessage, len(body))
	copy(raw, body)

	return Page{
		Pagination: *env.Pagination,
		Data:       env.Data,
		Raw:        raw,
	}, nil
}

// sleepContext blocks for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
