// Package export orchestrates one full pipeline run: paginate a route,
// flatten the records, tabulate them, and persist the three artifacts (raw
// paginated JSON, flattened JSON, CSV) through a Sink.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avsdata/aviationstack-export/pkg/flatten"
	"github.com/avsdata/aviationstack-export/pkg/pagination"
	"github.com/avsdata/aviationstack-export/pkg/request"
	"github.com/avsdata/aviationstack-export/pkg/tabulate"
)

// Config holds the pipeline configuration for one run.
type Config struct {
	// BaseURL of the upstream API.
	BaseURL string

	// APIKey authenticates every request.
	APIKey string

	// Pagination controls page size, page cap, and inter-page delay.
	Pagination pagination.Config

	// Prefix names the output artifacts (<prefix>_raw.json, <prefix>_flat.json,
	// <prefix>.csv). Empty derives one from the route, filters, and date.
	Prefix string
}

// Result summarizes a completed run.
type Result struct {
	Pages     int
	Records   int
	Columns   int
	Artifacts []string
}

// Pipeline wires the paginator, flattener, and tabulizer to a sink. Each
// invocation of Run is independent; the pipeline holds no state between runs.
type Pipeline struct {
	paginator *pagination.Paginator
	sink      Sink
	tab       *tabulate.Writer
	cfg       Config
	logger    zerolog.Logger
}

// New creates a pipeline. Pagination configuration is validated here, before
// any request is made.
func New(fetcher pagination.Fetcher, sink Sink, cfg Config) (*Pipeline, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = request.DefaultBaseURL
	}

	paginator, err := pagination.New(fetcher, cfg.Pagination)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		paginator: paginator,
		sink:      sink,
		tab:       tabulate.NewWriter(),
		cfg:       cfg,
		logger:    log.With().Str("component", "export").Logger(),
	}, nil
}

// Run executes the full fetch→flatten→tabulate pipeline for one route and
// persists all three artifacts. There is no partial-success mode: the first
// error aborts the run with nothing guaranteed to be written.
func (p *Pipeline) Run(ctx context.Context, route request.Route, params request.Params) (*Result, error) {
	pages, err := p.paginator.Run(ctx, p.cfg.BaseURL, route, params, p.cfg.APIKey)
	if err != nil {
		return nil, err
	}

	prefix := p.cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix(route, params, time.Now().UTC())
	}

	rawName := prefix + "_raw.json"
	if err := p.sink.Write(rawName, rawArtifact(pages)); err != nil {
		return nil, err
	}

	records, err := flatten.Pages(pages)
	if err != nil {
		return nil, err
	}

	flatJSON, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal flat records: %w", err)
	}
	flatName := prefix + "_flat.json"
	if err := p.sink.Write(flatName, flatJSON); err != nil {
		return nil, err
	}

	csvText, err := p.tab.Render(records)
	if err != nil {
		return nil, err
	}
	csvName := prefix + ".csv"
	if err := p.sink.Write(csvName, []byte(csvText)); err != nil {
		return nil, err
	}

	columns := len(tabulate.Columns(records))
	p.logger.Info().
		Str("route", string(route)).
		Int("pages", len(pages)).
		Int("records", len(records)).
		Int("columns", columns).
		Str("prefix", prefix).
		Msg("Export complete")

	return &Result{
		Pages:     len(pages),
		Records:   len(records),
		Columns:   columns,
		Artifacts: []string{rawName, flatName, csvName},
	}, nil
}

// rawArtifact joins the untouched page bodies into one JSON array, the same
// shape the original job persisted.
func rawArtifact(pages []pagination.Page) []byte {
	bodies := make([][]byte, len(pages))
	for i, page := range pages {
		bodies[i] = page.Raw
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(bytes.Join(bodies, []byte(",")))
	buf.WriteByte(']')
	return buf.Bytes()
}

// defaultPrefix derives an artifact name from the route, its primary airport
// filter, and the run date, e.g. "flights_MKE_20260826".
func defaultPrefix(route request.Route, params request.Params, now time.Time) string {
	filter := params.AirportIATA
	if filter == "" {
		filter = params.DepartureIATA
	}
	if filter == "" {
		filter = params.ArrivalIATA
	}
	if filter == "" {
		filter = "all"
	}
	return fmt.Sprintf("%s_%s_%s", route, filter, now.Format("20060102"))
}
