package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/avsdata/aviationstack-export/internal/testutil"
	"github.com/avsdata/aviationstack-export/pkg/client"
	"github.com/avsdata/aviationstack-export/pkg/pagination"
	"github.com/avsdata/aviationstack-export/pkg/request"
)

// memSink captures artifacts in memory.
type memSink struct {
	artifacts map[string][]byte
}

func newMemSink() *memSink {
	return &memSink{artifacts: make(map[string][]byte)}
}

func (s *memSink) Write(name string, content []byte) error {
	s.artifacts[name] = content
	return nil
}

func newTestPipeline(t *testing.T, mock *testutil.MockAviationstack, sink Sink, pcfg pagination.Config) *Pipeline {
	t.Helper()
	p, err := New(client.New(client.DefaultConfig()), sink, Config{
		BaseURL:    mock.URL(),
		APIKey:     "test-key",
		Pagination: pcfg,
		Prefix:     "test",
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return p
}

func TestRun_WritesAllArtifacts(t *testing.T) {
	mock := testutil.NewMockAviationstack()
	defer mock.Close()
	mock.GenerateRecords("flights", 250)

	sink := newMemSink()
	p := newTestPipeline(t, mock, sink, pagination.Config{Limit: 100, MaxPages: pagination.MaxPagesUnbounded})

	result, err := p.Run(context.Background(), request.RouteFlights, request.Params{DepartureIATA: "MKE"})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if result.Pages != 3 {
		t.Errorf("Pages = %d, want 3", result.Pages)
	}
	if result.Records != 250 {
		t.Errorf("Records = %d, want 250", result.Records)
	}
	wantArtifacts := []string{"test_raw.json", "test_flat.json", "test.csv"}
	for _, name := range wantArtifacts {
		if _, ok := sink.artifacts[name]; !ok {
			t.Errorf("artifact %s not written (have %v)", name, keys(sink.artifacts))
		}
	}
}

func TestRun_RawArtifactIsValidJSONArray(t *testing.T) {
	mock := testutil.NewMockAviationstack()
	defer mock.Close()
	mock.GenerateRecords("flights", 150)

	sink := newMemSink()
	p := newTestPipeline(t, mock, sink, pagination.Config{Limit: 100, MaxPages: pagination.MaxPagesUnbounded})

	if _, err := p.Run(context.Background(), request.RouteFlights, request.Params{DepartureIATA: "MKE"}); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	var pages []json.RawMessage
	if err := json.Unmarshal(sink.artifacts["test_raw.json"], &pages); err != nil {
		t.Fatalf("raw artifact is not a JSON array: %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("raw artifact pages = %d, want 2", len(pages))
	}
}

func TestRun_FlatArtifactMatchesRecordCount(t *testing.T) {
	mock := testutil.NewMockAviationstack()
	defer mock.Close()
	mock.GenerateRecords("flights", 42)

	sink := newMemSink()
	p := newTestPipeline(t, mock, sink, pagination.Config{Limit: 100, MaxPages: 3})

	if _, err := p.Run(context.Background(), request.RouteFlights, request.Params{DepartureIATA: "MKE"}); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	var flat []map[string]any
	if err := json.Unmarshal(sink.artifacts["test_flat.json"], &flat); err != nil {
		t.Fatalf("flat artifact is not valid JSON: %v", err)
	}
	if len(flat) != 42 {
		t.Fatalf("flat records = %d, want 42", len(flat))
	}
	if _, ok := flat[0]["flight_number"]; !ok {
		t.Errorf("flat record missing flattened key: %v", flat[0])
	}
}

func TestRun_CSVShape(t *testing.T) {
	mock := testutil.NewMockAviationstack()
	defer mock.Close()
	mock.GenerateRecords("flights", 5)

	sink := newMemSink()
	p := newTestPipeline(t, mock, sink, pagination.Config{Limit: 100, MaxPages: 1})

	if _, err := p.Run(context.Background(), request.RouteFlights, request.Params{DepartureIATA: "MKE"}); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(sink.artifacts["test.csv"]))).ReadAll()
	if err != nil {
		t.Fatalf("CSV artifact unreadable: %v", err)
	}
	if len(rows) != 6 {
		t.Errorf("CSV rows = %d, want 6 (header + 5 records)", len(rows))
	}
	header := rows[0]
	if header[len(header)-1] != "row_ts" {
		t.Errorf("last column = %q, want row_ts", header[len(header)-1])
	}
}

func TestRun_RateLimitGateAbortsBeforeNetwork(t *testing.T) {
	mock := testutil.NewMockAviationstack()
	defer mock.Close()
	mock.GenerateRecords("timetable", 10)

	sink := newMemSink()
	p := newTestPipeline(t, mock, sink, pagination.Config{Limit: 100, MaxPages: 3, Delay: 0})

	_, err := p.Run(context.Background(), request.RouteTimetable,
		request.Params{AirportIATA: "MKE", Direction: request.DirectionDeparture})

	var rlErr *pagination.RateLimitConfigError
	if !errors.As(err, &rlErr) {
		t.Fatalf("Run() error = %v, want *RateLimitConfigError", err)
	}
	if mock.RequestCount != 0 {
		t.Errorf("RequestCount = %d, want 0", mock.RequestCount)
	}
	if len(sink.artifacts) != 0 {
		t.Errorf("artifacts written on failed run: %v", keys(sink.artifacts))
	}
}

func TestRun_TransportErrorWritesNothing(t *testing.T) {
	mock := testutil.NewMockAviationstack()
	defer mock.Close()
	mock.SetResponse("/v1/flights", testutil.MockResponse{StatusCode: http.StatusBadGateway, Body: `{}`})

	sink := newMemSink()
	p := newTestPipeline(t, mock, sink, pagination.Config{Limit: 100, MaxPages: 3})

	_, err := p.Run(context.Background(), request.RouteFlights, request.Params{DepartureIATA: "MKE"})

	var tErr *client.TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("Run() error = %v, want *TransportError", err)
	}
	if len(sink.artifacts) != 0 {
		t.Errorf("artifacts written on failed run: %v", keys(sink.artifacts))
	}
}

func TestDefaultPrefix(t *testing.T) {
	now, _ := time.Parse("2006-01-02", "2026-08-26")

	tests := []struct {
		name   string
		route  request.Route
		params request.Params
		want   string
	}{
		{
			name:   "flights by departure",
			route:  request.RouteFlights,
			params: request.Params{DepartureIATA: "MKE"},
			want:   "flights_MKE_20260826",
		},
		{
			name:   "flights by arrival",
			route:  request.RouteFlights,
			params: request.Params{ArrivalIATA: "ORD"},
			want:   "flights_ORD_20260826",
		},
		{
			name:   "timetable",
			route:  request.RouteTimetable,
			params: request.Params{AirportIATA: "MKE", Direction: request.DirectionDeparture},
			want:   "timetable_MKE_20260826",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultPrefix(tt.route, tt.params, now); got != tt.want {
				t.Errorf("defaultPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
