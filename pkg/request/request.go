// Package request builds parameterized Aviationstack API requests and
// validates route-specific filter requirements.
package request

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production Aviationstack API host.
const DefaultBaseURL = "https://api.aviationstack.com"

// MaxLimit is the maximum page size Aviationstack accepts per call.
const MaxLimit = 100

// Route identifies an Aviationstack API endpoint category.
type Route string

const (
	// RouteFlights serves live and historical flight records.
	RouteFlights Route = "flights"

	// RouteTimetable serves live airport schedule data. This route is
	// limited to one request per minute upstream.
	RouteTimetable Route = "timetable"
)

// Direction selects the schedule side on the timetable route.
type Direction string

const (
	// DirectionDeparture selects departing flights.
	DirectionDeparture Direction = "departure"

	// DirectionArrival selects arriving flights.
	DirectionArrival Direction = "arrival"
)

// Params holds the route filter fields. Which fields apply depends on the
// route: the flights route uses FlightDate, DepartureIATA, ArrivalIATA and
// FlightIATA; the timetable route uses AirportIATA and Direction.
type Params struct {
	// FlightDate filters flight records by date (YYYY-MM-DD). Optional.
	FlightDate string

	// DepartureIATA filters by departure airport IATA code.
	DepartureIATA string

	// ArrivalIATA filters by arrival airport IATA code.
	ArrivalIATA string

	// FlightIATA filters by flight IATA code (e.g. "WN1304"). Optional.
	FlightIATA string

	// AirportIATA is the airport whose schedule is requested (timetable only).
	AirportIATA string

	// Direction is "departure" or "arrival" (timetable only).
	Direction Direction
}

// Build returns the fully-qualified request URL for a route, including the
// access key and pagination parameters. The query parameter names match the
// upstream Aviationstack contract exactly.
func Build(baseURL string, route Route, p Params, apiKey string, limit, offset int) (string, error) {
	if apiKey == "" {
		return "", &ConfigurationError{Field: "access_key", Reason: "API key is empty"}
	}
	if limit < 1 || limit > MaxLimit {
		return "", &ConfigurationError{
			Field:  "limit",
			Reason: fmt.Sprintf("must be between 1 and %d (got %d)", MaxLimit, limit),
		}
	}
	if offset < 0 || offset%limit != 0 {
		return "", &ConfigurationError{
			Field:  "offset",
			Reason: fmt.Sprintf("must be a non-negative multiple of limit (got %d, limit %d)", offset, limit),
		}
	}

	q := url.Values{}
	q.Set("access_key", apiKey)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	switch route {
	case RouteFlights:
		if p.DepartureIATA == "" && p.ArrivalIATA == "" {
			return "", &ConfigurationError{
				Field:  "dep_iata/arr_iata",
				Reason: "no departure or arrival airport specified",
			}
		}
		if p.DepartureIATA != "" {
			q.Set("dep_iata", p.DepartureIATA)
		}
		if p.ArrivalIATA != "" {
			q.Set("arr_iata", p.ArrivalIATA)
		}
		if p.FlightIATA != "" {
			q.Set("flight_iata", p.FlightIATA)
		}
		if p.FlightDate != "" {
			q.Set("flight_date", p.FlightDate)
		}

	case RouteTimetable:
		if p.AirportIATA == "" {
			return "", &ConfigurationError{Field: "iataCode", Reason: "airport IATA code is required"}
		}
		if p.Direction != DirectionDeparture && p.Direction != DirectionArrival {
			return "", &ConfigurationError{
				Field:  "type",
				Reason: fmt.Sprintf("direction must be %q or %q (got %q)", DirectionDeparture, DirectionArrival, p.Direction),
			}
		}
		q.Set("iataCode", p.AirportIATA)
		q.Set("type", string(p.Direction))

	default:
		return "", &ConfigurationError{Field: "route", Reason: fmt.Sprintf("unknown route %q", route)}
	}

	base := strings.TrimRight(baseURL, "/")
	return fmt.Sprintf("%s/v1/%s?%s", base, route, q.Encode()), nil
}

// Redact replaces the access key in a request URL so it can be logged.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("access_key") {
		q.Set("access_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
