package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/avsdata/aviationstack-export/pkg/request"
)

var (
	flightsDep        string
	flightsArr        string
	flightsDate       string
	flightsFlightIATA string
	flightsDelay      int
)

var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "Export live or historical flight records",
	Long: `Export records from the flights route. At least one of --dep or --arr
is required.

Examples:
  # Live departures out of Milwaukee, first three pages
  avscsv flights --dep MKE

  # All historical records for a date, arrivals into O'Hare
  avscsv flights --arr ORD --flight-date 2025-03-01 --max-pages -1

  # A single flight
  avscsv flights --dep MKE --flight-iata WN1304`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := request.Params{
			FlightDate:    flightsDate,
			DepartureIATA: flightsDep,
			ArrivalIATA:   flightsArr,
			FlightIATA:    flightsFlightIATA,
		}
		return runExport(request.RouteFlights, params, time.Duration(flightsDelay)*time.Second)
	},
}

func init() {
	rootCmd.AddCommand(flightsCmd)

	flightsCmd.Flags().StringVar(&flightsDep, "dep", "", "Departure airport IATA code")
	flightsCmd.Flags().StringVar(&flightsArr, "arr", "", "Arrival airport IATA code")
	flightsCmd.Flags().StringVar(&flightsDate, "flight-date", "", "Flight date (YYYY-MM-DD)")
	flightsCmd.Flags().StringVar(&flightsFlightIATA, "flight-iata", "", "Flight IATA code (e.g. WN1304)")
	flightsCmd.Flags().IntVar(&flightsDelay, "delay", 0, "Inter-page delay in seconds")
}
