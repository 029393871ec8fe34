package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/avsdata/aviationstack-export/pkg/request"
)

var (
	timetableAirport   string
	timetableDirection string
	timetableDelay     int
)

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Export a live airport schedule",
	Long: `Export records from the timetable route: the live departure or arrival
schedule of one airport.

This route is limited to one request per minute upstream, so the inter-page
delay must be at least 62 seconds. The default of 65 matches the original
ingestion job.

Examples:
  avscsv timetable --airport MKE --direction departure
  avscsv timetable --airport ORD --direction arrival --max-pages 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := request.Params{
			AirportIATA: timetableAirport,
			Direction:   request.Direction(timetableDirection),
		}
		return runExport(request.RouteTimetable, params, time.Duration(timetableDelay)*time.Second)
	},
}

func init() {
	rootCmd.AddCommand(timetableCmd)

	timetableCmd.Flags().StringVar(&timetableAirport, "airport", "", "Airport IATA code")
	timetableCmd.Flags().StringVar(&timetableDirection, "direction", "", "Schedule side: departure or arrival")
	timetableCmd.Flags().IntVar(&timetableDelay, "delay", 65, "Inter-page delay in seconds (minimum 62)")
}
