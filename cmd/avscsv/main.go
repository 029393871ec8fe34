// avscsv exports paginated Aviationstack data as flat CSV (plus the raw and
// flattened JSON artifacts of the run).
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/avsdata/aviationstack-export/internal/config"
	"github.com/avsdata/aviationstack-export/pkg/client"
	"github.com/avsdata/aviationstack-export/pkg/export"
	"github.com/avsdata/aviationstack-export/pkg/logging"
	"github.com/avsdata/aviationstack-export/pkg/pagination"
	"github.com/avsdata/aviationstack-export/pkg/request"
)

var (
	flagMaxPages   int
	flagLimit      int
	flagOutDir     string
	flagPrefix     string
	flagLogLevel   string
	flagPrettyLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "avscsv",
	Short: "Export Aviationstack flight and schedule data as CSV",
	Long: `avscsv drains a paginated Aviationstack API route, flattens the nested
JSON records, and writes three artifacts: the raw paginated JSON, the
flattened JSON, and a CSV with a sorted column union and per-row capture
timestamp.

The API key is read from the AVIATIONSTACK_API_KEY environment variable
(a .env file in the working directory is honored).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagMaxPages, "max-pages", 3, "Maximum pages to fetch (-1 fetches all pages)")
	rootCmd.PersistentFlags().IntVar(&flagLimit, "limit", request.MaxLimit, "Records per page (max 100)")
	rootCmd.PersistentFlags().StringVar(&flagOutDir, "out-dir", "", "Output directory (default: OUTPUT_DIR env or current dir)")
	rootCmd.PersistentFlags().StringVar(&flagPrefix, "prefix", "", "Artifact name prefix (default: <route>_<airport>_<date>)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL env or info)")
	rootCmd.PersistentFlags().BoolVar(&flagPrettyLogs, "pretty-logs", true, "Human-readable console logs instead of JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Export failed")
		os.Exit(1)
	}
}

// runExport wires configuration, client, sink, and pipeline for one route.
func runExport(route request.Route, params request.Params, delay time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		// Logging may not be set up yet with the configured level; use the
		// default so the startup failure is still visible.
		logging.Setup(logging.Config{Level: logging.LevelInfo, Pretty: flagPrettyLogs, Output: os.Stderr})
		return err
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(level),
		Pretty: flagPrettyLogs,
		Output: os.Stderr,
	})

	outDir := cfg.OutputDir
	if flagOutDir != "" {
		outDir = flagOutDir
	}

	apiClient := client.New(client.DefaultConfig())

	pipeline, err := export.New(apiClient, export.FileSink{Dir: outDir}, export.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Pagination: pagination.Config{
			Limit:    flagLimit,
			MaxPages: flagMaxPages,
			Delay:    delay,
		},
		Prefix: flagPrefix,
	})
	if err != nil {
		return err
	}

	result, err := pipeline.Run(context.Background(), route, params)
	if err != nil {
		return err
	}

	log.Info().
		Int("pages", result.Pages).
		Int("records", result.Records).
		Int("columns", result.Columns).
		Strs("artifacts", result.Artifacts).
		Msg("Done")

	return nil
}
