// Package config loads pipeline configuration from the process environment,
// with a best-effort .env file load for local runs.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/avsdata/aviationstack-export/pkg/request"
)

// Environment variable names.
const (
	EnvAPIKey    = "AVIATIONSTACK_API_KEY"
	EnvBaseURL   = "AVIATIONSTACK_BASE_URL"
	EnvLogLevel  = "LOG_LEVEL"
	EnvOutputDir = "OUTPUT_DIR"
)

// Config holds environment-sourced settings.
type Config struct {
	APIKey    string
	BaseURL   string
	LogLevel  string
	OutputDir string
}

// Load reads configuration from a .env file (if present) and the process
// environment. A missing API key fails here, at startup, never mid-run.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return nil, &request.ConfigurationError{
			Field:  EnvAPIKey,
			Reason: "environment variable is not set",
		}
	}

	return &Config{
		APIKey:    apiKey,
		BaseURL:   getEnv(EnvBaseURL, request.DefaultBaseURL),
		LogLevel:  getEnv(EnvLogLevel, "info"),
		OutputDir: getEnv(EnvOutputDir, "."),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
