package config

import (
	"errors"
	"testing"

	"github.com/avsdata/aviationstack-export/pkg/request"
)

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := Load()

	var cfgErr *request.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() error = %v, want *ConfigurationError", err)
	}
	if cfgErr.Field != EnvAPIKey {
		t.Errorf("Field = %q, want %q", cfgErr.Field, EnvAPIKey)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "test-key")
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvOutputDir, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want test-key", cfg.APIKey)
	}
	if cfg.BaseURL != request.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, request.DefaultBaseURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.OutputDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAPIKey, "test-key")
	t.Setenv(EnvBaseURL, "http://localhost:9999")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOutputDir, "/tmp/exports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.OutputDir != "/tmp/exports" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}
