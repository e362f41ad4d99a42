package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Inputs and outputs
	SitesPath  string
	OutputPath string
	Format     string
	DBPath     string

	// HTTP/Fetching
	HTTPTimeout time.Duration
	UserAgent   string
	MaxRetries  int
	RetryDelay  time.Duration

	// Concurrency
	Workers int
}

// Load builds a Config from defaults, environment variables, and CLI
// flags, in increasing precedence. Caller passes the command so flags
// can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:    DefaultLogLevel,
		JSONLog:     DefaultJSONLog,
		SitesPath:   DefaultConfigPath,
		OutputPath:  DefaultOutputPath,
		Format:      DefaultFormat,
		HTTPTimeout: DefaultHTTPTimeout,
		UserAgent:   DefaultUserAgent,
		MaxRetries:  DefaultMaxRetries,
		RetryDelay:  DefaultRetryDelay,
		Workers:     DefaultWorkers,
	}

	// Environment overrides
	if v := os.Getenv("SCRAPE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("SCRAPE_CONFIG"); v != "" {
		cfg.SitesPath = v
	}
	if v := os.Getenv("SCRAPE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}

	// CLI flags win
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
			cfg.SitesPath = f.Value.String()
		}
		if f := cmd.Flags().Lookup("out"); f != nil && f.Changed {
			cfg.OutputPath = f.Value.String()
		}
		if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
			cfg.Format = f.Value.String()
		}
		if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
			cfg.DBPath = f.Value.String()
		}
		if f := cmd.Flags().Lookup("user-agent"); f != nil && f.Changed {
			cfg.UserAgent = f.Value.String()
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.HTTPTimeout = d
			}
		}
		if f := cmd.Flags().Lookup("retries"); f != nil && f.Changed {
			if n, err := strconv.Atoi(f.Value.String()); err == nil {
				cfg.MaxRetries = n
			}
		}
		if f := cmd.Flags().Lookup("retry-delay"); f != nil && f.Changed {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.RetryDelay = d
			}
		}
		if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
			if n, err := strconv.Atoi(f.Value.String()); err == nil {
				cfg.Workers = n
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
			cfg.JSONLog = true
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "error"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
