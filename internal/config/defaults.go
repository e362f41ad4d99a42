package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel   = "info"
	DefaultJSONLog    = false
	DefaultUserAgent  = "Mozilla/5.0 (compatible; CoachScraper/1.0)"
	DefaultConfigPath = "config.yaml"
	DefaultOutputPath = "wbb_coaches.csv"
	DefaultFormat     = "csv"

	DefaultHTTPTimeout = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 5 * time.Second

	DefaultWorkers    = 8
	DefaultMaxWorkers = 50
)
