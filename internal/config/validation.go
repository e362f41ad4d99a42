package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("retries must be > 0")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be >= 0")
	}
	if c.Workers <= 0 || c.Workers > DefaultMaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", DefaultMaxWorkers)
	}
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("format must be csv or json, got %q", c.Format)
	}
	return nil
}
