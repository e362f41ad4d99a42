package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wbb-stats/scrape/internal/config"
	"github.com/wbb-stats/scrape/internal/engine"
	"github.com/wbb-stats/scrape/internal/fetch"
	"github.com/wbb-stats/scrape/internal/output"
	"github.com/wbb-stats/scrape/internal/retry"
	"github.com/wbb-stats/scrape/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape all configured sites and export the merged table",
	Example: `  # Default run: ./config.yaml in, wbb_coaches.csv out
  scrape run

  # JSON export with 16 workers, archiving to SQLite
  scrape run --format json --out coaches.json --workers 16 --db rosters.db`,
	RunE: runScrape,
}

func init() {
	runCmd.Flags().StringP("out", "o", config.DefaultOutputPath, "Output file path")
	runCmd.Flags().String("format", config.DefaultFormat, "Output format: csv or json")
	runCmd.Flags().IntP("workers", "w", config.DefaultWorkers, "Number of concurrent site scrapes")
	runCmd.Flags().Int("retries", config.DefaultMaxRetries, "Fetch attempts per site")
	runCmd.Flags().String("retry-delay", config.DefaultRetryDelay.String(), "Delay between fetch attempts")
	runCmd.Flags().String("db", "", "Optional SQLite database to archive the run")
	rootCmd.AddCommand(runCmd)

	// The bare root command shares run's flags so `scrape` alone works
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	sites, err := config.LoadSites(cfg.SitesPath)
	if err != nil {
		// The only fatal failure class: a broken config means no run
		return err
	}

	client := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	fetcher := fetch.New(client, cfg.UserAgent, retry.Config{
		MaxAttempts:    cfg.MaxRetries,
		InitialBackoff: cfg.RetryDelay,
		MaxBackoff:     cfg.RetryDelay,
		Multiplier:     1.0,
	})

	eng := engine.New(fetcher)

	var onDone func(string)
	if !cfg.JSONLog && cfg.LogLevel != "debug" {
		bar := progressbar.NewOptions(len(sites),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("scraping"),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowCount(),
		)
		onDone = func(string) { bar.Add(1) }
	}

	started := time.Now()
	table := eng.ScrapeAll(cmd.Context(), sites, cfg.Workers, onDone)

	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()

		runID, err := db.SaveRun(table, started)
		if err != nil {
			return fmt.Errorf("archive run: %w", err)
		}
		log.Debug().Str("run_id", runID).Msg("Run archived")
	}

	switch cfg.Format {
	case "json":
		return output.SaveJSON(table, cfg.OutputPath)
	default:
		return output.SaveCSV(table, cfg.OutputPath)
	}
}
