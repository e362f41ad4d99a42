// internal/cli/root.go
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wbb-stats/scrape/internal/config"
)

// rootCmd is the base command. Run without a subcommand it performs the
// default pipeline: load config.yaml, scrape every site, write the CSV.
var rootCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape staff directories from configured sites into one table",
	Long: `Scrape fetches women's basketball staff pages described by a declarative
YAML configuration, extracts coach and staff records with CSS selectors,
and merges everything into a single CSV or JSON table.`,
	Version: "0.1.0",
	RunE:    runScrape,
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)
	cobra.OnInitialize(initLogging)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
}

// initLogging configures zerolog from the persistent flags before any
// command body runs.
func initLogging() {
	level := zerolog.InfoLevel
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		level = zerolog.DebugLevel
	}
	if q, _ := rootCmd.PersistentFlags().GetBool("quiet"); q {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	if j, _ := rootCmd.PersistentFlags().GetBool("json"); j {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
