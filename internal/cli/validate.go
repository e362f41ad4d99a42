package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wbb-stats/scrape/internal/config"
	"github.com/wbb-stats/scrape/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the site configuration without fetching anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		sites, err := config.LoadSites(cfg.SitesPath)
		if err != nil {
			return err
		}

		broken := 0
		for _, name := range sites.Names() {
			problems := config.Problems(sites[name])
			if len(problems) == 0 {
				fmt.Fprintf(os.Stdout, "%s %s\n", ui.Success("ok"), name)
				continue
			}
			broken++
			fmt.Fprintf(os.Stdout, "%s %s\n", ui.Error("!!"), name)
			for _, p := range problems {
				fmt.Fprintf(os.Stdout, "   %s\n", ui.Dim(p))
			}
		}

		if broken > 0 {
			return fmt.Errorf("%d of %d sites have problems", broken, len(sites))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
