package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wbb-stats/scrape/internal/config"
	"github.com/wbb-stats/scrape/internal/ui"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List configured schools and their table blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		sites, err := config.LoadSites(cfg.SitesPath)
		if err != nil {
			return err
		}

		for _, name := range sites.Names() {
			site := sites[name]
			fmt.Fprintf(os.Stdout, "%s\n", ui.Bold(name))
			if site.NeedsCustomHandler() {
				fmt.Fprintf(os.Stdout, "  %s\n", ui.Warn("custom handler: "+site.Handler))
				continue
			}
			fmt.Fprintf(os.Stdout, "  %s\n", ui.Dim(site.URL))
			for _, block := range site.Tables {
				fmt.Fprintf(os.Stdout, "  %s (%s, %d fields)\n",
					block.Key, block.Label, len(block.Config.FieldSelectors))
			}
		}

		fmt.Fprintf(os.Stdout, "\n%d sites configured\n", len(sites))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
