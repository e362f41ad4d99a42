package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit structured JSON logs")
	cmd.PersistentFlags().StringP("config", "c", DefaultConfigPath, "Path to the site configuration file")
	cmd.PersistentFlags().String("timeout", DefaultHTTPTimeout.String(), "Per-request HTTP timeout")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
}
