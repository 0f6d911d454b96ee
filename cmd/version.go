package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show application version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		fmt.Printf("%s %s (%s)\n", cfg.App.Name, cfg.App.Version, cfg.App.Env)
	},
}

// init registers the version command with the root command
func init() {
	rootCmd.AddCommand(versionCmd)
}
