package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP Server",
	Long:  `Starts the water levels HTTP server under overseer`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := server.Start(config.Get().App.Port); err != nil {
			logger.WithScope("serveCmd").Error().Err(err).Msg("Failed to start server")
		}
	},
}

// devCmd runs the same server without overseer, for hot-reload development
var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Start HTTP Server (development)",
	Long:  `Starts the water levels HTTP server without overseer, for hot reload`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := server.Start(config.Get().App.Port); err != nil {
			logger.WithScope("devCmd").Error().Err(err).Msg("Failed to start server")
		}
	},
}
