package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/timeseries"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/ws"
	asynqPkg "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/asynq"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/auth"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/redis"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:   "water-levels",
	Short: "CAESER Water Levels Monitoring Service",
	Long:  `Backend for the groundwater well monitoring dashboard: adaptive-resolution viewport queries, reading ingestion, and live updates`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Failed to execute command")
		os.Exit(1)
	}
}

// init initializes all application dependencies and registers commands
func init() {
	// Initialize config
	if err := config.Init(); err != nil {
		panic(err)
	}

	// Initialize logger
	logger.Init(config.Get().App.Timezone, config.Get().App.Env)

	// Initialize Redis
	if err := redis.Init(); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize Redis")
		panic(err)
	}

	// Initialize InfluxDB
	if err := influxdb.Init(); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize InfluxDB")
		panic(err)
	}

	// Initialize utils
	if err := utils.InitTimezone(); err != nil {
		logger.Warn().Err(err).Msg("Timezone initialization failed, continuing with UTC")
		panic(err)
	}

	// Initialize asynq client
	if err := asynqPkg.InitClient(); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize Asynq client")
		// Continue without queue functionality
	}

	// Initialize worker configuration (loads from Redis)
	asynqPkg.InitConcurrency()

	// Initialize auth system
	if err := auth.InitAuth(); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize Auth system")
		panic(err)
	}

	// Initialize dataset catalog
	if err := datasets.Init(); err != nil {
		logger.Error().Err(err).Msg("Failed to load dataset catalog")
		panic(err)
	}

	// Initialize timeseries service (segment + available-range caches)
	if err := timeseries.Init(); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize timeseries service")
		panic(err)
	}

	// Initialize live feed hub
	ws.Init()

	// Add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(devCmd)
}
