// Package main provides the entry point for the Trade Connect API server and
// its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/logging"
)

var (
	configPath string
	appConfig  config.Config
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "tradeconnect",
	Short:        "Trade Connect HTTP API Server",
	Long:         "Trade Connect links Indonesian suppliers with buyers: catalog and document management, partner recommendations and an export assistant, served over a REST API.",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		l, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		appConfig, logger = cfg, l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (overrides environment variables)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
