package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/observability"
	"github.com/jonathan/trade-connect/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo fixtures into PostgreSQL",
	Long: `Apply the database schema and load the embedded demo fixtures (accounts,
products, documents and partner candidates) into the database named by
DATABASE_URL. Existing accounts and data are left untouched, so the command
can be run repeatedly.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if appConfig.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required (set it in the environment or the config file)")
	}
	ctx := cmd.Context()

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	fixtures, err := seed.Load()
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, appConfig.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	summary, err := fixtures.Apply(ctx, database, passwords, logger)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintSeedSummary(summary)
	return nil
}
