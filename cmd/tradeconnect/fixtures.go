package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/trade-connect/internal/dashboard"
	"github.com/jonathan/trade-connect/internal/observability"
	"github.com/jonathan/trade-connect/internal/seed"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Validate the embedded demo fixtures",
	Long:  "Validate every embedded fixture file against its JSON schema and print the overview and FAQ they define.",
	RunE:  runFixtures,
}

func init() {
	rootCmd.AddCommand(fixturesCmd)
}

func runFixtures(_ *cobra.Command, _ []string) error {
	fixtures, err := seed.Load()
	if err != nil {
		return err
	}

	fmt.Printf("fixtures valid: %d users, %d products, %d documents, %d partners\n",
		len(fixtures.Users), len(fixtures.Products), len(fixtures.Documents), len(fixtures.Partners))

	p := observability.NewPrinter(os.Stdout)
	p.PrintOverview(dashboard.NewService(nil, fixtures.Overview).Overview())
	p.PrintFAQ(fixtures.FAQ)
	return nil
}
