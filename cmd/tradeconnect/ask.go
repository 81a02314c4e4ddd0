package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/trade-connect/internal/observability"
	"github.com/jonathan/trade-connect/internal/seed"
	"github.com/jonathan/trade-connect/internal/session"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the export assistant a single question",
	Long: `Send one question to the export assistant and print its reply.

The configured language model (LLM_PROVIDER) answers when available; keyword
replies are used otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the reply as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	message := strings.Join(args, " ")

	fixtures, err := seed.Load()
	if err != nil {
		return err
	}

	sessions := session.NewMemory()
	defer func() { _ = sessions.Close() }()

	svc, closeLLM, err := newAssistant(ctx, appConfig, sessions, fixtures.FAQ, logger)
	if err != nil {
		return err
	}
	defer closeLLM()

	resp, err := svc.Ask(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to ask assistant: %w", err)
	}

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	observability.NewPrinter(os.Stdout).PrintAnswer(message, resp)
	return nil
}
