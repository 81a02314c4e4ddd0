package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/auth"
	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/dashboard"
	"github.com/jonathan/trade-connect/internal/seed"
	"github.com/jonathan/trade-connect/internal/server"
	"github.com/jonathan/trade-connect/internal/server/ratelimit"
	"github.com/jonathan/trade-connect/internal/session"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the Trade Connect REST API.

Without DATABASE_URL the server keeps its data in memory, preloaded with the
demo accounts supplier@example.com and buyer@example.com.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := appConfig
	if servePort != "" {
		cfg.Port = servePort
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	fixtures, err := seed.Load()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, fixtures, passwords, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	assistantSvc, closeLLM, err := newAssistant(ctx, cfg, sessions, fixtures.FAQ, logger)
	if err != nil {
		return err
	}
	defer closeLLM()

	authSvc := auth.NewService(store, passwords, auth.NewTokenService(jwtConfig), sessions, logger.Named("auth"))

	srv, err := server.New(server.Config{Addr: cfg.Addr()}, server.Deps{
		Store:     store,
		Auth:      authSvc,
		Dashboard: dashboard.NewService(store, fixtures.Overview),
		Assistant: assistantSvc,
		Limiter:   ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:    logger.Named("http"),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		zap.String("addr", cfg.Addr()),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
		zap.Bool("sqlite_sessions", cfg.SessionDBPath != ""),
		zap.String("llm_provider", cfg.LLMProvider))

	return srv.Start()
}
