package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/assistant"
	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/llm"
	"github.com/jonathan/trade-connect/internal/seed"
	"github.com/jonathan/trade-connect/internal/session"
	"github.com/jonathan/trade-connect/internal/types"
)

// openStore connects to PostgreSQL when a database URL is configured.
// Otherwise it returns an in-memory store loaded with the demo fixtures.
func openStore(ctx context.Context, cfg config.Config, fixtures *seed.Fixtures, passwords *config.PasswordConfig, logger *zap.Logger) (db.Store, error) {
	if cfg.DatabaseURL == "" {
		store := db.NewMemory()
		summary, err := fixtures.Apply(ctx, store, passwords, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load demo data: %w", err)
		}
		logger.Info("using in-memory store with demo data",
			zap.Int("users", summary.Users),
			zap.Int("partners", summary.Partners))
		return store, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// newAssistant builds the assistant service over sessions. The returned
// close function releases the model client, if any.
func newAssistant(ctx context.Context, cfg config.Config, sessions session.Store, faq []types.FAQ, logger *zap.Logger) (*assistant.Service, func(), error) {
	noop := func() {}

	var primary assistant.Responder
	llmCfg, apiKey, ok, err := llm.FromAppConfig(cfg)
	if err != nil {
		return nil, noop, err
	}
	closeFn := noop
	if ok {
		client, err := llm.NewClient(ctx, llmCfg, apiKey)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create llm client: %w", err)
		}
		closeFn = func() { _ = client.Close() }

		responder, err := assistant.NewLLMResponder(client)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
		primary = responder
		logger.Info("assistant backed by language model", zap.String("model", client.Name()))
	}

	svc, err := assistant.NewService(sessions, primary, assistant.Options{
		FAQ:    faq,
		TTL:    time.Duration(cfg.SessionTTL) * time.Hour,
		Logger: logger,
	})
	if err != nil {
		closeFn()
		return nil, noop, err
	}
	return svc, closeFn, nil
}
