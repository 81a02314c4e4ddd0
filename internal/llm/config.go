// Package llm provides the language model clients behind the trade
// assistant. Gemini and Azure OpenAI are supported.
package llm

import (
	"fmt"

	appconfig "github.com/jonathan/trade-connect/internal/config"
)

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for short conversational replies.
	TierLite ModelTier = "lite"
	// TierStandard is for longer advisory answers.
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderAzure  Provider = "azure"
)

// Config holds the model configuration of a client.
type Config struct {
	Provider    Provider
	Endpoint    string // Azure only
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultGeminiConfig returns the default Gemini configuration.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
		},
		Temperature: 0.4,
	}
}

// AzureConfig returns a configuration that routes every tier to a single
// Azure OpenAI deployment.
func AzureConfig(endpoint, deployment string) *Config {
	return &Config{
		Provider: ProviderAzure,
		Endpoint: endpoint,
		Models: map[ModelTier]string{
			TierLite:     deployment,
			TierStandard: deployment,
		},
		Temperature: 0.4,
	}
}

// GetModel returns the model name for a given tier.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c with model assigned to tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return &out
}

// FromAppConfig selects the client configuration and API key described by
// the server configuration. ok is false when no provider is configured.
func FromAppConfig(c appconfig.Config) (cfg *Config, apiKey string, ok bool, err error) {
	switch c.LLMProvider {
	case "", appconfig.ProviderNone:
		return nil, "", false, nil
	case appconfig.ProviderGemini:
		return DefaultGeminiConfig(), c.GeminiAPIKey, true, nil
	case appconfig.ProviderAzure:
		return AzureConfig(c.AzureEndpoint, c.AzureDeployment), c.AzureAPIKey, true, nil
	default:
		return nil, "", false, fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}
}
