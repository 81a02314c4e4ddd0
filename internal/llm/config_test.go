package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/jonathan/trade-connect/internal/config"
)

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.0-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.0-flash", config.GetModel(TierStandard))
}

func TestAzureConfig(t *testing.T) {
	config := AzureConfig("https://example.openai.azure.com", "advisor")

	assert.Equal(t, ProviderAzure, config.Provider)
	assert.Equal(t, "advisor", config.GetModel(TierLite))
	assert.Equal(t, "advisor", config.GetModel(TierStandard))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "fallback-model"},
	}
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
	assert.Equal(t, "fallback-model", config.GetModel(TierStandard))

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	config := DefaultGeminiConfig()
	custom := config.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "gemini-2.0-flash", config.GetModel(TierStandard))
	assert.Equal(t, "custom-model", custom.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.0-flash-lite", custom.GetModel(TierLite))
	assert.Equal(t, config.Temperature, custom.Temperature)
}

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name         string
		in           appconfig.Config
		wantOK       bool
		wantProvider Provider
		wantKey      string
		wantErr      bool
	}{
		{name: "none", in: appconfig.Config{LLMProvider: appconfig.ProviderNone}},
		{name: "empty", in: appconfig.Config{}},
		{
			name:         "gemini",
			in:           appconfig.Config{LLMProvider: appconfig.ProviderGemini, GeminiAPIKey: "g-key"},
			wantOK:       true,
			wantProvider: ProviderGemini,
			wantKey:      "g-key",
		},
		{
			name: "azure",
			in: appconfig.Config{
				LLMProvider:     appconfig.ProviderAzure,
				AzureEndpoint:   "https://example.openai.azure.com",
				AzureAPIKey:     "a-key",
				AzureDeployment: "advisor",
			},
			wantOK:       true,
			wantProvider: ProviderAzure,
			wantKey:      "a-key",
		},
		{name: "unknown", in: appconfig.Config{LLMProvider: "openai"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, key, ok, err := FromAppConfig(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			if tt.wantOK {
				assert.Equal(t, tt.wantProvider, cfg.Provider)
			} else {
				assert.Nil(t, cfg)
			}
		})
	}
}
