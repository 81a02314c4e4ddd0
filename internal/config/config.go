// Package config provides configuration loading and validation for the
// Trade Connect server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LLM providers accepted by LLMProvider.
const (
	ProviderNone   = "none"
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"
)

// Config is the server configuration. It can be loaded from a JSON file and
// is then completed from the environment and defaults.
type Config struct {
	// Server
	Port          string `json:"port,omitempty"`
	DatabaseURL   string `json:"database_url,omitempty"`    // PostgreSQL; empty uses the in-memory store
	SessionDBPath string `json:"session_db_path,omitempty"` // SQLite file; empty keeps sessions in memory
	SessionTTL    int    `json:"session_ttl_hours,omitempty"`

	// Assistant
	LLMProvider     string `json:"llm_provider,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	AzureEndpoint   string `json:"azure_openai_endpoint,omitempty"`
	AzureAPIKey     string `json:"azure_openai_api_key,omitempty"`
	AzureDeployment string `json:"azure_openai_deployment,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"` // json or console
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Port:        "8080",
		SessionTTL:  24,
		LLMProvider: ProviderNone,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables. Unset
// variables leave the field empty.
func FromEnv() (Config, error) {
	ttl, err := envInt("SESSION_TTL_HOURS", 0)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Port:            os.Getenv("PORT"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SessionDBPath:   os.Getenv("SESSION_DB_PATH"),
		SessionTTL:      ttl,
		LLMProvider:     strings.ToLower(os.Getenv("LLM_PROVIDER")),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
	}, nil
}

// Load builds the effective configuration: file values (when path is set)
// win over the environment, which wins over Defaults.
func Load(path string) (Config, error) {
	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg := env.MergeWithDefaults(Defaults())

	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = file.MergeWithDefaults(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.SessionTTL < 0 {
		return fmt.Errorf("config error: 'session_ttl_hours' must be non-negative")
	}

	switch c.LLMProvider {
	case "", ProviderNone:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: 'gemini_api_key' is required for provider %q", ProviderGemini)
		}
	case ProviderAzure:
		if c.AzureEndpoint == "" || c.AzureAPIKey == "" || c.AzureDeployment == "" {
			return fmt.Errorf("config error: azure provider needs endpoint, api key and deployment")
		}
	default:
		return fmt.Errorf("config error: unknown llm_provider %q", c.LLMProvider)
	}

	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or console, got %q", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a copy of c with empty fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Port, defaults.Port)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.SessionDBPath, defaults.SessionDBPath)
	fill(&result.LLMProvider, defaults.LLMProvider)
	fill(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fill(&result.AzureEndpoint, defaults.AzureEndpoint)
	fill(&result.AzureAPIKey, defaults.AzureAPIKey)
	fill(&result.AzureDeployment, defaults.AzureDeployment)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)

	if result.SessionTTL == 0 {
		result.SessionTTL = defaults.SessionTTL
	}

	return result
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
