package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one route.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per Window; zero or less is unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity; defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused for this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig is the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_* variables over DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.IdleTTL = getEnvDuration("RATE_LIMIT_IDLE_TTL", cfg.IdleTTL)
	cfg.Whitelist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

// DefaultEndpointConfigs returns the per-route limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Credential endpoints
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},

		// Model-backed endpoints
		{Path: "/ask", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/assistant/messages", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Writes
		{Path: "/api/products", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/products/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/products/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/documents", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/documents/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
