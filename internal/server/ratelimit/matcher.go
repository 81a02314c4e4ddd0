package ratelimit

import "strings"

// unlimited routes are never rate limited.
var unlimited = map[string]bool{
	"GET /health": true,
	"GET /test":   true,
	"GET /":       true,
}

// MatchEndpoint returns the configuration for a request, or nil when only
// the default applies. Exact paths win over prefixes, and longer prefixes
// win over shorter ones.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "OPTIONS" || unlimited[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
