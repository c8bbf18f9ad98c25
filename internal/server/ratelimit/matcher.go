package ratelimit

import (
	"strings"
)

// MatchEndpoint finds the configuration for a request path and method.
// Exact matches win over prefix matches; nil means no specific config
// applies and the global default should be used.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// The health check is never rate limited.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Path == path && cfg.Method == method {
			return cfg
		}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Method == method && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			return cfg
		}
	}

	return nil
}
