package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves the limit configuration for a path and method.
// Exact path matches win; patterns ending in "/" match as prefixes, so
// "/sessions/" covers "/sessions/{id}". Returns nil when nothing matches
// and the caller should apply the default limit.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// The health check is always unlimited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
