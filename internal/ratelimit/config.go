// Package ratelimit implements the fixed-window, per-(endpoint,client)
// request admission layer described in spec.md §4.5: a Redis-backed
// primary path that fails open on Redis errors, and an in-memory
// fallback usable standalone or in tests.
package ratelimit

import "time"

// Config bounds one endpoint group's admission window.
type Config struct {
	MaxRequests uint32
	Window      time.Duration
}

// DefaultConfig matches the "any other" row of spec.md §4.5's table.
func DefaultConfig() Config {
	return Config{MaxRequests: 200, Window: 60 * time.Second}
}

// EndpointConfig holds the four per-group configs spec.md §4.5 names.
// The window is shared across groups; only the per-group limits vary.
type EndpointConfig struct {
	Pairs     Config
	Orderbook Config
	Quote     Config
	Default   Config
}

// NewEndpointConfig builds an EndpointConfig from the documented
// defaults, overridable per group via the pairs/orderbook/quote limit
// arguments (0 keeps the default) and a shared window.
func NewEndpointConfig(window time.Duration, pairsLimit, orderbookLimit, quoteLimit uint32) EndpointConfig {
	if window <= 0 {
		window = 60 * time.Second
	}
	if pairsLimit == 0 {
		pairsLimit = 60
	}
	if orderbookLimit == 0 {
		orderbookLimit = 30
	}
	if quoteLimit == 0 {
		quoteLimit = 100
	}
	return EndpointConfig{
		Pairs:     Config{MaxRequests: pairsLimit, Window: window},
		Orderbook: Config{MaxRequests: orderbookLimit, Window: window},
		Quote:     Config{MaxRequests: quoteLimit, Window: window},
		Default:   Config{MaxRequests: 200, Window: window},
	}
}

// ForPath returns the config matching the routing rule in spec.md §4.5.
func (e EndpointConfig) ForPath(path string) Config {
	switch {
	case hasPrefix(path, "/api/v1/pairs"):
		return e.Pairs
	case hasPrefix(path, "/api/v1/orderbook"):
		return e.Orderbook
	case hasPrefix(path, "/api/v1/quote"):
		return e.Quote
	default:
		return e.Default
	}
}

func hasPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}

// pathToSlug maps a path to the endpoint_slug half of the rate-limit
// key, per spec.md §4.5: named groups get a fixed slug, everything else
// is the path with its leading slash stripped and remaining slashes
// turned into underscores.
func pathToSlug(path string) string {
	switch {
	case hasPrefix(path, "/api/v1/pairs"):
		return "pairs"
	case hasPrefix(path, "/api/v1/orderbook"):
		return "orderbook"
	case hasPrefix(path, "/api/v1/quote"):
		return "quote"
	default:
		sanitized := path
		if len(sanitized) > 0 && sanitized[0] == '/' {
			sanitized = sanitized[1:]
		}
		out := make([]byte, len(sanitized))
		for i := 0; i < len(sanitized); i++ {
			if sanitized[i] == '/' {
				out[i] = '_'
			} else {
				out[i] = sanitized[i]
			}
		}
		return string(out)
	}
}
