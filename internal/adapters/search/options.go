package search

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/bikelog/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithEndpoint sets the search API URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSpace(endpoint)
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithTimeout bounds a single upstream call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCacheSize bounds the number of cached results. Non-positive values keep the default.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}
