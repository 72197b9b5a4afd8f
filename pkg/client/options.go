package client

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the SDK logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetry configures the retry policy. max is the number of retries on
// top of the initial attempt.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		if max >= 0 {
			c.retryMax = max
		}
		if waitMin > 0 {
			c.retryWaitMin = waitMin
		}
		if waitMax > 0 {
			c.retryWaitMax = waitMax
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}
