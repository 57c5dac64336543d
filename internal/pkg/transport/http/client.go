// Package http builds retrying HTTP clients on top of HashiCorp's
// retryablehttp. Besides the usual timeout and retry-budget knobs it lets
// callers install their own retry predicate and backoff strategy, which the
// blockchain client uses to encode API-specific rate-limit handling.
package http

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// config holds the settings applied when building a client.
type config struct {
	timeout      time.Duration              // per-request timeout
	retryWaitMin time.Duration              // minimum wait between retries
	retryWaitMax time.Duration              // maximum wait between retries
	retryMax     int                        // number of retries after the initial attempt
	checkRetry   retryablehttp.CheckRetry   // optional custom retry predicate
	backoff      retryablehttp.Backoff      // optional custom backoff strategy
}

// Option customizes the client returned by NewClient.
type Option func(*config)

// NewClient returns a retryablehttp.Client configured with the provided
// options. Defaults: 5s timeout, 1s..5s retry wait, 2 retries, and the
// library's stock retry predicate and backoff.
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      5 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax
	if cfg.checkRetry != nil {
		client.CheckRetry = cfg.checkRetry
	}
	if cfg.backoff != nil {
		client.Backoff = cfg.backoff
	}
	return client
}

// WithTimeout sets the maximum duration allowed for a single HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum delay between retry attempts.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum delay between retry attempts.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets how many retries follow a failed initial attempt.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithCheckRetry replaces the predicate that decides whether a response (or
// transport error) should be retried.
func WithCheckRetry(cr retryablehttp.CheckRetry) Option {
	return func(c *config) {
		c.checkRetry = cr
	}
}

// WithBackoff replaces the strategy that computes the wait before each retry.
func WithBackoff(b retryablehttp.Backoff) Option {
	return func(c *config) {
		c.backoff = b
	}
}
