// Package retry wraps avast/retry-go behind a small interface with
// functional options. The default policy is exponential backoff, which fits
// the transient failures this project deals with (flaky storage writes,
// remote APIs shedding load).
package retry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry executes operations with automatic retries on failure.
type Retry interface {
	// Execute runs operation, retrying according to the configured policy
	// until it succeeds, the attempt budget is exhausted, or ctx is done.
	// The operation must be safe to invoke more than once.
	Execute(ctx context.Context, operation func() error) error
}

// config holds the tunables applied by Options.
type config struct {
	attempts    uint          // total attempts, including the first one
	delay       time.Duration // base delay before the first retry
	maxDelay    time.Duration // upper bound for the backoff delay
	lastErrOnly bool          // return only the final error instead of all of them
}

// Option customizes the retry policy created by New.
type Option func(*config)

// retrier implements Retry on top of retry-go.
type retrier struct {
	cfg config
}

var _ Retry = (*retrier)(nil)

// New builds a Retry with the given options. Without options the policy is
// 3 attempts, 1s base delay, 5s max delay, exponential backoff, and only the
// last error reported.
func New(opts ...Option) Retry {
	cfg := config{
		attempts:    3,
		delay:       1 * time.Second,
		maxDelay:    5 * time.Second,
		lastErrOnly: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// Execute runs the operation under the configured policy. The context is
// honored between attempts: once it is done, no further attempt is made and
// the context error is returned.
func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(r.cfg.lastErrOnly),
		retry.Context(ctx),
	}

	return retry.Do(operation, options...)
}

// WithAttempts sets the total number of attempts, including the initial one.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithDelay sets the base delay applied before the first retry. Subsequent
// delays grow exponentially from this value.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay caps the backoff delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// WithLastErrorOnly controls whether Execute returns only the error from the
// final attempt (true, the default) or every attempt's error joined.
func WithLastErrorOnly(b bool) Option {
	return func(c *config) {
		c.lastErrOnly = b
	}
}
