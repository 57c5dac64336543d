// Package algonode implements the watchlist.ChainReader interface against an
// algod-style REST API (algonode.cloud or any compatible node).
//
// Retry behavior mirrors what the API actually needs: HTTP 429 responses are
// retried with an escalating delay, transport-level failures are retried
// with a flat delay, and any other non-success status fails immediately.
package algonode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gabapcia/algowatch/internal/watchlist"

	transporthttp "github.com/gabapcia/algowatch/internal/pkg/transport/http"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrNetworkUnavailable means the request could not be completed within
	// the retry budget: either the transport kept failing or the API kept
	// rate-limiting us.
	ErrNetworkUnavailable = errors.New("node API unreachable")

	// ErrUnexpectedStatus means the API answered with a non-success status
	// that is not worth retrying.
	ErrUnexpectedStatus = errors.New("node API returned an unexpected status")
)

// client talks to a single algod-compatible endpoint.
type client struct {
	http    *retryablehttp.Client
	baseURL string
}

// Ensure client satisfies the domain's reader contract.
var _ watchlist.ChainReader = (*client)(nil)

// config holds the settings applied by Options.
type config struct {
	baseURL   string        // API base URL, without trailing slash
	timeout   time.Duration // per-request timeout
	retryMax  int           // retries after the initial attempt
	retryBase time.Duration // base delay between retries
}

// Option customizes the client created by New.
type Option func(*config)

// WithBaseURL points the client at a different node endpoint.
// Default: the public Algonode testnet API.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithTimeout sets the per-request timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryMax sets how many retries follow a failed initial attempt.
// Default: 3, i.e. up to 4 calls per request.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithRetryBase sets the base delay between retries. Rate-limited requests
// wait multiples of this value; transport failures wait exactly this value.
// Default: 1s.
func WithRetryBase(d time.Duration) Option {
	return func(c *config) {
		c.retryBase = d
	}
}

// New creates an algonode client.
func New(opts ...Option) *client {
	cfg := config{
		baseURL:   "https://testnet-api.algonode.cloud",
		timeout:   10 * time.Second,
		retryMax:  3,
		retryBase: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.timeout),
		transporthttp.WithRetryMax(cfg.retryMax),
		transporthttp.WithRetryWaitMin(cfg.retryBase),
		transporthttp.WithRetryWaitMax(cfg.retryBase*time.Duration(cfg.retryMax+1)),
		transporthttp.WithCheckRetry(checkRetry),
		transporthttp.WithBackoff(backoff),
	)

	return &client{
		http:    httpClient,
		baseURL: cfg.baseURL,
	}
}

// checkRetry decides whether a request should be retried. Transport errors
// and HTTP 429 are retryable; every other response is final and left to the
// caller to interpret.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if cerr := ctx.Err(); cerr != nil {
		return false, cerr
	}

	if err != nil {
		return true, nil
	}

	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}

	return false, nil
}

// backoff computes the wait before a retry. Rate-limited responses escalate
// linearly with the attempt index (base, 2*base, 3*base, ...); transport
// failures always wait the flat base delay.
func backoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		d := min * time.Duration(attemptNum+1)
		if d > max {
			return max
		}
		return d
	}
	return min
}

// get issues a GET through the retrying client. An error here means the
// retry budget is exhausted; the caller still owns status-code handling for
// responses that did come back.
func (c *client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}

	return resp, nil
}
