package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		client := NewClient()

		require.NotNil(t, client)
		assert.Equal(t, 5*time.Second, client.HTTPClient.Timeout)
		assert.Equal(t, 1*time.Second, client.RetryWaitMin)
		assert.Equal(t, 5*time.Second, client.RetryWaitMax)
		assert.Equal(t, 2, client.RetryMax)
		assert.Nil(t, client.Logger)
	})

	t.Run("applies options", func(t *testing.T) {
		client := NewClient(
			WithTimeout(time.Second),
			WithRetryWaitMin(10*time.Millisecond),
			WithRetryWaitMax(20*time.Millisecond),
			WithRetryMax(7),
		)

		assert.Equal(t, time.Second, client.HTTPClient.Timeout)
		assert.Equal(t, 10*time.Millisecond, client.RetryWaitMin)
		assert.Equal(t, 20*time.Millisecond, client.RetryWaitMax)
		assert.Equal(t, 7, client.RetryMax)
	})

	t.Run("custom retry predicate and backoff are honored", func(t *testing.T) {
		var serverCalls atomic.Int32
		srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			serverCalls.Add(1)
			w.WriteHeader(stdhttp.StatusTeapot)
		}))
		defer srv.Close()

		var predicateCalls, backoffCalls atomic.Int32
		client := NewClient(
			WithRetryMax(2),
			WithCheckRetry(func(ctx context.Context, resp *stdhttp.Response, err error) (bool, error) {
				predicateCalls.Add(1)
				return resp != nil && resp.StatusCode == stdhttp.StatusTeapot, nil
			}),
			WithBackoff(func(min, max time.Duration, attemptNum int, resp *stdhttp.Response) time.Duration {
				backoffCalls.Add(1)
				return time.Millisecond
			}),
		)

		req, err := retryablehttp.NewRequest(stdhttp.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, int32(3), serverCalls.Load())
		assert.Equal(t, int32(3), predicateCalls.Load())
		assert.Equal(t, int32(2), backoffCalls.Load())
	})
}
