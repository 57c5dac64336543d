package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/algowatch/internal/watchlist"

	redis "github.com/redis/go-redis/v9"
)

// watchlistBlobKey is the key under which the serialized watchlist lives.
//
// Format: "watchlist:blob"
const watchlistBlobKey = "watchlist:blob"

// ReadWatchlist implements watchlist.BlobStorage using a plain GET. A
// missing key maps to watchlist.ErrBlobNotFound.
func (c *client) ReadWatchlist(ctx context.Context) ([]byte, error) {
	blob, err := c.conn.Get(ctx, watchlistBlobKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, watchlist.ErrBlobNotFound
		}
		return nil, fmt.Errorf("getting watchlist blob: %w", err)
	}

	return blob, nil
}

// WriteWatchlist implements watchlist.BlobStorage with an unconditional SET,
// replacing the whole blob. No expiration: the watchlist is durable state.
func (c *client) WriteWatchlist(ctx context.Context, blob []byte) error {
	if err := c.conn.Set(ctx, watchlistBlobKey, blob, 0).Err(); err != nil {
		return fmt.Errorf("setting watchlist blob: %w", err)
	}

	return nil
}

// Compile-time assertion that *client satisfies the persistence boundary.
var _ watchlist.BlobStorage = (*client)(nil)
