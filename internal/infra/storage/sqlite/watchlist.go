package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/algowatch/internal/watchlist"
)

// watchlistBlobKey is the row key under which the serialized watchlist is
// stored. One named blob holds the entire list.
const watchlistBlobKey = "watchlist"

// ReadWatchlist implements watchlist.BlobStorage. It returns the last blob
// written under the watchlist key, or watchlist.ErrBlobNotFound when the app
// has never persisted one.
func (c *client) ReadWatchlist(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT value FROM blobs WHERE key = ?", watchlistBlobKey,
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, watchlist.ErrBlobNotFound
		}
		return nil, fmt.Errorf("querying watchlist blob: %w", err)
	}

	return blob, nil
}

// WriteWatchlist implements watchlist.BlobStorage with a whole-blob upsert.
func (c *client) WriteWatchlist(ctx context.Context, blob []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, watchlistBlobKey, blob, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("upserting watchlist blob: %w", err)
	}

	return nil
}

// Compile-time assertion that *client satisfies the persistence boundary.
var _ watchlist.BlobStorage = (*client)(nil)
