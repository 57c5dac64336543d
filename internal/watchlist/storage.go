package watchlist

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
)

// ErrBlobNotFound is returned by BlobStorage implementations when no
// watchlist blob has ever been written. The store treats it as an empty
// watchlist rather than a failure.
var ErrBlobNotFound = errors.New("watchlist blob not found")

// BlobStorage is the persistence boundary for the watchlist. The whole list
// is serialized into a single named blob; reads return the last written blob
// and writes replace it atomically. Implementations live under
// internal/infra/storage.
type BlobStorage interface {
	// ReadWatchlist returns the raw persisted watchlist blob, or
	// ErrBlobNotFound when nothing has been persisted yet.
	ReadWatchlist(ctx context.Context) ([]byte, error)

	// WriteWatchlist replaces the persisted watchlist blob.
	WriteWatchlist(ctx context.Context, blob []byte) error
}

// encodeWatchlist serializes the watchlist for blob persistence.
func encodeWatchlist(w Watchlist) ([]byte, error) {
	return json.Marshal(w)
}

// decodeWatchlist deserializes a persisted blob. A malformed blob is logged
// and treated as an empty watchlist: a corrupt store must never lock the
// user out of the app.
func decodeWatchlist(ctx context.Context, blob []byte) Watchlist {
	var w Watchlist
	if err := json.Unmarshal(blob, &w); err != nil {
		logger.Warn(ctx, "discarding malformed watchlist blob", "error", err)
		return Watchlist{}
	}
	return w
}
