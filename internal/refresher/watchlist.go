package refresher

import (
	"context"

	"github.com/gabapcia/algowatch/internal/watchlist"
)

// Store is the slice of the watchlist store the orchestrator needs: reading
// the current list at the start of a cycle and atomically committing the
// reconciled replacement at the end. Both calls are serialized by the store
// itself, so a commit can never interleave with a concurrent add or remove.
type Store interface {
	// Load returns the current watchlist; empty when nothing is watched.
	Load(ctx context.Context) (watchlist.Watchlist, error)

	// ReplaceAll swaps the persisted watchlist for the reconciled one.
	ReplaceAll(ctx context.Context, w watchlist.Watchlist) error
}
