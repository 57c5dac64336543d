package refresher

import (
	"context"

	"github.com/gabapcia/algowatch/internal/watchlist"
)

// AccountReader fetches the current on-chain snapshot of one account.
// Retrying transient failures is the implementation's concern; an error
// returned here marks the account's refresh as failed for this cycle only.
type AccountReader interface {
	FetchAccount(ctx context.Context, address string) (watchlist.AccountSnapshot, error)
}
