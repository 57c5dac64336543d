package watchlist

import "context"

// ChainReader fetches the current on-chain state of a single account,
// including the metadata of every asset it holds. Implementations apply
// their own retry policy; by the time an error surfaces here the fetch is
// considered failed for this cycle.
type ChainReader interface {
	FetchAccount(ctx context.Context, address string) (AccountSnapshot, error)
}
