package algonode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/watchlist"
)

// accountResponse mirrors the algod `GET /v2/accounts/{address}` payload,
// limited to the fields this application consumes.
type accountResponse struct {
	Address                     string            `json:"address"`
	Amount                      uint64            `json:"amount"`
	AmountWithoutPendingRewards uint64            `json:"amount-without-pending-rewards"`
	MinBalance                  uint64            `json:"min-balance"`
	PendingRewards              uint64            `json:"pending-rewards"`
	RewardBase                  uint64            `json:"reward-base"`
	Rewards                     uint64            `json:"rewards"`
	Round                       uint64            `json:"round"`
	Status                      string            `json:"status"`
	TotalAppsOptedIn            uint64            `json:"total-apps-opted-in"`
	TotalAssetsOptedIn          uint64            `json:"total-assets-opted-in"`
	TotalCreatedApps            uint64            `json:"total-created-apps"`
	TotalCreatedAssets          uint64            `json:"total-created-assets"`
	Assets                      []assetHoldingRef `json:"assets"`
}

// assetHoldingRef is one element of the account payload's `assets` array:
// the account's position in an asset, without the asset's metadata.
type assetHoldingRef struct {
	AssetID  uint64 `json:"asset-id"`
	Amount   uint64 `json:"amount"`
	IsFrozen bool   `json:"is-frozen"`
}

// toSnapshot converts the transport payload into the domain snapshot.
// Holdings are filled in separately once asset metadata has been merged.
func (r accountResponse) toSnapshot(address string) watchlist.AccountSnapshot {
	return watchlist.AccountSnapshot{
		Address:                     address,
		Amount:                      r.Amount,
		AmountWithoutPendingRewards: r.AmountWithoutPendingRewards,
		MinBalance:                  r.MinBalance,
		PendingRewards:              r.PendingRewards,
		RewardBase:                  r.RewardBase,
		Rewards:                     r.Rewards,
		Round:                       r.Round,
		Status:                      r.Status,
		TotalAppsOptedIn:            r.TotalAppsOptedIn,
		TotalAssetsOptedIn:          r.TotalAssetsOptedIn,
		TotalCreatedApps:            r.TotalCreatedApps,
		TotalCreatedAssets:          r.TotalCreatedAssets,
	}
}

// FetchAccount retrieves the account's current state plus the metadata of
// every asset it holds and assembles a domain snapshot.
//
// The primary account request is mandatory: exhausting its retry budget or
// hitting a non-success status fails the fetch. The secondary per-asset
// metadata requests are not: an asset whose metadata cannot be fetched is
// dropped from the snapshot's holdings and logged, so a single broken asset
// id never blocks the whole account.
func (c *client) FetchAccount(ctx context.Context, address string) (watchlist.AccountSnapshot, error) {
	var zero watchlist.AccountSnapshot

	resp, err := c.get(ctx, fmt.Sprintf("%s/v2/accounts/%s", c.baseURL, address))
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("%w: account endpoint answered %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return zero, fmt.Errorf("decoding account payload: %w", err)
	}

	snapshot := payload.toSnapshot(address)
	snapshot.Holdings = c.fetchHoldings(ctx, payload.Assets)
	return snapshot, nil
}

// fetchHoldings resolves asset metadata for every holding reference in
// parallel, preserving the order the node reported them in. References whose
// metadata fetch fails are skipped.
func (c *client) fetchHoldings(ctx context.Context, refs []assetHoldingRef) []watchlist.AssetHolding {
	if len(refs) == 0 {
		return nil
	}

	resolved := make([]*watchlist.AssetHolding, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref assetHoldingRef) {
			defer wg.Done()

			params, err := c.fetchAssetParams(ctx, ref.AssetID)
			if err != nil {
				logger.Warn(ctx, "dropping asset from account snapshot",
					"asset.id", ref.AssetID,
					"error", err,
				)
				return
			}

			resolved[i] = &watchlist.AssetHolding{
				ID:       ref.AssetID,
				Name:     params.Name,
				UnitName: params.UnitName,
				Total:    params.Total,
				Decimals: params.Decimals,
				Frozen:   ref.IsFrozen,
				URL:      params.URL,
				Amount:   ref.Amount,
			}
		}(i, ref)
	}
	wg.Wait()

	holdings := make([]watchlist.AssetHolding, 0, len(refs))
	for _, h := range resolved {
		if h != nil {
			holdings = append(holdings, *h)
		}
	}

	if len(holdings) == 0 {
		return nil
	}
	return holdings
}
