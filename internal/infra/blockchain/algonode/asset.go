package algonode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// assetResponse mirrors the algod `GET /v2/assets/{id}` payload.
type assetResponse struct {
	Index  uint64      `json:"index"`
	Params assetParams `json:"params"`
}

// assetParams is the subset of asset configuration the watchlist renders.
type assetParams struct {
	Name     string `json:"name"`
	UnitName string `json:"unit-name"`
	Total    uint64 `json:"total"`
	Decimals uint32 `json:"decimals"`
	URL      string `json:"url"`
}

// fetchAssetParams retrieves the metadata of a single asset. Metadata is
// fetched on every refresh instead of cached: decimals and names can only be
// rendered correctly with the asset's own parameters, and re-fetching keeps
// them current without an invalidation story.
func (c *client) fetchAssetParams(ctx context.Context, assetID uint64) (assetParams, error) {
	var zero assetParams

	resp, err := c.get(ctx, fmt.Sprintf("%s/v2/assets/%d", c.baseURL, assetID))
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("%w: asset endpoint answered %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload assetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return zero, fmt.Errorf("decoding asset payload: %w", err)
	}

	return payload.Params, nil
}
