package watchlist

import "time"

// addressLength is the fixed length of an Algorand address in its canonical
// Base32 form (public key plus checksum, no padding).
const addressLength = 58

// AssetHolding is one asset held by an account at a point in time, combining
// the account's position (Amount, Frozen) with the asset's metadata as
// reported by the node. Amounts are expressed in the asset's base units.
type AssetHolding struct {
	ID       uint64 `json:"id"`                  // Asset identifier on the network
	Name     string `json:"name,omitempty"`      // Human-readable asset name
	UnitName string `json:"unit_name,omitempty"` // Ticker-style unit symbol
	Total    uint64 `json:"total"`               // Total supply in base units
	Decimals uint32 `json:"decimals"`            // Display decimals, 0..19
	Frozen   bool   `json:"frozen"`              // Whether the holding is frozen for this account
	URL      string `json:"url,omitempty"`       // Optional asset media/metadata URL
	Amount   uint64 `json:"amount"`              // Account balance of this asset, in base units
}

// AccountSnapshot is an immutable capture of an account's on-chain state as
// of a specific round. A refresh always produces a brand-new snapshot; the
// previous one is never mutated in place.
type AccountSnapshot struct {
	Address                     string         `json:"address"`
	Amount                      uint64         `json:"amount"` // Balance in microalgos
	AmountWithoutPendingRewards uint64         `json:"amount_without_pending_rewards"`
	MinBalance                  uint64         `json:"min_balance"`
	PendingRewards              uint64         `json:"pending_rewards"`
	RewardBase                  uint64         `json:"reward_base"`
	Rewards                     uint64         `json:"rewards"`
	Round                       uint64         `json:"round"`
	Status                      string         `json:"status"`
	TotalCreatedApps            uint64         `json:"total_created_apps"`
	TotalCreatedAssets          uint64         `json:"total_created_assets"`
	TotalAppsOptedIn            uint64         `json:"total_apps_opted_in"`
	TotalAssetsOptedIn          uint64         `json:"total_assets_opted_in"`
	Holdings                    []AssetHolding `json:"holdings,omitempty"` // Ordered as reported by the node
}

// clone returns a deep copy of the snapshot.
func (s AccountSnapshot) clone() AccountSnapshot {
	out := s
	if s.Holdings != nil {
		out.Holdings = make([]AssetHolding, len(s.Holdings))
		copy(out.Holdings, s.Holdings)
	}
	return out
}

// WatchedAccount is one watchlist entry. Snapshot is nil only for entries
// that never completed a fetch, which Add rules out; after that, a failed
// refresh keeps the previous (stale) snapshot and records LastError instead
// of blanking the entry.
type WatchedAccount struct {
	Address     string           `json:"address"`
	Snapshot    *AccountSnapshot `json:"snapshot,omitempty"`
	LastUpdated time.Time        `json:"last_updated"`
	LastError   string           `json:"last_error,omitempty"`
}

// clone returns a deep copy of the entry.
func (w WatchedAccount) clone() WatchedAccount {
	out := w
	if w.Snapshot != nil {
		snap := w.Snapshot.clone()
		out.Snapshot = &snap
	}
	return out
}

// Watchlist is the ordered set of accounts under observation. Order is
// insertion order and doubles as display order; addresses are unique.
type Watchlist []WatchedAccount

// Clone returns a deep copy of the watchlist. Consumers receive copies so a
// published list can never be mutated behind the store's back.
func (w Watchlist) Clone() Watchlist {
	if w == nil {
		return nil
	}
	out := make(Watchlist, len(w))
	for i, acc := range w {
		out[i] = acc.clone()
	}
	return out
}

// contains reports whether an entry with the given address exists.
func (w Watchlist) contains(address string) bool {
	for _, acc := range w {
		if acc.Address == address {
			return true
		}
	}
	return false
}

// IsValidAddress reports whether address looks like a canonical Algorand
// address: exactly 58 characters drawn from the RFC 4648 Base32 alphabet
// (A-Z and 2-7, uppercase, no padding). Pure, performs no I/O and no
// checksum verification.
func IsValidAddress(address string) bool {
	if len(address) != addressLength {
		return false
	}
	for _, c := range []byte(address) {
		isUpper := c >= 'A' && c <= 'Z'
		isDigit := c >= '2' && c <= '7'
		if !isUpper && !isDigit {
			return false
		}
	}
	return true
}
