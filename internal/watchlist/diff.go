package watchlist

import "fmt"

// Changes is the result of comparing two snapshots of the same account.
// Messages are human-readable change descriptions, ordered: the base balance
// message first (when present), then one message per changed asset in the
// order the assets appear in the current snapshot's holdings.
type Changes struct {
	Changed  bool
	Messages []string
}

// Diff compares the previous snapshot of an account against a freshly
// fetched one and describes what changed.
//
// A nil previous snapshot means this is the account's first successful fetch;
// establishing a baseline is not a change, so the result is empty. Assets
// that appear in only one of the two snapshots are deliberately not
// reported: only amount deltas on assets present in both sides produce a
// message. Opt-ins and opt-outs are therefore invisible to subscribers.
func Diff(previous *AccountSnapshot, current AccountSnapshot) Changes {
	if previous == nil {
		return Changes{}
	}

	var messages []string

	if previous.Amount != current.Amount {
		messages = append(messages, fmt.Sprintf("Balance changed from %s to %s ALGO",
			FormatBaseAmount(previous.Amount),
			FormatBaseAmount(current.Amount),
		))
	}

	previousByID := make(map[uint64]AssetHolding, len(previous.Holdings))
	for _, holding := range previous.Holdings {
		previousByID[holding.ID] = holding
	}

	for _, holding := range current.Holdings {
		prev, ok := previousByID[holding.ID]
		if !ok || prev.Amount == holding.Amount {
			continue
		}

		name := holding.Name
		if name == "" {
			name = fmt.Sprintf("Asset %d", holding.ID)
		}

		messages = append(messages, fmt.Sprintf("%s balance changed from %s to %s",
			name,
			FormatAssetAmount(prev.Amount, holding.Decimals),
			FormatAssetAmount(holding.Amount, holding.Decimals),
		))
	}

	return Changes{
		Changed:  len(messages) > 0,
		Messages: messages,
	}
}
