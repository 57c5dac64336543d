package refresher

import (
	"context"

	"github.com/gabapcia/algowatch/internal/watchlist"
)

// Notifier receives one event per detected balance or asset-balance change.
// Events of a single cycle are delivered in watchlist order; within one
// account, in the order produced by the differ.
type Notifier interface {
	Notify(ctx context.Context, n watchlist.Notification) error
}

// nopNotifier is the default sink when none is configured.
type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, watchlist.Notification) error { return nil }
