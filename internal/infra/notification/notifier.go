// Package notification provides the default event sink: structured log
// lines. The domain only requires that events are emitted somewhere a
// subscriber can observe; a headless deployment observes them in the logs,
// and a UI integration would supply its own sink instead.
package notification

import (
	"context"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/refresher"
	"github.com/gabapcia/algowatch/internal/watchlist"
)

type notifier struct{}

// Compile-time assertions for both consumer-side contracts.
var (
	_ watchlist.Notifier = (*notifier)(nil)
	_ refresher.Notifier = (*notifier)(nil)
)

// New creates the log-backed notifier.
func New() *notifier {
	return &notifier{}
}

// Notify renders the event as a log line at a level matching its kind.
func (n *notifier) Notify(ctx context.Context, event watchlist.Notification) error {
	fields := []any{
		"notification.kind", event.Kind,
		"notification.title", event.Title,
	}

	switch event.Kind {
	case watchlist.NotificationError:
		logger.Error(ctx, event.Message, fields...)
	case watchlist.NotificationSuccess:
		logger.Info(ctx, event.Message, fields...)
	default:
		logger.Info(ctx, event.Message, fields...)
	}

	return nil
}
