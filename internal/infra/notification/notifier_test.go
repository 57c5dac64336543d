package notification

import (
	"context"
	"testing"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/watchlist"

	"github.com/stretchr/testify/assert"
)

func init() {
	_ = logger.Init(logger.WithLevel("error"))
}

func TestNotify(t *testing.T) {
	sink := New()
	ctx := context.Background()

	for _, kind := range []watchlist.NotificationKind{
		watchlist.NotificationSuccess,
		watchlist.NotificationError,
		watchlist.NotificationInfo,
	} {
		err := sink.Notify(ctx, watchlist.Notification{
			Kind:    kind,
			Title:   "AAAAAA...2345",
			Message: "Balance changed from 1.000000 to 2.000000 ALGO",
		})
		assert.NoError(t, err, "kind %s", kind)
	}
}
