package refresher

import (
	"context"
	"sync"
	"time"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/pkg/x/chflow"
	"github.com/gabapcia/algowatch/internal/watchlist"
)

// runCycle executes one complete refresh pass. Every account is fetched
// concurrently and independently; the cycle waits for the slowest fetch,
// then commits the whole reconciled list in one write and publishes it.
// There is no partial commit: a cycle either replaces the entire list or,
// when the initial load fails, changes nothing.
func (s *service) runCycle(ctx context.Context, out chan<- watchlist.Watchlist) {
	s.cycleInFlight.Store(true)
	defer s.cycleInFlight.Store(false)

	state := newCycleState()

	current, err := s.store.Load(ctx)
	if err != nil {
		logger.Error(ctx, "refresh cycle aborted: watchlist load failed",
			"cycle.id", state.cycleID,
			"error", err,
		)
		return
	}

	if len(current) == 0 {
		logger.Debug(ctx, "refresh cycle skipped: watchlist is empty", "cycle.id", state.cycleID)
		return
	}

	// Indexed result slices keep insertion order intact no matter which
	// fetch finishes first.
	var (
		results = make(watchlist.Watchlist, len(current))
		changes = make([]watchlist.Changes, len(current))
		wg      sync.WaitGroup
	)

	for i, account := range current {
		wg.Add(1)
		go func(i int, account watchlist.WatchedAccount) {
			defer wg.Done()
			results[i], changes[i] = s.refreshAccount(ctx, account)
		}(i, account)
	}
	wg.Wait()

	// Notifications go out in watchlist order, only after every account has
	// settled, so subscribers observe a deterministic sequence per cycle.
	for i, account := range results {
		state.recordOutcome(account.LastError == "")
		for _, msg := range changes[i].Messages {
			state.recordChange()
			s.notify(ctx, watchlist.Notification{
				Kind:    watchlist.NotificationInfo,
				Title:   watchlist.ShortAddress(account.Address),
				Message: msg,
			})
		}
	}

	commit := func() error {
		return s.store.ReplaceAll(ctx, results)
	}
	if s.commitRetry != nil {
		err = s.commitRetry.Execute(ctx, commit)
	} else {
		err = commit()
	}
	if err != nil {
		state.finalize(err)
		logger.Error(ctx, "refresh cycle commit failed", state.logFields()...)
		return
	}

	chflow.Send(ctx, out, results.Clone())

	state.finalize(nil)
	logger.Info(ctx, "refresh cycle completed", state.logFields()...)
}

// refreshAccount fetches one account and builds its replacement entry. A
// failed fetch keeps the previous snapshot (stale data beats no data) and
// records the failure on the entry; it produces no change messages.
func (s *service) refreshAccount(ctx context.Context, account watchlist.WatchedAccount) (watchlist.WatchedAccount, watchlist.Changes) {
	now := time.Now().UTC()

	snapshot, err := s.chainReader.FetchAccount(ctx, account.Address)
	if err != nil {
		logger.Warn(ctx, "account refresh failed, keeping previous snapshot",
			"account.address", account.Address,
			"error", err,
		)
		return watchlist.WatchedAccount{
			Address:     account.Address,
			Snapshot:    account.Snapshot,
			LastUpdated: now,
			LastError:   err.Error(),
		}, watchlist.Changes{}
	}

	diff := watchlist.Diff(account.Snapshot, snapshot)
	return watchlist.WatchedAccount{
		Address:     account.Address,
		Snapshot:    &snapshot,
		LastUpdated: now,
	}, diff
}

// notify forwards a change event to the sink; delivery failures are logged
// and never fail the cycle.
func (s *service) notify(ctx context.Context, n watchlist.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		logger.Warn(ctx, "change notification delivery failed",
			"notification.title", n.Title,
			"error", err,
		)
	}
}
