package refresher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/algowatch/internal/watchlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init(logger.WithLevel("error"))
}

// storeStub is an in-memory Store that records every committed watchlist.
type storeStub struct {
	mu       sync.Mutex
	list     watchlist.Watchlist
	loadErr  error
	writeErr []error // consumed one per ReplaceAll call
	replaced []watchlist.Watchlist
}

func (s *storeStub) Load(ctx context.Context) (watchlist.Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.list.Clone(), nil
}

func (s *storeStub) ReplaceAll(ctx context.Context, w watchlist.Watchlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.writeErr) > 0 {
		err := s.writeErr[0]
		s.writeErr = s.writeErr[1:]
		if err != nil {
			return err
		}
	}

	s.list = w.Clone()
	s.replaced = append(s.replaced, w.Clone())
	return nil
}

func (s *storeStub) commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replaced)
}

// readerStub resolves fetches through a configurable function, optionally
// delaying per address to exercise ordering guarantees.
type readerStub struct {
	delays map[string]time.Duration
	fetch  func(ctx context.Context, address string) (watchlist.AccountSnapshot, error)
}

func (s *readerStub) FetchAccount(ctx context.Context, address string) (watchlist.AccountSnapshot, error) {
	if d, ok := s.delays[address]; ok {
		time.Sleep(d)
	}
	return s.fetch(ctx, address)
}

// notifierStub records delivered notifications in order.
type notifierStub struct {
	mu     sync.Mutex
	events []watchlist.Notification
}

func (s *notifierStub) Notify(ctx context.Context, n watchlist.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, n)
	return nil
}

func (s *notifierStub) all() []watchlist.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]watchlist.Notification, len(s.events))
	copy(out, s.events)
	return out
}

// triggerAndWait starts the service with a long interval, fires one manual
// cycle and returns the published watchlist.
func triggerAndWait(t *testing.T, svc *service) watchlist.Watchlist {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ch, err := svc.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	svc.TriggerRefresh()

	select {
	case list, ok := <-ch:
		require.True(t, ok, "publish channel closed before a cycle completed")
		return list
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a published watchlist")
		return nil
	}
}

func TestNew(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		svc := New(&storeStub{}, &readerStub{})

		require.NotNil(t, svc)
		assert.Equal(t, defaultRefreshInterval, svc.interval)
		assert.NotNil(t, svc.notifier)
		assert.Nil(t, svc.commitRetry)
	})

	t.Run("applies options", func(t *testing.T) {
		sink := &notifierStub{}

		svc := New(&storeStub{}, &readerStub{},
			WithInterval(time.Minute),
			WithNotifier(sink),
		)

		assert.Equal(t, time.Minute, svc.interval)
		assert.Equal(t, sink, svc.notifier)
	})
}

func TestServiceLifecycle(t *testing.T) {
	t.Run("second start fails until closed", func(t *testing.T) {
		svc := New(&storeStub{}, &readerStub{}, WithInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err := svc.Start(ctx)
		require.NoError(t, err)

		_, err = svc.Start(ctx)
		assert.ErrorIs(t, err, ErrServiceAlreadyStarted)

		svc.Close()

		_, err = svc.Start(ctx)
		assert.NoError(t, err)
		svc.Close()
	})

	t.Run("close before start is safe", func(t *testing.T) {
		svc := New(&storeStub{}, &readerStub{})
		assert.NotPanics(t, svc.Close)
	})

	t.Run("trigger before start is a no-op", func(t *testing.T) {
		svc := New(&storeStub{}, &readerStub{})
		assert.NotPanics(t, svc.TriggerRefresh)
	})
}

func TestRefreshCycle(t *testing.T) {
	addrA := "A-ACCOUNT"
	addrB := "B-ACCOUNT"
	addrC := "C-ACCOUNT"

	t.Run("successful refresh replaces snapshots and clears errors", func(t *testing.T) {
		store := &storeStub{list: watchlist.Watchlist{
			{Address: addrA, Snapshot: &watchlist.AccountSnapshot{Amount: 1}, LastError: "stale failure"},
		}}
		reader := &readerStub{fetch: func(_ context.Context, address string) (watchlist.AccountSnapshot, error) {
			return watchlist.AccountSnapshot{Address: address, Amount: 2}, nil
		}}
		svc := New(store, reader, WithInterval(time.Hour))

		published := triggerAndWait(t, svc)

		require.Len(t, published, 1)
		require.NotNil(t, published[0].Snapshot)
		assert.Equal(t, uint64(2), published[0].Snapshot.Amount)
		assert.Empty(t, published[0].LastError)
		assert.Equal(t, 1, store.commits())
	})

	t.Run("failed fetch keeps the stale snapshot and records the error", func(t *testing.T) {
		prior := &watchlist.AccountSnapshot{Address: addrA, Amount: 123}
		store := &storeStub{list: watchlist.Watchlist{
			{Address: addrA, Snapshot: prior, LastUpdated: time.Now().Add(-time.Hour)},
		}}
		reader := &readerStub{fetch: func(_ context.Context, _ string) (watchlist.AccountSnapshot, error) {
			return watchlist.AccountSnapshot{}, assert.AnError
		}}
		svc := New(store, reader, WithInterval(time.Hour))

		before := time.Now().UTC()
		published := triggerAndWait(t, svc)

		require.Len(t, published, 1)
		require.NotNil(t, published[0].Snapshot)
		assert.Equal(t, uint64(123), published[0].Snapshot.Amount)
		assert.NotEmpty(t, published[0].LastError)
		assert.False(t, published[0].LastUpdated.Before(before))
	})

	t.Run("one account's failure does not block the others", func(t *testing.T) {
		store := &storeStub{list: watchlist.Watchlist{
			{Address: addrA, Snapshot: &watchlist.AccountSnapshot{Amount: 1}},
			{Address: addrB, Snapshot: &watchlist.AccountSnapshot{Amount: 1}},
		}}
		reader := &readerStub{fetch: func(_ context.Context, address string) (watchlist.AccountSnapshot, error) {
			if address == addrA {
				return watchlist.AccountSnapshot{}, assert.AnError
			}
			return watchlist.AccountSnapshot{Address: address, Amount: 9}, nil
		}}
		svc := New(store, reader, WithInterval(time.Hour))

		published := triggerAndWait(t, svc)

		require.Len(t, published, 2)
		assert.NotEmpty(t, published[0].LastError)
		assert.Empty(t, published[1].LastError)
		assert.Equal(t, uint64(9), published[1].Snapshot.Amount)
	})

	t.Run("commit preserves insertion order regardless of fetch latency", func(t *testing.T) {
		store := &storeStub{list: watchlist.Watchlist{
			{Address: addrB, Snapshot: &watchlist.AccountSnapshot{}},
			{Address: addrA, Snapshot: &watchlist.AccountSnapshot{}},
			{Address: addrC, Snapshot: &watchlist.AccountSnapshot{}},
		}}
		reader := &readerStub{
			delays: map[string]time.Duration{
				addrB: 80 * time.Millisecond,
				addrA: 40 * time.Millisecond,
			},
			fetch: func(_ context.Context, address string) (watchlist.AccountSnapshot, error) {
				return watchlist.AccountSnapshot{Address: address}, nil
			},
		}
		svc := New(store, reader, WithInterval(time.Hour))

		published := triggerAndWait(t, svc)

		require.Len(t, published, 3)
		assert.Equal(t, addrB, published[0].Address)
		assert.Equal(t, addrA, published[1].Address)
		assert.Equal(t, addrC, published[2].Address)
	})

	t.Run("change notifications are emitted in watchlist order", func(t *testing.T) {
		store := &storeStub{list: watchlist.Watchlist{
			{Address: addrA, Snapshot: &watchlist.AccountSnapshot{Amount: 1_000_000}},
			{Address: addrB, Snapshot: &watchlist.AccountSnapshot{Amount: 1_000_000}},
		}}
		reader := &readerStub{
			// The first account resolves last; ordering must not care.
			delays: map[string]time.Duration{addrA: 60 * time.Millisecond},
			fetch: func(_ context.Context, address string) (watchlist.AccountSnapshot, error) {
				return watchlist.AccountSnapshot{Address: address, Amount: 2_000_000}, nil
			},
		}
		sink := &notifierStub{}
		svc := New(store, reader, WithInterval(time.Hour), WithNotifier(sink))

		triggerAndWait(t, svc)

		events := sink.all()
		require.Len(t, events, 2)
		assert.Equal(t, watchlist.NotificationInfo, events[0].Kind)
		assert.Equal(t, watchlist.ShortAddress(addrA), events[0].Title)
		assert.Equal(t, watchlist.ShortAddress(addrB), events[1].Title)
	})

	t.Run("triggers during a running cycle are coalesced", func(t *testing.T) {
		var (
			fetches atomic.Int32
			started = make(chan struct{})
			release = make(chan struct{})
		)
		store := &storeStub{list: watchlist.Watchlist{
			{Address: addrA, Snapshot: &watchlist.AccountSnapshot{}},
		}}
		reader := &readerStub{fetch: func(_ context.Context, address string) (watchlist.AccountSnapshot, error) {
			if fetches.Add(1) == 1 {
				close(started)
				<-release
			}
			return watchlist.AccountSnapshot{Address: address}, nil
		}}
		svc := New(store, reader, WithInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch, err := svc.Start(ctx)
		require.NoError(t, err)
		defer svc.Close()

		svc.TriggerRefresh()
		<-started

		// These land while the first cycle is still fetching.
		svc.TriggerRefresh()
		svc.TriggerRefresh()
		close(release)

		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for the first cycle")
		}

		select {
		case <-ch:
			t.Fatal("a coalesced trigger still ran a second cycle")
		case <-time.After(200 * time.Millisecond):
		}
		assert.Equal(t, int32(1), fetches.Load())
	})

	t.Run("empty watchlist skips the cycle entirely", func(t *testing.T) {
		store := &storeStub{}
		svc := New(store, &readerStub{}, WithInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch, err := svc.Start(ctx)
		require.NoError(t, err)
		defer svc.Close()

		svc.TriggerRefresh()

		select {
		case list := <-ch:
			t.Fatalf("unexpected publish: %v", list)
		case <-time.After(200 * time.Millisecond):
		}
		assert.Zero(t, store.commits())
	})

	t.Run("commit retry recovers from a transient write failure", func(t *testing.T) {
		store := &storeStub{
			list:     watchlist.Watchlist{{Address: addrA, Snapshot: &watchlist.AccountSnapshot{}}},
			writeErr: []error{assert.AnError, nil},
		}
		reader := &readerStub{fetch: func(_ context.Context, address string) (watchlist.AccountSnapshot, error) {
			return watchlist.AccountSnapshot{Address: address}, nil
		}}
		svc := New(store, reader,
			WithInterval(time.Hour),
			WithCommitRetry(retry.New(retry.WithAttempts(2), retry.WithDelay(time.Millisecond))),
		)

		published := triggerAndWait(t, svc)

		require.Len(t, published, 1)
		assert.Equal(t, 1, store.commits())
	})

	t.Run("load failure leaves the stored watchlist untouched", func(t *testing.T) {
		store := &storeStub{loadErr: assert.AnError}
		svc := New(store, &readerStub{}, WithInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err := svc.Start(ctx)
		require.NoError(t, err)
		defer svc.Close()

		svc.TriggerRefresh()
		time.Sleep(200 * time.Millisecond)

		assert.Zero(t, store.commits())
	})
}
