// Package refresher runs the periodic account-state refresh cycle: load the
// watchlist, fetch every account concurrently, diff each result against the
// previous snapshot, emit change notifications, commit the reconciled list
// and publish it to subscribers. It owns no durable state of its own; the
// watchlist store remains the single source of truth.
package refresher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gabapcia/algowatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/algowatch/internal/watchlist"
)

// ErrServiceAlreadyStarted is returned when Start is called twice without an
// intervening Close.
var ErrServiceAlreadyStarted = errors.New("service already started")

const (
	// defaultRefreshInterval matches the original one-minute polling cadence.
	defaultRefreshInterval = 60 * time.Second

	// publishChannelBufferSize buffers published watchlists so a slow
	// subscriber does not stall the cycle that produced them.
	publishChannelBufferSize = 1
)

// Service is the refresh orchestrator lifecycle.
type Service interface {
	// Start launches the refresh loop. The returned channel carries a fresh
	// deep copy of the watchlist after every committed cycle and is closed
	// when the service stops. Returns ErrServiceAlreadyStarted on a second
	// Start.
	Start(ctx context.Context) (<-chan watchlist.Watchlist, error)

	// TriggerRefresh requests an immediate cycle, the programmatic
	// equivalent of pull-to-refresh. A trigger that arrives while a cycle is
	// already running is coalesced into a no-op; one never runs two cycles
	// concurrently.
	TriggerRefresh()

	// Close stops the refresh loop. Safe to call on a never-started service.
	Close()
}

// closeFunc tears down the background loop.
type closeFunc func()

// service implements Service.
type service struct {
	mu        sync.Mutex // protects lifecycle state
	isStarted bool
	closeFunc closeFunc

	store       Store
	chainReader AccountReader
	notifier    Notifier

	interval    time.Duration
	commitRetry retry.Retry // optional, wraps the commit write

	triggerCh     chan struct{}
	cycleInFlight atomic.Bool
}

var _ Service = (*service)(nil)

// Start launches the background refresh loop.
func (s *service) Start(ctx context.Context) (<-chan watchlist.Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return nil, ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	watchlistCh := make(chan watchlist.Watchlist, publishChannelBufferSize)
	triggerCh := make(chan struct{}, 1)

	go s.run(ctx, watchlistCh, triggerCh)

	s.triggerCh = triggerCh
	s.closeFunc = func() {
		cancel()
	}
	s.isStarted = true
	return watchlistCh, nil
}

// run is the refresh loop: one cycle per tick, plus on-demand cycles from
// the trigger channel. The publish channel is closed when the loop exits.
func (s *service) run(ctx context.Context, out chan<- watchlist.Watchlist, trigger <-chan struct{}) {
	defer close(out)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx, out)
		case <-trigger:
			s.runCycle(ctx, out)
		}
	}
}

// TriggerRefresh schedules an immediate cycle unless one is already running.
func (s *service) TriggerRefresh() {
	s.mu.Lock()
	triggerCh, started := s.triggerCh, s.isStarted
	s.mu.Unlock()

	if !started || triggerCh == nil {
		return
	}

	if s.cycleInFlight.Load() {
		return
	}

	select {
	case triggerCh <- struct{}{}:
	default:
	}
}

// Close stops the background loop and releases the trigger channel.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}

	s.closeFunc = nil
	s.triggerCh = nil
	s.isStarted = false
}

// config holds the options applied by New.
type config struct {
	interval    time.Duration
	notifier    Notifier
	commitRetry retry.Retry
}

// Option customizes the service created by New.
type Option func(*config)

// WithInterval overrides the refresh cadence. Default: 60s.
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithNotifier installs the sink that receives change notifications.
// Without it changes are detected and committed but not announced.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithCommitRetry wraps the commit write in the given retry policy, for
// storage backends with transient failure modes.
func WithCommitRetry(r retry.Retry) Option {
	return func(c *config) {
		c.commitRetry = r
	}
}

// New creates the refresh orchestrator.
func New(store Store, cr AccountReader, opts ...Option) *service {
	cfg := config{
		interval: defaultRefreshInterval,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		store:       store,
		chainReader: cr,
		notifier:    cfg.notifier,
		interval:    cfg.interval,
		commitRetry: cfg.commitRetry,
	}
}
