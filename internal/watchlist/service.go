// Package watchlist owns the durable, ordered list of watched Algorand
// accounts and everything needed to reason about their state: snapshot and
// holding types, address validation, balance formatting, snapshot diffing,
// and the store that serializes every mutation of the persisted list.
package watchlist

import (
	"context"
	"sync"
)

// Service is the watchlist store. It is the single "watchlist mutator": all
// operations that read-modify-write the durable blob (Add, Remove and the
// refresh cycle's ReplaceAll commit) serialize on one internal mutex, so no
// two of them can interleave their read and write.
type Service interface {
	// Load returns the persisted watchlist. An absent or unparsable blob
	// yields an empty watchlist, not an error; only storage I/O failures
	// propagate.
	Load(ctx context.Context) (Watchlist, error)

	// Add validates the address, fetches its initial snapshot and appends a
	// new entry. It is all-or-nothing: when the initial fetch fails nothing
	// is persisted and no entry is created. Returns ErrInvalidAddress,
	// ErrAlreadyWatched or an error wrapping ErrInitialFetchFailed.
	Add(ctx context.Context, address string) (Watchlist, error)

	// Remove deletes the entry for the address if present and persists the
	// result. Removing an address that is not watched is a no-op, not an
	// error.
	Remove(ctx context.Context, address string) (Watchlist, error)

	// ReplaceAll atomically swaps in a fully reconciled watchlist. Used by
	// the refresh orchestrator's commit step.
	ReplaceAll(ctx context.Context, w Watchlist) error
}

// service implements Service on top of a BlobStorage, using a ChainReader
// for the initial fetch performed by Add and a Notifier for user-facing
// events.
type service struct {
	mu sync.Mutex // serializes every read-modify-write of the blob

	blobStorage BlobStorage
	chainReader ChainReader
	notifier    Notifier
}

var _ Service = (*service)(nil)

// config holds the optional collaborators applied by Options.
type config struct {
	notifier Notifier
}

// Option customizes the service created by New.
type Option func(*config)

// WithNotifier installs the sink that receives add/remove events. Without it
// events are silently discarded.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// New creates the watchlist store service.
func New(bs BlobStorage, cr ChainReader, opts ...Option) *service {
	cfg := config{
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		blobStorage: bs,
		chainReader: cr,
		notifier:    cfg.notifier,
	}
}
