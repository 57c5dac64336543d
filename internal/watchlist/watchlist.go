package watchlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/pkg/validator"
)

var (
	// ErrInvalidAddress means the supplied string is not a well-formed
	// Algorand address.
	ErrInvalidAddress = errors.New("invalid account address")

	// ErrAlreadyWatched means the address is already on the watchlist.
	ErrAlreadyWatched = errors.New("account is already being watched")

	// ErrInitialFetchFailed means the snapshot fetch that gates Add did not
	// succeed; the watchlist was left untouched.
	ErrInitialFetchFailed = errors.New("initial account fetch failed")
)

// addressInput carries the address through declarative validation.
type addressInput struct {
	Address string `validate:"required"`
}

// validateAddress enforces presence and the canonical address format.
func validateAddress(address string) error {
	if err := validator.Validate(addressInput{Address: address}); err != nil {
		return errors.Join(ErrInvalidAddress, err)
	}

	if !IsValidAddress(address) {
		return fmt.Errorf("%w: %q must be 58 characters of A-Z and 2-7", ErrInvalidAddress, address)
	}

	return nil
}

// notify forwards an event to the configured sink. Sink failures are logged
// and swallowed so they can never fail the operation that raised the event.
func (s *service) notify(ctx context.Context, n Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		logger.Warn(ctx, "notification delivery failed",
			"notification.kind", n.Kind,
			"notification.title", n.Title,
			"error", err,
		)
	}
}

// loadLocked reads and decodes the persisted watchlist. Callers must hold
// s.mu. A missing blob yields an empty list; a malformed one is discarded.
func (s *service) loadLocked(ctx context.Context) (Watchlist, error) {
	blob, err := s.blobStorage.ReadWatchlist(ctx)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return Watchlist{}, nil
		}
		return nil, fmt.Errorf("reading watchlist blob: %w", err)
	}

	return decodeWatchlist(ctx, blob), nil
}

// persistLocked encodes and writes the watchlist. Callers must hold s.mu.
func (s *service) persistLocked(ctx context.Context, w Watchlist) error {
	blob, err := encodeWatchlist(w)
	if err != nil {
		return fmt.Errorf("encoding watchlist: %w", err)
	}

	if err := s.blobStorage.WriteWatchlist(ctx, blob); err != nil {
		return fmt.Errorf("writing watchlist blob: %w", err)
	}

	return nil
}

// Load returns a copy of the persisted watchlist.
func (s *service) Load(ctx context.Context) (Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	return w.Clone(), nil
}

// Add appends a new watched account after validating the address and
// fetching its initial snapshot. Nothing is persisted when any step fails,
// so the watchlist never contains entries that have no snapshot at all.
func (s *service) Add(ctx context.Context, address string) (Watchlist, error) {
	if err := validateAddress(address); err != nil {
		s.notify(ctx, Notification{
			Kind:    NotificationError,
			Title:   "Could not add account",
			Message: "The address is not a valid Algorand address",
		})
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	if current.contains(address) {
		s.notify(ctx, Notification{
			Kind:    NotificationError,
			Title:   "Could not add account",
			Message: fmt.Sprintf("%s is already being watched", ShortAddress(address)),
		})
		return nil, fmt.Errorf("%w: %s", ErrAlreadyWatched, address)
	}

	snapshot, err := s.chainReader.FetchAccount(ctx, address)
	if err != nil {
		s.notify(ctx, Notification{
			Kind:    NotificationError,
			Title:   "Could not add account",
			Message: fmt.Sprintf("Failed to fetch %s", ShortAddress(address)),
		})
		return nil, fmt.Errorf("%w: %w", ErrInitialFetchFailed, err)
	}

	updated := append(current, WatchedAccount{
		Address:     address,
		Snapshot:    &snapshot,
		LastUpdated: time.Now().UTC(),
	})

	if err := s.persistLocked(ctx, updated); err != nil {
		return nil, err
	}

	s.notify(ctx, Notification{
		Kind:    NotificationSuccess,
		Title:   "Account added",
		Message: fmt.Sprintf("%s added to the watchlist", ShortAddress(address)),
	})

	return updated.Clone(), nil
}

// Remove deletes the entry for the given address, if any, and persists the
// remaining list. It mirrors the original behavior of always rewriting the
// blob, so a remove also repairs a previously malformed blob.
func (s *service) Remove(ctx context.Context, address string) (Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	updated := make(Watchlist, 0, len(current))
	removed := false
	for _, acc := range current {
		if acc.Address == address {
			removed = true
			continue
		}
		updated = append(updated, acc)
	}

	if err := s.persistLocked(ctx, updated); err != nil {
		return nil, err
	}

	if removed {
		s.notify(ctx, Notification{
			Kind:    NotificationSuccess,
			Title:   "Account removed",
			Message: fmt.Sprintf("%s removed from the watchlist", ShortAddress(address)),
		})
	}

	return updated.Clone(), nil
}

// ReplaceAll swaps the persisted watchlist for a fully reconciled one.
func (s *service) ReplaceAll(ctx context.Context, w Watchlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked(ctx, w)
}

// ShortAddress abbreviates a 58-character address for display in
// notification and log text, e.g. "UOAN7V...A5MY".
func ShortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
