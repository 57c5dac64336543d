package refresher

import (
	"time"

	"github.com/google/uuid"
)

// cycleState tracks the bookkeeping of a single refresh cycle: identity,
// timing, per-account outcomes and the number of detected changes. It feeds
// the summary log line emitted when the cycle settles.
type cycleState struct {
	cycleID    string     // unique identifier for this cycle (UUIDv7)
	startedAt  time.Time  // when the cycle began
	finishedAt *time.Time // when the cycle settled (nil while running)
	refreshed  int        // accounts whose fetch succeeded
	failed     int        // accounts whose fetch failed
	changes    int        // change messages emitted
	err        error      // terminal error, when the commit failed
}

// newCycleState starts tracking a fresh cycle.
func newCycleState() cycleState {
	return cycleState{
		cycleID:   uuid.Must(uuid.NewV7()).String(),
		startedAt: time.Now().UTC(),
	}
}

// recordOutcome tallies one account's refresh result.
func (s *cycleState) recordOutcome(ok bool) {
	if ok {
		s.refreshed++
	} else {
		s.failed++
	}
}

// recordChange tallies one emitted change notification.
func (s *cycleState) recordChange() {
	s.changes++
}

// finalize stamps the completion time and terminal error, once.
func (s *cycleState) finalize(err error) {
	if s.finishedAt != nil {
		return
	}

	now := time.Now().UTC()
	s.finishedAt = &now
	s.err = err
}

// logFields renders the state as structured log key/value pairs.
func (s cycleState) logFields() []any {
	fields := []any{
		"cycle.id", s.cycleID,
		"cycle.accounts.refreshed", s.refreshed,
		"cycle.accounts.failed", s.failed,
		"cycle.changes", s.changes,
	}
	if s.finishedAt != nil {
		fields = append(fields, "cycle.duration", s.finishedAt.Sub(s.startedAt).String())
	}
	if s.err != nil {
		fields = append(fields, "error", s.err)
	}
	return fields
}
