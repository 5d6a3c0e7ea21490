package booking

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Rollover clears the store when the calendar date advances. The system
// has no background scheduler, so this is a polling check the service
// runs at the start of every operation path.
type Rollover struct {
	mu        sync.Mutex
	lastReset time.Time // zero means never; compared at day granularity
}

// NewRollover returns a rollover tracker with no reset recorded, so the
// first operation of the process always clears stale state.
func NewRollover() *Rollover { return &Rollover{} }

// MaybeReset clears the store when the last reset happened before the
// current date (or never). It reports whether a reset occurred. Repeated
// calls on the same date are no-ops.
func (r *Rollover) MaybeReset(ctx context.Context, store Store, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := dayOf(now)
	if !r.lastReset.IsZero() && !r.lastReset.Before(today) {
		return false, nil
	}
	if err := store.Clear(ctx); err != nil {
		return false, fmt.Errorf("daily rollover: %w", err)
	}
	r.lastReset = today
	return true, nil
}

// LastReset returns the date of the last successful clear; zero when no
// reset has happened yet.
func (r *Rollover) LastReset() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReset
}

// dayOf truncates a timestamp to its calendar date, keeping the original
// location so midnight is the user's local midnight.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
