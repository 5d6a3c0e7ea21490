package booking

import (
	"context"
	"sync"
	"time"
)

// Service is the only entry point the HTTP layer uses. It runs the daily
// rollover check ahead of every operation and serializes mutations so
// the quota check and the store write observe one consistent snapshot:
// two concurrent reserves for the same cell yield exactly one success.
type Service struct {
	mu       sync.Mutex
	store    Store
	spaces   []Space
	policy   Policy
	rollover *Rollover
	now      func() time.Time
}

// NewService wires a service over the given store. spaces defaults to
// DefaultSpaces and the clock to time.Now; tests inject a fixed clock
// through WithClock.
func NewService(store Store, spaces []Space, policy Policy) *Service {
	if len(spaces) == 0 {
		spaces = DefaultSpaces
	}
	return &Service{
		store:    store,
		spaces:   spaces,
		policy:   policy,
		rollover: NewRollover(),
		now:      time.Now,
	}
}

// WithClock replaces the service clock and returns the service.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Spaces returns the configured space set in display order.
func (s *Service) Spaces() []Space { return s.spaces }

// Reserve books the cell for user. It fails with ErrUnknownSpace or
// ErrInvalidSlot for keys outside the grid, ErrQuotaExceeded when the
// user already holds the daily cap, ErrSlotTaken when the cell is
// occupied, and ErrPersistence when the durable write fails.
func (s *Service) Reserve(ctx context.Context, user string, key Key) error {
	if err := s.validate(key); err != nil {
		return err
	}
	if _, err := s.rollover.MaybeReset(ctx, s.store, s.now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	held, err := s.store.ListByUser(ctx, user)
	if err != nil {
		return err
	}
	if !s.policy.CanReserve(len(held)) {
		return ErrQuotaExceeded
	}
	return s.store.Reserve(ctx, key, user)
}

// Cancel removes the user's reservation of the cell, surfacing
// ErrNotFound, ErrNotOwner and ErrPersistence from the store unchanged.
func (s *Service) Cancel(ctx context.Context, user string, key Key) error {
	if err := s.validate(key); err != nil {
		return err
	}
	if _, err := s.rollover.MaybeReset(ctx, s.store, s.now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Cancel(ctx, key, user)
}

// Grid returns the current occupancy view after the rollover check, so
// a session spanning midnight never renders yesterday's cells.
func (s *Service) Grid(ctx context.Context) (*Grid, error) {
	if _, err := s.rollover.MaybeReset(ctx, s.store, s.now()); err != nil {
		return nil, err
	}
	return Snapshot(ctx, s.store, s.spaces)
}

// Reservations lists the user's current cells, ordered by space and slot.
func (s *Service) Reservations(ctx context.Context, user string) ([]Key, error) {
	if _, err := s.rollover.MaybeReset(ctx, s.store, s.now()); err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, user)
}

func (s *Service) validate(key Key) error {
	if _, err := ParseSpace(string(key.Space), s.spaces); err != nil {
		return err
	}
	if !key.Slot.Valid() {
		return ErrInvalidSlot
	}
	return nil
}
