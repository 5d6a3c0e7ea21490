package booking_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glab/space-reservation/internal/booking"
	"github.com/glab/space-reservation/internal/repository"
)

// testClock is a settable clock injected into the service so tests can
// cross midnight on demand.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (tc *testClock) Now() time.Time {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.now
}

func (tc *testClock) Set(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.now = t
}

func newTestService(t *testing.T) (*booking.Service, *testClock) {
	t.Helper()
	store, err := repository.NewFileReservationStore(filepath.Join(t.TempDir(), "reservations.json"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	clock := &testClock{now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	svc := booking.NewService(store, nil, booking.NewPolicy(4)).WithClock(clock.Now)
	return svc, clock
}

func key(t *testing.T, space, slot string) booking.Key {
	t.Helper()
	sp, err := booking.ParseSpace(space, booking.DefaultSpaces)
	if err != nil {
		t.Fatalf("space %q: %v", space, err)
	}
	sl, err := booking.ParseSlot(slot)
	if err != nil {
		t.Fatalf("slot %q: %v", slot, err)
	}
	return booking.Key{Space: sp, Slot: sl}
}

// TestTwoSpaceScenario walks the reference sequence: alice and bob
// competing over GRAY and BLUE at 09:00 and 10:00.
func TestTwoSpaceScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gray9 := key(t, "GRAY", "09:00-10:00")
	blue9 := key(t, "BLUE", "09:00-10:00")
	blue10 := key(t, "BLUE", "10:00-11:00")

	if err := svc.Reserve(ctx, "alice", gray9); err != nil {
		t.Fatalf("alice GRAY/09: %v", err)
	}
	if err := svc.Reserve(ctx, "bob", gray9); !errors.Is(err, booking.ErrSlotTaken) {
		t.Fatalf("bob GRAY/09: want ErrSlotTaken, got %v", err)
	}
	if err := svc.Reserve(ctx, "bob", blue9); err != nil {
		t.Fatalf("bob BLUE/09: %v", err)
	}
	if err := svc.Reserve(ctx, "alice", blue9); !errors.Is(err, booking.ErrSlotTaken) {
		t.Fatalf("alice BLUE/09: want ErrSlotTaken, got %v", err)
	}
	if err := svc.Reserve(ctx, "alice", blue10); err != nil {
		t.Fatalf("alice BLUE/10: %v", err)
	}

	mine, err := svc.Reservations(ctx, "alice")
	if err != nil {
		t.Fatalf("reservations: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("alice holds %d cells, want 2", len(mine))
	}

	if err := svc.Cancel(ctx, "alice", gray9); err != nil {
		t.Fatalf("alice cancel GRAY/09: %v", err)
	}
	if err := svc.Reserve(ctx, "bob", gray9); err != nil {
		t.Fatalf("bob GRAY/09 after free: %v", err)
	}
}

// TestCellRemainsOwnedAfterConflict verifies the losing reserve does not
// disturb the standing reservation.
func TestCellRemainsOwnedAfterConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	k := key(t, "GOLD", "13:00-14:00")

	if err := svc.Reserve(ctx, "alice", k); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := svc.Reserve(ctx, "bob", k); !errors.Is(err, booking.ErrSlotTaken) {
		t.Fatalf("want ErrSlotTaken, got %v", err)
	}

	g, err := svc.Grid(ctx)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	owner, ok := g.Owner(k)
	if !ok || owner != "alice" {
		t.Fatalf("cell owner = %q (present=%v), want alice", owner, ok)
	}
}

func TestSelfRebookRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	k := key(t, "SILVER", "11:00-12:00")

	if err := svc.Reserve(ctx, "alice", k); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := svc.Reserve(ctx, "alice", k); !errors.Is(err, booking.ErrSlotTaken) {
		t.Fatalf("self rebook: want ErrSlotTaken, got %v", err)
	}
}

// TestDailyQuota reserves across different spaces; the 4th succeeds and
// the 5th fails regardless of space.
func TestDailyQuota(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cells := []booking.Key{
		key(t, "GRAY", "09:00-10:00"),
		key(t, "BLUE", "10:00-11:00"),
		key(t, "SILVER", "11:00-12:00"),
		key(t, "GOLD", "12:00-13:00"),
	}
	for i, k := range cells {
		if err := svc.Reserve(ctx, "alice", k); err != nil {
			t.Fatalf("reserve %d: %v", i+1, err)
		}
	}
	fifth := key(t, "GLAB1", "13:00-14:00")
	if err := svc.Reserve(ctx, "alice", fifth); !errors.Is(err, booking.ErrQuotaExceeded) {
		t.Fatalf("5th reserve: want ErrQuotaExceeded, got %v", err)
	}
	// Cancelling frees quota again.
	if err := svc.Cancel(ctx, "alice", cells[0]); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Reserve(ctx, "alice", fifth); err != nil {
		t.Fatalf("reserve after cancel: %v", err)
	}
}

func TestCancelErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	k := key(t, "GLAB2", "15:00-16:00")

	if err := svc.Cancel(ctx, "alice", k); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("cancel empty cell: want ErrNotFound, got %v", err)
	}
	if err := svc.Reserve(ctx, "alice", k); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := svc.Cancel(ctx, "bob", k); !errors.Is(err, booking.ErrNotOwner) {
		t.Fatalf("cancel foreign cell: want ErrNotOwner, got %v", err)
	}
	// The failed cancel must leave the reservation standing.
	mine, err := svc.Reservations(ctx, "alice")
	if err != nil || len(mine) != 1 {
		t.Fatalf("alice holds %d cells (err=%v), want 1", len(mine), err)
	}
}

func TestValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := booking.Key{Space: "ATTIC", Slot: booking.Slot{Start: 10}}
	if err := svc.Reserve(ctx, "alice", bad); !errors.Is(err, booking.ErrUnknownSpace) {
		t.Fatalf("unknown space: want ErrUnknownSpace, got %v", err)
	}
	bad = booking.Key{Space: "GRAY", Slot: booking.Slot{Start: 22}}
	if err := svc.Reserve(ctx, "alice", bad); !errors.Is(err, booking.ErrInvalidSlot) {
		t.Fatalf("invalid slot: want ErrInvalidSlot, got %v", err)
	}
}

// TestRollover crosses midnight between operations and checks the store
// empties exactly once per date.
func TestRollover(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	k1 := key(t, "GRAY", "09:00-10:00")
	k2 := key(t, "BLUE", "10:00-11:00")
	if err := svc.Reserve(ctx, "alice", k1); err != nil {
		t.Fatalf("reserve day D: %v", err)
	}
	if err := svc.Reserve(ctx, "alice", k2); err != nil {
		t.Fatalf("reserve day D: %v", err)
	}

	clock.Set(clock.Now().Add(24 * time.Hour))

	mine, err := svc.Reservations(ctx, "alice")
	if err != nil {
		t.Fatalf("reservations day D+1: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("day D+1 still shows %d reservations", len(mine))
	}

	// Reservations made after the rollover survive further same-day calls.
	if err := svc.Reserve(ctx, "alice", k1); err != nil {
		t.Fatalf("reserve day D+1: %v", err)
	}
	clock.Set(clock.Now().Add(2 * time.Hour))
	mine, err = svc.Reservations(ctx, "alice")
	if err != nil || len(mine) != 1 {
		t.Fatalf("same-day recheck lost reservations: %d (err=%v)", len(mine), err)
	}
}

// TestConcurrentReserveSingleWinner hammers one cell from many
// goroutines; exactly one reserve must succeed and every other must see
// ErrSlotTaken.
func TestConcurrentReserveSingleWinner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	k := key(t, "GRAY", "14:00-15:00")

	const clients = 40
	var (
		wins  int64
		taken int64
		other int64
	)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < clients; i++ {
		wg.Add(1)
		user := "user" + string(rune('A'+i%26))
		go func(user string) {
			defer wg.Done()
			<-start
			switch err := svc.Reserve(ctx, user, k); {
			case err == nil:
				atomic.AddInt64(&wins, 1)
			case errors.Is(err, booking.ErrSlotTaken):
				atomic.AddInt64(&taken, 1)
			default:
				atomic.AddInt64(&other, 1)
			}
		}(user)
	}
	close(start)
	wg.Wait()

	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	if taken != clients-1 {
		t.Fatalf("ErrSlotTaken count = %d, want %d", taken, clients-1)
	}
	if other != 0 {
		t.Fatalf("unexpected errors: %d", other)
	}
}
