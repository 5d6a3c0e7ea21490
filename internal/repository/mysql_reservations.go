package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/glab/space-reservation/internal/booking"
)

// MySQLReservationStore is the booking.Store backed by the reservations
// table. A UNIQUE KEY on (space, slot_start) makes the cell-uniqueness
// invariant a database constraint, so concurrent reserves for the same
// cell resolve to exactly one winner even across processes.
//
// Expected schema:
//
//	CREATE TABLE reservations (
//	    id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    space      VARCHAR(32)  NOT NULL,
//	    slot_start TINYINT UNSIGNED NOT NULL,
//	    username   VARCHAR(64)  NOT NULL,
//	    created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    UNIQUE KEY uq_cell (space, slot_start)
//	);
type MySQLReservationStore struct{ DB *sql.DB }

// NewMySQLReservationStore binds a store to the given database.
func NewMySQLReservationStore(db *sql.DB) *MySQLReservationStore {
	return &MySQLReservationStore{DB: db}
}

// Get returns the owner of the cell, if any.
func (s *MySQLReservationStore) Get(ctx context.Context, key booking.Key) (string, bool, error) {
	var owner string
	err := s.DB.QueryRowContext(ctx,
		"SELECT username FROM reservations WHERE space=? AND slot_start=? LIMIT 1",
		string(key.Space), key.Slot.Start).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	return owner, true, nil
}

// Reserve inserts the cell, relying on the unique key to reject an
// occupied cell with a duplicate-entry error.
func (s *MySQLReservationStore) Reserve(ctx context.Context, key booking.Key, user string) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO reservations (space, slot_start, username) VALUES (?,?,?)",
		string(key.Space), key.Slot.Start, user)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return booking.ErrSlotTaken
		}
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	return nil
}

// Cancel deletes the user's row inside a transaction, locking the row
// first so the ownership check and the delete are atomic.
func (s *MySQLReservationStore) Cancel(ctx context.Context, key booking.Key, user string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var owner string
	err = tx.QueryRowContext(ctx,
		"SELECT username FROM reservations WHERE space=? AND slot_start=? FOR UPDATE",
		string(key.Space), key.Slot.Start).Scan(&owner)
	if err == sql.ErrNoRows {
		return booking.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	if owner != user {
		return booking.ErrNotOwner
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM reservations WHERE space=? AND slot_start=?",
		string(key.Space), key.Slot.Start); err != nil {
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	committed = true
	return nil
}

// Clear removes every reservation; the daily rollover calls this once
// per date change.
func (s *MySQLReservationStore) Clear(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM reservations"); err != nil {
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	return nil
}

// ListByUser returns the user's cells ordered by space then slot start.
func (s *MySQLReservationStore) ListByUser(ctx context.Context, user string) ([]booking.Key, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT space, slot_start FROM reservations WHERE username=? ORDER BY space, slot_start",
		user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	defer rows.Close()

	var keys []booking.Key
	for rows.Next() {
		var space string
		var start int
		if err := rows.Scan(&space, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", booking.ErrPersistence, err)
		}
		keys = append(keys, booking.Key{Space: booking.Space(space), Slot: booking.Slot{Start: start}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	return keys, nil
}

// compile-time interface checks
var (
	_ booking.Store = (*MySQLReservationStore)(nil)
	_ booking.Store = (*FileReservationStore)(nil)
)
