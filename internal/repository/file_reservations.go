package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/glab/space-reservation/internal/booking"
)

// FileReservationStore keeps reservations in a single JSON file shaped
// as {space: {"09:00-10:00": username}}, the layout the original data
// files used, so existing reservations.json files load unchanged. The
// whole file is rewritten after every mutation; a failed write rolls the
// in-memory change back before the error is returned.
type FileReservationStore struct {
	mu    sync.Mutex
	path  string
	cells map[string]map[string]string // space -> slot label -> username
}

// NewFileReservationStore loads the file at path, treating a missing
// file as an empty store.
func NewFileReservationStore(path string) (*FileReservationStore, error) {
	s := &FileReservationStore{path: path, cells: make(map[string]map[string]string)}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.cells); err != nil {
			return nil, fmt.Errorf("parse reservations: %w", err)
		}
	}
	return s, nil
}

// Get returns the owner of the cell, if any.
func (s *FileReservationStore) Get(_ context.Context, key booking.Key) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.cells[string(key.Space)][key.Slot.Label()]
	return owner, ok, nil
}

// Reserve records user as the owner of the cell and persists.
func (s *FileReservationStore) Reserve(_ context.Context, key booking.Key, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space, slot := string(key.Space), key.Slot.Label()
	if _, taken := s.cells[space][slot]; taken {
		return booking.ErrSlotTaken
	}
	if s.cells[space] == nil {
		s.cells[space] = make(map[string]string)
	}
	s.cells[space][slot] = user
	if err := s.persist(); err != nil {
		delete(s.cells[space], slot)
		if len(s.cells[space]) == 0 {
			delete(s.cells, space)
		}
		return err
	}
	return nil
}

// Cancel removes the user's reservation of the cell and persists.
func (s *FileReservationStore) Cancel(_ context.Context, key booking.Key, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space, slot := string(key.Space), key.Slot.Label()
	owner, ok := s.cells[space][slot]
	if !ok {
		return booking.ErrNotFound
	}
	if owner != user {
		return booking.ErrNotOwner
	}
	delete(s.cells[space], slot)
	if len(s.cells[space]) == 0 {
		delete(s.cells, space)
	}
	if err := s.persist(); err != nil {
		if s.cells[space] == nil {
			s.cells[space] = make(map[string]string)
		}
		s.cells[space][slot] = owner
		return err
	}
	return nil
}

// Clear drops every reservation and persists the empty mapping.
func (s *FileReservationStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cells
	s.cells = make(map[string]map[string]string)
	if err := s.persist(); err != nil {
		s.cells = prev
		return err
	}
	return nil
}

// ListByUser returns the user's cells ordered by space name and then by
// slot start. Slot labels are zero-padded, so lexicographic order is
// chronological.
func (s *FileReservationStore) ListByUser(_ context.Context, user string) ([]booking.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spaces := make([]string, 0, len(s.cells))
	for space := range s.cells {
		spaces = append(spaces, space)
	}
	sort.Strings(spaces)

	var keys []booking.Key
	for _, space := range spaces {
		labels := make([]string, 0, len(s.cells[space]))
		for label, owner := range s.cells[space] {
			if owner == user {
				labels = append(labels, label)
			}
		}
		sort.Strings(labels)
		for _, label := range labels {
			slot, err := booking.ParseSlot(label)
			if err != nil {
				return nil, fmt.Errorf("corrupt slot label %q: %w", label, err)
			}
			keys = append(keys, booking.Key{Space: booking.Space(space), Slot: slot})
		}
	}
	return keys, nil
}

// persist rewrites the backing file. Callers hold s.mu.
func (s *FileReservationStore) persist() error {
	b, err := json.Marshal(s.cells)
	if err != nil {
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("%w: %v", booking.ErrPersistence, err)
	}
	return nil
}
