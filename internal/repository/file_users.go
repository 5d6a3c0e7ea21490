package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// FileUserStore keeps accounts in a JSON file of the original
// username -> student_id shape. The phone number has no column in that
// format and is dropped, as the original system did.
type FileUserStore struct {
	mu    sync.Mutex
	path  string
	users map[string]string
}

// NewFileUserStore loads the file at path, treating a missing file as an
// empty user set.
func NewFileUserStore(path string) (*FileUserStore, error) {
	s := &FileUserStore{path: path, users: make(map[string]string)}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("load users: %w", err)
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.users); err != nil {
			return nil, fmt.Errorf("parse users: %w", err)
		}
	}
	return s, nil
}

// Create registers a user, persisting before returning success.
func (s *FileUserStore) Create(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Username]; exists {
		return ErrUsernameTaken
	}
	s.users[u.Username] = u.StudentID
	b, err := json.Marshal(s.users)
	if err == nil {
		err = os.WriteFile(s.path, b, 0o644)
	}
	if err != nil {
		delete(s.users, u.Username)
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

// Get fetches a user by username.
func (s *FileUserStore) Get(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sid, ok := s.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return User{Username: username, StudentID: sid}, nil
}
