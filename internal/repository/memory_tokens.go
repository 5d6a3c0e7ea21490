package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore holds refresh-token hashes in process memory. The
// file driver uses it: sessions there are process-scoped, matching the
// original deployment where only users and reservations persisted.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
}

type memoryToken struct {
	username string
	exp      time.Time
}

// NewMemoryTokenStore returns an empty in-process token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken)}
}

// StoreRefresh records a token hash with its expiry.
func (s *MemoryTokenStore) StoreRefresh(_ context.Context, username, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = memoryToken{username: username, exp: exp}
	return nil
}

// ValidateRefresh returns the owner of a live token hash.
func (s *MemoryTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok || time.Now().UTC().After(t.exp) {
		return "", ErrTokenInvalid
	}
	return t.username, nil
}

// RevokeByHash drops a token hash.
func (s *MemoryTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenHash)
	return nil
}

var _ TokenStore = (*MemoryTokenStore)(nil)
