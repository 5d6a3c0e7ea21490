package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileUserStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	s, err := NewFileUserStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Create(ctx, User{Username: "alice", StudentID: "20231234", Phone: "010-1234"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, User{Username: "alice", StudentID: "99999999"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate: want ErrUsernameTaken, got %v", err)
	}
	if _, err := s.Get(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user: want ErrUserNotFound, got %v", err)
	}

	// Reload and check the persisted mapping read back.
	s2, err := NewFileUserStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	u, err := s2.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if u.StudentID != "20231234" {
		t.Errorf("student id = %q", u.StudentID)
	}
}

// TestFileUserStoreOriginalFormat checks the flat username -> student_id
// mapping written by the original system loads as-is.
func TestFileUserStoreOriginalFormat(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(`{"bob": "20209876"}`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s, err := NewFileUserStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	u, err := s.Get(ctx, "bob")
	if err != nil || u.StudentID != "20209876" {
		t.Fatalf("bob = %+v (err=%v)", u, err)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryTokenStore()

	exp := time.Now().UTC().Add(time.Hour)
	if err := s.StoreRefresh(ctx, "alice", "hash-1", exp); err != nil {
		t.Fatalf("store: %v", err)
	}
	user, err := s.ValidateRefresh(ctx, "hash-1")
	if err != nil || user != "alice" {
		t.Fatalf("validate = %q (err=%v)", user, err)
	}
	if _, err := s.ValidateRefresh(ctx, "hash-unknown"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("unknown hash: want ErrTokenInvalid, got %v", err)
	}

	// Expired tokens are invalid.
	if err := s.StoreRefresh(ctx, "bob", "hash-2", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := s.ValidateRefresh(ctx, "hash-2"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expired hash: want ErrTokenInvalid, got %v", err)
	}

	// Revoked tokens are invalid; revoking twice is fine.
	if err := s.RevokeByHash(ctx, "hash-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := s.ValidateRefresh(ctx, "hash-1"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("revoked hash: want ErrTokenInvalid, got %v", err)
	}
	if err := s.RevokeByHash(ctx, "hash-1"); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}
