package repository

import (
	"context"
	"time"
)

// User is an application account. The student id is the sole credential;
// it is stored as given because the persisted user file must remain a
// plain username -> student_id mapping. Phone is collected at
// registration and unused by the booking core.
type User struct {
	Username  string
	StudentID string
	Phone     string
}

// UserStore abstracts the user backend so the MySQL and file drivers are
// interchangeable at startup.
type UserStore interface {
	// Create registers a new user, failing with ErrUsernameTaken on a
	// username collision.
	Create(ctx context.Context, u User) error
	// Get fetches a user by username, failing with ErrUserNotFound.
	Get(ctx context.Context, username string) (User, error)
}

// TokenStore persists refresh-token hashes. Only the sha256 hash of a
// token ever reaches a store.
type TokenStore interface {
	// StoreRefresh records a token hash for the user with its expiry.
	StoreRefresh(ctx context.Context, username, tokenHash string, exp time.Time) error
	// ValidateRefresh returns the owning username for a live token hash,
	// failing with ErrTokenInvalid otherwise.
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	// RevokeByHash invalidates a token hash. Revoking an unknown hash is
	// not an error.
	RevokeByHash(ctx context.Context, tokenHash string) error
}
