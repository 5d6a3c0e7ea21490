// Package repository implements the durable stores behind the booking
// service: a MySQL backend and a JSON-file backend that keeps the
// original data-file layout. Sentinel errors defined here let handlers
// distinguish failure cases without inspecting driver errors.
package repository

import "errors"

// ErrUsernameTaken is returned when registration collides with an
// existing username. Handlers translate it into HTTP 409.
var ErrUsernameTaken = errors.New("username already exists")

// ErrUserNotFound is returned when no user record matches the username.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenInvalid is returned for refresh tokens that are unknown,
// expired or revoked.
var ErrTokenInvalid = errors.New("invalid refresh token")
