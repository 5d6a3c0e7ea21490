// Sentinel errors shared by the booking service and its stores.
// Handlers compare with errors.Is and translate to HTTP status codes.

package booking

import "errors"

// ErrSlotTaken is returned when the target cell already has an owner.
// Re-reserving a cell the caller already owns is also rejected with
// this error.
var ErrSlotTaken = errors.New("slot already booked")

// ErrQuotaExceeded is returned when the user already holds the daily
// maximum of reserved hours.
var ErrQuotaExceeded = errors.New("daily reservation quota exceeded")

// ErrNotOwner is returned when a cancel targets a cell owned by a
// different user.
var ErrNotOwner = errors.New("reservation owned by another user")

// ErrNotFound is returned when a cancel targets an empty cell.
var ErrNotFound = errors.New("reservation not found")

// ErrPersistence signals that a durable write failed. Stores roll the
// in-memory mutation back before returning it, so state never appears
// committed in memory without being on disk.
var ErrPersistence = errors.New("persistence failure")

// ErrUnknownSpace and ErrInvalidSlot reject requests outside the fixed
// Space × Slot grid.
var (
	ErrUnknownSpace = errors.New("unknown space")
	ErrInvalidSlot  = errors.New("invalid time slot")
)
