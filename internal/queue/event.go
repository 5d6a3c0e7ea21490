// Package queue defines message payloads exchanged over the broker and
// the background consumer that records them.
package queue

// ReservationEvent is published when a reservation is created or
// cancelled. It carries enough for downstream consumers to log or
// notify without querying the store.
type ReservationEvent struct {
	Action   string `json:"action"` // "reserved" or "cancelled"
	Username string `json:"username"`
	Space    string `json:"space"`
	Slot     string `json:"slot"`
	Date     string `json:"date"` // operating day, YYYY-MM-DD
	At       string `json:"at"`   // event time, RFC3339 UTC
}
