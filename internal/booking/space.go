// Package booking implements the reservation state machine for the
// same-day space booking system: the fixed slot grid, the daily quota
// policy, the midnight rollover and the service that ties them to a
// durable store.
package booking

import (
	"fmt"
	"strings"
)

// Space identifies a bookable room. The set of valid spaces is fixed at
// startup; spaces are configured, never created through the API.
type Space string

// DefaultSpaces is the space list used when none is configured.
var DefaultSpaces = []Space{"GRAY", "BLUE", "SILVER", "GOLD", "GLAB1", "GLAB2"}

// ParseSpace normalizes a raw space name and checks it against the known
// set. It returns ErrUnknownSpace for anything outside the set.
func ParseSpace(raw string, known []Space) (Space, error) {
	s := Space(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownSpace)
	}
	for _, k := range known {
		if s == k {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSpace, s)
}

// Key is the compound reservation key. At most one user owns a key at
// any point in time; this is the primary invariant of the system.
type Key struct {
	Space Space
	Slot  Slot
}

func (k Key) String() string { return string(k.Space) + "/" + k.Slot.Label() }
