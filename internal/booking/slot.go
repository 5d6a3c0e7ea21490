package booking

import "fmt"

// Operating day boundaries. Slots are one hour long, the first starting
// at dayStart and the last ending at dayEnd.
const (
	dayStart = 9
	dayEnd   = 21
)

// Slot is one bookable hour of the operating day, identified by its
// starting hour. The zero value is not a valid slot.
type Slot struct {
	Start int // starting hour, 9..20
}

// Label renders the slot in the stable "09:00-10:00" form used in
// persisted state and over the wire.
func (s Slot) Label() string {
	return fmt.Sprintf("%02d:00-%02d:00", s.Start, s.Start+1)
}

// Valid reports whether the slot lies inside the operating day.
func (s Slot) Valid() bool { return s.Start >= dayStart && s.Start < dayEnd }

// ParseSlot accepts a slot label ("09:00-10:00") and returns the typed
// slot. Labels must match the fixed grid exactly; arbitrary intervals
// are rejected with ErrInvalidSlot.
func ParseSlot(label string) (Slot, error) {
	var start, startMin, end, endMin int
	if _, err := fmt.Sscanf(label, "%d:%d-%d:%d", &start, &startMin, &end, &endMin); err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	s := Slot{Start: start}
	if startMin != 0 || endMin != 0 || end != start+1 || !s.Valid() {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	return s, nil
}

// Slots returns the fixed set of slots for one operating day, in
// ascending order.
func Slots() []Slot {
	out := make([]Slot, 0, dayEnd-dayStart)
	for h := dayStart; h < dayEnd; h++ {
		out = append(out, Slot{Start: h})
	}
	return out
}
