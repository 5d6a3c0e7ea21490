package booking

// DefaultDailyCap is the number of hours a single user may hold across
// all spaces within one day.
const DefaultDailyCap = 4

// Policy decides whether a reservation request is admissible. It is a
// pure function of the caller's current holdings; cell uniqueness is
// enforced separately by the store.
type Policy struct {
	DailyCap int
}

// NewPolicy returns a policy with the given cap, falling back to
// DefaultDailyCap for non-positive values.
func NewPolicy(cap int) Policy {
	if cap <= 0 {
		cap = DefaultDailyCap
	}
	return Policy{DailyCap: cap}
}

// CanReserve reports whether a user already holding held hours may add
// one more. A user at exactly the cap cannot add another, regardless of
// which space is requested.
func (p Policy) CanReserve(held int) bool { return held < p.DailyCap }
