package booking

import "context"

// Grid is a read-only view of the day's occupancy over the full
// Space × Slot product. It is derived from the store on demand and is
// never itself the source of truth.
type Grid struct {
	Spaces []Space
	Slots  []Slot
	cells  map[Key]string
}

// Snapshot builds a grid from the current store contents. Cells absent
// from the store are free. The call has no side effects.
func Snapshot(ctx context.Context, store Store, spaces []Space) (*Grid, error) {
	g := &Grid{
		Spaces: spaces,
		Slots:  Slots(),
		cells:  make(map[Key]string),
	}
	for _, sp := range spaces {
		for _, sl := range g.Slots {
			key := Key{Space: sp, Slot: sl}
			owner, ok, err := store.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if ok {
				g.cells[key] = owner
			}
		}
	}
	return g, nil
}

// Owner returns the user holding the cell, if any.
func (g *Grid) Owner(key Key) (string, bool) {
	owner, ok := g.cells[key]
	return owner, ok
}

// Free reports whether the cell has no reservation.
func (g *Grid) Free(key Key) bool {
	_, ok := g.cells[key]
	return !ok
}
