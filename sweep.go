package congc

import "unsafe"

// sweep iterates the registry once. A marked block survives and has
// its mark bit cleared (P4: no lingering marks after a cycle); an
// unmarked block is reclaimed: its destructor (if any) runs, its
// backing storage is released, and its slot becomes a tombstone.
func (c *Collector) sweep() {
	c.sweeping = true
	defer func() { c.sweeping = false }()

	c.reg.sweepOccupied(func(rec *blockRecord) bool {
		if rec.flags.has(mark) {
			rec.flags &^= mark
			return true
		}
		if rec.dtor != nil {
			rec.dtor(rec.base)
		}
		c.backing.Release(unsafe.Pointer(rec.base))
		return false
	})
}
