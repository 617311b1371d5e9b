package congc

// Stats is a point-in-time snapshot of the collector's bookkeeping.
type Stats struct {
	// TotalHeapSize is the sum of all live block sizes plus the
	// registry's own slot count, at a coarse one-byte-per-slot
	// approximation. spec.md §4.5 calls this out explicitly as a
	// unit-mixing quirk (bytes + slot count) inherited from the
	// reference collector and preserved rather than silently fixed.
	TotalHeapSize uint64
	// LiveObjects is the number of occupied registry slots.
	LiveObjects uint64
	// LiveObjectsSize is the sum of all live block sizes, in bytes.
	LiveObjectsSize uint64
}

// Stats returns a snapshot of the collector's current bookkeeping. It
// does not run a cycle first; call Run beforehand for an up-to-date
// reachability picture.
func (c *Collector) Stats() Stats {
	var size uint64
	var count uint64
	c.reg.forEach(func(_ int, rec *blockRecord) {
		size += uint64(rec.size)
		count++
	})
	return Stats{
		TotalHeapSize:   size + uint64(c.reg.capacity()),
		LiveObjects:     count,
		LiveObjectsSize: size,
	}
}
