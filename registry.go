package congc

// slotState tags the three states a registry slot can be in. The
// reference collector overloads a zero hash as "not occupied" and a
// zero hash with a non-nil value as "tombstone" (see original_source
// gc_find_ptr). That encoding is documented in spec.md as a deliberate
// risk; this implementation instead gives every slot an explicit
// state, per the spec's own re-architecture guidance (§9): tombstones
// must never collapse into empty slots or linear-probe lookups stop
// terminating correctly once something has been removed.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotOccupied
)

type slot struct {
	state slotState
	hash  uintptr // cheap pre-filter, checked before the base comparison
	rec   blockRecord
}

// registry is the open-addressed table mapping block base addresses to
// their bookkeeping record. It implements spec.md §4.1 verbatim except
// for the slot-state change above and the addition of a base-address
// equality check in find (see DESIGN.md: the spec's Open Question on
// "hash-only comparison" is resolved in favor of the defensive check).
type registry struct {
	slots    []slot
	count    int
	minptr   uintptr
	maxptr   uintptr

	loadFactor float64
	growFactor int
}

func newRegistry(loadFactor float64, growFactor int) registry {
	return registry{
		minptr:     ^uintptr(0),
		maxptr:     0,
		loadFactor: loadFactor,
		growFactor: growFactor,
	}
}

func (r *registry) capacity() int { return len(r.slots) }

// find walks slots starting at hash mod capacity using linear probing.
// It returns the index of the slot that should hold base: an existing
// occupied slot with a matching base, the first tombstone seen along
// the probe (so insert can reclaim it), or the terminating empty slot.
// The caller distinguishes a hit from an insertion point by checking
// the returned slot's state against slotOccupied.
//
// Precondition: capacity() > 0 and load factor < 1, so the table is
// never fully saturated and the probe is guaranteed to terminate (P3).
func (r *registry) find(base uintptr) int {
	n := len(r.slots)
	hash := addrHash(base)
	i := int(hash % uintptr(n))
	tombstone := -1

	for {
		s := &r.slots[i]
		switch s.state {
		case slotEmpty:
			if tombstone >= 0 {
				return tombstone
			}
			return i
		case slotTombstone:
			if tombstone < 0 {
				tombstone = i
			}
		case slotOccupied:
			if s.hash == hash && s.rec.base == base {
				return i
			}
		}
		i++
		if i == n {
			i = 0
		}
	}
}

// lookup returns the record for base and whether it is present.
func (r *registry) lookup(base uintptr) (*blockRecord, bool) {
	if len(r.slots) == 0 {
		return nil, false
	}
	idx := r.find(base)
	if r.slots[idx].state != slotOccupied {
		return nil, false
	}
	return &r.slots[idx].rec, true
}

// insert places a new or updated record at base, updating the address
// envelope first as spec.md §4.1 requires ("Before insert, update
// minptr/maxptr with the new base").
func (r *registry) insert(base, size uintptr, flags Flags, dtor Destructor) {
	if base < r.minptr {
		r.minptr = base
	}
	if base > r.maxptr {
		r.maxptr = base
	}

	idx := r.find(base)
	wasOccupied := r.slots[idx].state == slotOccupied
	r.slots[idx] = slot{
		state: slotOccupied,
		hash:  addrHash(base),
		rec:   blockRecord{base: base, size: size, flags: flags, dtor: dtor},
	}
	if !wasOccupied {
		r.count++
	}
}

// remove tombstones the slot holding base, if any, and returns its
// record.
func (r *registry) remove(base uintptr) (blockRecord, bool) {
	if len(r.slots) == 0 {
		return blockRecord{}, false
	}
	idx := r.find(base)
	if r.slots[idx].state != slotOccupied {
		return blockRecord{}, false
	}
	rec := r.slots[idx].rec
	r.slots[idx] = slot{state: slotTombstone}
	r.count--
	return rec, true
}

// needsAdjust reports whether inserting one more block would exceed
// the configured load factor, the trigger for alloc/zero_alloc to call
// adjust before touching the backing allocator (spec.md §4.2).
func (r *registry) needsAdjust() bool {
	return float64(r.count+1) > float64(len(r.slots))*r.loadFactor
}

// shouldGrow reports whether occupancy still justifies growing the
// table after a collection cycle has run.
func (r *registry) shouldGrow() bool {
	return r.count >= len(r.slots)/r.growFactor
}

// nextCapacity computes the new table size per spec.md §3:
// max(8, capacity * grow_factor).
func (r *registry) nextCapacity() int {
	c := len(r.slots) * r.growFactor
	if c < 8 {
		c = 8
	}
	return c
}

// rehash allocates a fresh table of newCapacity, migrates every
// occupied record into it via find (every slot in the new table starts
// empty, so this is always an insertion into an empty slot), and
// resets count to the number of migrated records.
func (r *registry) rehash(newCapacity int) {
	old := r.slots
	r.slots = make([]slot, newCapacity)
	r.count = 0
	for _, s := range old {
		if s.state != slotOccupied {
			continue
		}
		idx := r.find(s.rec.base)
		r.slots[idx] = slot{state: slotOccupied, hash: s.hash, rec: s.rec}
		r.count++
	}
}

// forEach calls fn for every occupied slot, by index, so callers
// (tracer, sweeper, stats) can read or mutate the record in place.
func (r *registry) forEach(fn func(idx int, rec *blockRecord)) {
	for i := range r.slots {
		if r.slots[i].state == slotOccupied {
			fn(i, &r.slots[i].rec)
		}
	}
}

// sweepOccupied visits every occupied slot and calls fn with its
// record. If fn returns false the slot is reclaimed: tombstoned and
// count decremented. fn is responsible for invoking the destructor and
// releasing backing storage before returning false, and for clearing
// any transient flags (the mark bit) before returning true.
func (r *registry) sweepOccupied(fn func(rec *blockRecord) (keep bool)) {
	for i := range r.slots {
		if r.slots[i].state != slotOccupied {
			continue
		}
		if fn(&r.slots[i].rec) {
			continue
		}
		r.slots[i] = slot{state: slotTombstone}
		r.count--
	}
}
