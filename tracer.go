package congc

import "unsafe"

// markStackFn is stored as a mutable, package-level function variable
// rather than called directly, mirroring the reference collector's
// `static void (*volatile gc_mark_stack)(GC*)` (original_source/gc.c).
// The indirection keeps the optimizer from inlining the stack scan
// into mark() and shrinking the frame that gets scanned. Go's compiler
// and calling convention differ enough from C's (no setjmp, movable
// goroutine stacks under the scheduler) that this is a best-effort
// analog rather than a safety guarantee; see DESIGN.md.
var markStackFn = markStackImpl

// mark runs one full mark pass: root marking, then conservative stack
// marking, then draining the worklist seeded by both (spec.md §4.3,
// §5 ordering: "root marking completes before stack marking begins").
func (c *Collector) mark() {
	c.markWork = c.markWork[:0]
	c.markRoots()
	markStackFn(c)
	c.drainMarkWork()
}

// markRoots walks the registry and marks every Root-flagged block
// unconditionally, then enqueues its contents for scanning unless it
// is also a Leaf.
func (c *Collector) markRoots() {
	c.reg.forEach(func(_ int, rec *blockRecord) {
		if !rec.flags.has(Root) {
			return
		}
		rec.flags |= mark
		if rec.flags.has(Leaf) {
			return
		}
		c.enqueueWords(rec.base, rec.size)
	})
}

// markStackImpl conservatively scans the machine stack between
// c.stackBottom (the address the host supplied at Init) and a stack
// top sampled right here, walking word-aligned slots in whichever
// direction the stack grows (spec.md §4.3). Every word read is passed
// to markCandidate as a potential pointer.
func markStackImpl(c *Collector) {
	var probe unsafe.Pointer
	top := uintptr(unsafe.Pointer(&probe))
	bottom := c.stackBottom
	const wordSize = unsafe.Sizeof(uintptr(0))

	if bottom == top {
		return
	}

	if bottom < top {
		for addr := top; addr >= bottom; addr -= wordSize {
			c.markCandidate(*(*uintptr)(unsafe.Pointer(addr)))
		}
		return
	}

	for addr := top; addr < bottom; addr += wordSize {
		c.markCandidate(*(*uintptr)(unsafe.Pointer(addr)))
	}
}

// markCandidate treats word as a possible block base address. If it
// falls within the observed address envelope and names a registered,
// unmarked block, the block is marked and (unless it is a Leaf) its
// contents are enqueued for the worklist drain to scan.
func (c *Collector) markCandidate(word uintptr) {
	if word < c.reg.minptr || word > c.reg.maxptr {
		return
	}
	if c.reg.capacity() == 0 {
		return
	}
	idx := c.reg.find(word)
	s := &c.reg.slots[idx]
	if s.state != slotOccupied {
		return
	}
	if s.rec.flags.has(mark) {
		return
	}
	s.rec.flags |= mark
	if s.rec.flags.has(Leaf) {
		return
	}
	c.enqueueWords(s.rec.base, s.rec.size)
}

// enqueueWords appends every machine word stored in [base, base+size)
// to the mark worklist. Recursion depth in the reference collector is
// bounded by graph depth; this drives the same traversal from an
// explicit, Collector-owned queue instead, per spec.md §9's guidance
// that an iterative worklist is a legal substitution for recursive
// marking.
func (c *Collector) enqueueWords(base, size uintptr) {
	const wordSize = unsafe.Sizeof(uintptr(0))
	n := size / wordSize
	for i := uintptr(0); i < n; i++ {
		word := *(*uintptr)(unsafe.Pointer(base + i*wordSize))
		c.markWork = append(c.markWork, word)
	}
}

// drainMarkWork processes the worklist until empty. Termination is
// guaranteed by the mark bit: markCandidate never re-enqueues an
// already-marked block's contents.
func (c *Collector) drainMarkWork() {
	for len(c.markWork) > 0 {
		n := len(c.markWork) - 1
		word := c.markWork[n]
		c.markWork = c.markWork[:n]
		c.markCandidate(word)
	}
}
