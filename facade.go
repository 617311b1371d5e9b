package congc

import "unsafe"

// Alloc allocates size bytes through the backing allocator and
// registers the resulting block with no flags and no destructor. It
// returns nil if the backing allocator is out of memory; the registry
// and address envelope are left unchanged in that case.
func (c *Collector) Alloc(size uintptr) unsafe.Pointer {
	return c.AllocOpt(0, nil, size)
}

// AllocOpt is Alloc with explicit flags and destructor.
func (c *Collector) AllocOpt(flags Flags, dtor Destructor, size uintptr) unsafe.Pointer {
	if c.rejectReentry("AllocOpt") {
		return nil
	}
	c.maybeAdjust()

	ptr := c.backing.Alloc(size)
	if ptr == nil {
		return nil
	}
	c.reg.insert(uintptr(ptr), size, flags, dtor)
	return ptr
}

// ZeroAlloc allocates a zeroed count*itemSize block and registers it
// with no flags and no destructor.
func (c *Collector) ZeroAlloc(count, itemSize uintptr) unsafe.Pointer {
	return c.ZeroAllocOpt(0, nil, count, itemSize)
}

// ZeroAllocOpt is ZeroAlloc with explicit flags and destructor.
func (c *Collector) ZeroAllocOpt(flags Flags, dtor Destructor, count, itemSize uintptr) unsafe.Pointer {
	if c.rejectReentry("ZeroAllocOpt") {
		return nil
	}
	c.maybeAdjust()

	ptr := c.backing.ZeroAlloc(count, itemSize)
	if ptr == nil {
		return nil
	}
	c.reg.insert(uintptr(ptr), count*itemSize, flags, dtor)
	return ptr
}

// maybeAdjust implements spec.md §4.2's alloc ordering: adjust (which
// may run a full cycle and/or grow the table) happens *before* the
// backing allocation, so a collection triggered by this very call
// never observes the block it is about to create sitting in a
// register with nowhere else it is reachable from yet.
func (c *Collector) maybeAdjust() {
	if c.reg.needsAdjust() {
		c.adjust()
	}
}

// Resize resizes ptr to size bytes with no flags and no destructor if
// the block relocates.
func (c *Collector) Resize(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	return c.ResizeOpt(ptr, 0, nil, size)
}

// ResizeOpt resizes ptr to size bytes. If the backing allocator moves
// the block, the old registry entry is removed and a new one is
// inserted at the new base with the given flags/destructor; if it
// returns the same base, the existing entry's size is updated in
// place and its flags/destructor are left untouched. Returns nil, with
// the registry unchanged, if the backing allocator fails.
func (c *Collector) ResizeOpt(ptr unsafe.Pointer, flags Flags, dtor Destructor, size uintptr) unsafe.Pointer {
	if c.rejectReentry("ResizeOpt") {
		return nil
	}

	newPtr := c.backing.Resize(ptr, size)
	if newPtr == nil {
		return nil
	}

	if newPtr == ptr {
		if rec, ok := c.reg.lookup(uintptr(ptr)); ok {
			rec.size = size
		}
		return newPtr
	}

	c.reg.remove(uintptr(ptr))
	c.reg.insert(uintptr(newPtr), size, flags, dtor)
	return newPtr
}

// Free is a no-op on nil. Otherwise it removes ptr's registry record,
// invokes its destructor (if any), and releases its backing storage
// synchronously, bypassing tracing. Freeing a pointer the collector
// never registered is undefined (spec.md §7).
func (c *Collector) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	if c.rejectReentry("Free") {
		return
	}

	rec, ok := c.reg.remove(uintptr(ptr))
	if !ok {
		BUG("Free: %p was never registered with this collector", ptr)
		return
	}
	if rec.dtor != nil {
		rec.dtor(rec.base)
	}
	c.backing.Release(ptr)
}

// rejectReentry defends against the documented-undefined case of a
// destructor re-entering a collector entry point during sweep (spec.md
// §7, §9's "destructor re-entry" design note). It BUG-logs and refuses
// the call instead of corrupting the registry mid-sweep.
func (c *Collector) rejectReentry(op string) bool {
	if c.sweeping {
		BUG("%s called re-entrantly from a destructor during sweep", op)
		return true
	}
	return false
}
