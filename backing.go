package congc

import "unsafe"

// BackingAllocator is the opaque backing allocator a Collector wraps.
// spec.md §1 keeps this out of the collector's own scope: the
// collector only needs alloc/zero_alloc/resize/release semantics with
// C's malloc/calloc/realloc/free contract (return a nil/null pointer
// on failure, resize may relocate, release is a no-op on nil).
//
// Package arena provides a reference implementation backed by raw
// mapped memory, suitable for holding addresses the collector treats
// as plain machine words (see its package doc for why Go's own heap
// cannot be used for this).
type BackingAllocator interface {
	Alloc(size uintptr) unsafe.Pointer
	ZeroAlloc(count, itemSize uintptr) unsafe.Pointer
	Resize(ptr unsafe.Pointer, size uintptr) unsafe.Pointer
	Release(ptr unsafe.Pointer)
}
