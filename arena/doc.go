// Package arena provides a reference congc.BackingAllocator: a single
// anonymously mmap-ed region handed out through a first-fit free list.
//
// The collector this package backs treats registered block addresses
// as plain machine words it may find lying around on a conservatively
// scanned stack. Go's own heap cannot be used for that purpose -
// values there are already owned by Go's collector, which may reclaim
// them the moment congc's bookkeeping is the only thing still
// referencing them, or reorganize them in ways that break the
// assumption that a base address stays put. Memory obtained through
// mmap sits outside the Go heap entirely, so holding its address as a
// bare uintptr is safe for as long as the mapping lives.
package arena
