// Package congc implements an embeddable, conservative, mark-and-sweep
// garbage collector for programs that manage a region of heap memory
// outside Go's own allocator.
//
// A Collector tracks every block handed out through its allocation
// entry points (Alloc, ZeroAlloc, Resize) in an internal Registry,
// traces reachability from a conservatively-scanned machine stack plus
// an explicit root set, and reclaims any block no longer reachable.
// It does not replace Go's allocator or its GC: it is meant to sit on
// top of a caller-supplied BackingAllocator (see package arena for a
// reference implementation) that hands out memory Go's own collector
// does not know about.
//
// The collector is single-threaded and not reentrant. See the package
// README-equivalent comments on Collector for the full contract.
package congc
