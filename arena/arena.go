//go:build !arena_pool

// This file implements Arena's free-space tracking as a single linear
// free list, scanned first-fit on every carve. See arena_pool.go for
// a size-classed alternative tuned for workloads with many same-sized
// blocks, selected with -tags arena_pool (mirrors the teacher pack's
// alloc.go / alloc_pool.go split).
package arena

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/leanheap/congc"
)

var _ congc.BackingAllocator = (*Arena)(nil)

// span is a free region of the arena, in byte offsets relative to
// Arena.base.
type span struct {
	offset uintptr
	size   uintptr
}

// Arena is a first-fit, free-list allocator over a single anonymously
// mmap-ed region. It has no compaction and does not move live blocks
// (spec.md's Non-goals carry over to the backing allocator as well):
// a Resize that cannot be satisfied in place allocates a fresh block,
// copies, and frees the old one, exactly mirroring realloc's contract.
type Arena struct {
	mu     sync.Mutex
	region []byte
	base   uintptr
	next   uintptr
	free   []span
	blocks map[uintptr]uintptr // base address -> rounded block size

	stats Stats
}

// New maps a region of size bytes and returns an Arena over it.
func New(size uintptr) (*Arena, error) {
	region, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	return &Arena{
		region: region,
		base:   uintptr(unsafe.Pointer(&region[0])),
		blocks: make(map[uintptr]uintptr),
	}, nil
}

// Close unmaps the arena's region. It must only be called once every
// block handed out by this arena has been released, and after the
// owning collector's End has run.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return unix.Munmap(a.region)
}

// Stats returns a snapshot of the arena's allocation counters.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func round(size uintptr) uintptr {
	if size == 0 {
		return AllocRoundTo
	}
	return ((size-1)/AllocRoundTo + 1) * AllocRoundTo
}

// carve finds size bytes, preferring a free-list reuse over growing
// the bump pointer. Must be called with a.mu held.
func (a *Arena) carve(size uintptr) (uintptr, bool) {
	for i, s := range a.free {
		if s.size < size {
			continue
		}
		offset := s.offset
		if s.size == size {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i] = span{offset: s.offset + size, size: s.size - size}
		}
		return offset, true
	}
	if a.next+size > uintptr(len(a.region)) {
		return 0, false
	}
	offset := a.next
	a.next += size
	return offset, true
}

// Alloc implements congc.BackingAllocator.
func (a *Arena) Alloc(size uintptr) unsafe.Pointer {
	rounded := round(size)

	a.mu.Lock()
	offset, ok := a.carve(rounded)
	if !ok {
		a.mu.Unlock()
		a.stats.recordFailure()
		return nil
	}
	addr := a.base + offset
	a.blocks[addr] = rounded
	a.stats.recordAlloc(rounded)
	a.mu.Unlock()

	return unsafe.Pointer(addr)
}

// ZeroAlloc implements congc.BackingAllocator.
func (a *Arena) ZeroAlloc(count, itemSize uintptr) unsafe.Pointer {
	ptr := a.Alloc(count * itemSize)
	if ptr == nil {
		return nil
	}
	// Bump-allocated memory is already zero (mmap guarantees
	// zero-filled pages); memory recycled off the free list might not
	// be, so zero unconditionally rather than tracking provenance.
	buf := unsafe.Slice((*byte)(ptr), count*itemSize)
	for i := range buf {
		buf[i] = 0
	}
	return ptr
}

// Resize implements congc.BackingAllocator.
func (a *Arena) Resize(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	if ptr == nil {
		return a.Alloc(size)
	}

	addr := uintptr(ptr)
	a.mu.Lock()
	oldRounded, ok := a.blocks[addr]
	a.mu.Unlock()
	if !ok {
		return nil
	}

	newRounded := round(size)
	if newRounded == oldRounded {
		return ptr
	}

	newPtr := a.Alloc(size)
	if newPtr == nil {
		return nil
	}

	copySize := oldRounded
	if newRounded < copySize {
		copySize = newRounded
	}
	src := unsafe.Slice((*byte)(ptr), copySize)
	dst := unsafe.Slice((*byte)(newPtr), copySize)
	copy(dst, src)

	a.Release(ptr)
	return newPtr
}

// Release implements congc.BackingAllocator. It is a no-op for an
// address this arena never handed out.
func (a *Arena) Release(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	addr := uintptr(ptr)

	a.mu.Lock()
	defer a.mu.Unlock()
	size, ok := a.blocks[addr]
	if !ok {
		return
	}
	delete(a.blocks, addr)
	a.free = append(a.free, span{offset: addr - a.base, size: size})
	a.stats.recordFree(size)
}
