//go:build arena_pool

// This file is the size-classed alternative to arena.go, selected with
// -tags arena_pool. Instead of a single linear free list scanned
// first-fit, released spans are bucketed by size class (AllocRoundTo
// multiples) into their own stacks, giving O(1) reuse for workloads
// that repeatedly allocate and free similarly sized blocks - the same
// tradeoff the teacher pack's alloc_pool.go makes over alloc.go, minus
// the sync.Pool: pool entries here are addresses inside the mmap-ed
// region, never Go-heap memory, so the collector's address envelope
// still only ever contains off-heap addresses.
package arena

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/leanheap/congc"
)

var _ congc.BackingAllocator = (*Arena)(nil)

// poolClasses bounds the size-classed free lists; requests rounding
// to more than poolClasses*AllocRoundTo bytes fall back to a large
// object list, scanned first-fit like arena.go's single list.
const poolClasses = 64

type span struct {
	offset uintptr
	size   uintptr
}

// Arena is the size-classed variant described above.
type Arena struct {
	mu     sync.Mutex
	region []byte
	base   uintptr
	next   uintptr

	pools []uintptr // pools[class] is a singly-linked free list head, 0 = empty
	large []span    // first-fit fallback for oversized blocks

	blocks map[uintptr]uintptr

	stats Stats
}

func New(size uintptr) (*Arena, error) {
	region, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	return &Arena{
		region: region,
		base:   uintptr(unsafe.Pointer(&region[0])),
		pools:  make([]uintptr, poolClasses+1),
		blocks: make(map[uintptr]uintptr),
	}, nil
}

func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return unix.Munmap(a.region)
}

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

func classOf(rounded uintptr) int {
	class := int(rounded / AllocRoundTo)
	if class > poolClasses {
		return poolClasses + 1 // sentinel: large object
	}
	return class
}

// freeNode overlays a released span's first word with the next link
// of its size class's free list, the same trick the teacher pack's
// oneblock allocator uses to thread blocks without extra bookkeeping
// memory.
func (a *Arena) freeNode(offset uintptr) *uintptr {
	return (*uintptr)(unsafe.Pointer(a.base + offset))
}

// carve must be called with a.mu held.
func (a *Arena) carve(rounded uintptr) (uintptr, bool) {
	class := classOf(rounded)
	if class <= poolClasses {
		if head := a.pools[class]; head != 0 {
			offset := head - a.base
			a.pools[class] = *a.freeNode(offset)
			return offset, true
		}
	} else {
		for i, s := range a.large {
			if s.size < rounded {
				continue
			}
			offset := s.offset
			if s.size == rounded {
				a.large = append(a.large[:i], a.large[i+1:]...)
			} else {
				a.large[i] = span{offset: s.offset + rounded, size: s.size - rounded}
			}
			return offset, true
		}
	}

	if a.next+rounded > uintptr(len(a.region)) {
		return 0, false
	}
	offset := a.next
	a.next += rounded
	return offset, true
}

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

func (a *Arena) ZeroAlloc(count, itemSize uintptr) unsafe.Pointer {
	ptr := a.Alloc(count * itemSize)
	if ptr == nil {
		return nil
	}
	buf := unsafe.Slice((*byte)(ptr), count*itemSize)
	for i := range buf {
		buf[i] = 0
	}
	return ptr
}

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

func (a *Arena) Release(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	addr := uintptr(ptr)

	a.mu.Lock()
	defer a.mu.Unlock()
	rounded, ok := a.blocks[addr]
	if !ok {
		return
	}
	delete(a.blocks, addr)

	class := classOf(rounded)
	offset := addr - a.base
	if class <= poolClasses {
		*a.freeNode(offset) = a.pools[class]
		a.pools[class] = addr
	} else {
		a.large = append(a.large, span{offset: offset, size: rounded})
	}
	a.stats.recordFree(rounded)
}
