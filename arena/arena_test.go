package arena

import (
	"testing"
	"unsafe"
)

func TestArenaAllocZeroAllocRelease(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	p := a.Alloc(10)
	if p == nil {
		t.Fatal("Alloc(10) = nil")
	}
	buf := unsafe.Slice((*byte)(p), 10)
	for i := range buf {
		buf[i] = 0xAA
	}

	z := a.ZeroAlloc(5, 2)
	if z == nil {
		t.Fatal("ZeroAlloc(5, 2) = nil")
	}
	zbuf := unsafe.Slice((*byte)(z), 10)
	for i, b := range zbuf {
		if b != 0 {
			t.Fatalf("ZeroAlloc byte %d = %#x, want 0", i, b)
		}
	}

	a.Release(p)
	a.Release(z)

	st := a.Stats()
	if st.NewCalls.Get() != 2 {
		t.Fatalf("NewCalls = %d, want 2", st.NewCalls.Get())
	}
	if st.FreeCalls.Get() != 2 {
		t.Fatalf("FreeCalls = %d, want 2", st.FreeCalls.Get())
	}
	if st.TotalSize.Get() != 0 {
		t.Fatalf("TotalSize = %d, want 0 after releasing everything", st.TotalSize.Get())
	}
}

func TestArenaReleaseReusesSpan(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	first := a.Alloc(32)
	if first == nil {
		t.Fatal("Alloc(32) = nil")
	}
	a.Release(first)

	second := a.Alloc(32)
	if second == nil {
		t.Fatal("Alloc(32) = nil on reuse")
	}
	if second != first {
		t.Fatalf("free-list reuse: got %p, want reused address %p", second, first)
	}
}

func TestArenaResizeRelocatesAndCopies(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	p := a.Alloc(8)
	if p == nil {
		t.Fatal("Alloc(8) = nil")
	}
	buf := unsafe.Slice((*byte)(p), 8)
	copy(buf, []byte("ABCDEFGH"))

	grown := a.Resize(p, 64)
	if grown == nil {
		t.Fatal("Resize to 64 = nil")
	}
	gbuf := unsafe.Slice((*byte)(grown), 8)
	if string(gbuf) != "ABCDEFGH" {
		t.Fatalf("Resize copied %q, want %q", gbuf, "ABCDEFGH")
	}

	if _, ok := a.blocks[uintptr(p)]; grown != p && ok {
		t.Fatalf("old block still tracked after relocating resize")
	}
}

func TestArenaResizeSameRoundedSizeIsNoop(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	p := a.Alloc(5)
	q := a.Resize(p, 6) // both round up to AllocRoundTo (16)
	if q != p {
		t.Fatalf("Resize within the same rounded size should not relocate: got %p, want %p", q, p)
	}
}

func TestArenaAllocExhaustion(t *testing.T) {
	a, err := New(64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if p := a.Alloc(128); p != nil {
		t.Fatalf("Alloc(128) on a 64-byte arena = %p, want nil", p)
	}
	if got := a.Stats().Failures.Get(); got != 1 {
		t.Fatalf("Failures = %d, want 1", got)
	}
}

func TestArenaReleaseUnknownPointerIsNoop(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	var stray int
	a.Release(unsafe.Pointer(&stray)) // must not panic or corrupt state

	if got := a.Stats().FreeCalls.Get(); got != 0 {
		t.Fatalf("FreeCalls = %d, want 0", got)
	}
}
