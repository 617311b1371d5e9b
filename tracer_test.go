package congc

import (
	"testing"
	"unsafe"
)

// TestMarkCandidateRespectsEnvelope is property P2: a word outside
// [minptr, maxptr] must never reach the registry lookup.
func TestMarkCandidateRespectsEnvelope(t *testing.T) {
	back := newFakeBacking()
	c := New(back, DefaultConfig())
	var stackBottom int
	c.Init(unsafe.Pointer(&stackBottom))

	root := c.AllocOpt(Root, nil, 8)
	if root == nil {
		t.Fatal("alloc failed")
	}

	below := c.reg.minptr - 1
	above := c.reg.maxptr + 1

	c.markCandidate(below)
	c.markCandidate(above)
	c.drainMarkWork()

	// neither call should have touched the registry: the root block's
	// own mark bit must only be set by markRoots, not by these calls.
	rec, ok := c.reg.lookup(uintptr(root))
	if !ok {
		t.Fatal("root block missing from registry")
	}
	if rec.flags.has(mark) {
		t.Fatalf("markCandidate marked a block via an out-of-envelope address")
	}
}

// TestIdempotentRun is the "idempotent run" law: running a cycle twice
// in a row on an unchanged reachability graph leaves the same set of
// live blocks as running it once.
func TestIdempotentRun(t *testing.T) {
	back := newFakeBacking()
	c := New(back, DefaultConfig())
	var stackBottom int
	c.Init(unsafe.Pointer(&stackBottom))

	c.AllocOpt(Root, nil, 8)
	c.AllocOpt(Root, nil, 16)

	c.Run()
	first := c.Stats()
	c.Run()
	second := c.Stats()

	if first != second {
		t.Fatalf("Run(); Run() stats diverged: %+v vs %+v", first, second)
	}

	c.reg.forEach(func(_ int, rec *blockRecord) {
		if rec.flags.has(mark) {
			t.Fatalf("block left marked after Run(): %+v", rec)
		}
	})
	c.End()
}
