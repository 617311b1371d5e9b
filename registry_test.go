package congc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func dummyDtor(uintptr) {}

func TestRegistryInsertLookupRemove(t *testing.T) {
	r := newRegistry(0.75, 2)
	r.rehash(8)

	r.insert(0x1000, 16, 0, nil)
	r.insert(0x2000, 32, Root, dummyDtor)

	rec, ok := r.lookup(0x1000)
	if !ok || rec.size != 16 {
		t.Fatalf("lookup(0x1000) = %+v, %v; want size 16, true", rec, ok)
	}
	rec, ok = r.lookup(0x2000)
	if !ok || rec.size != 32 || !rec.flags.has(Root) {
		t.Fatalf("lookup(0x2000) = %+v, %v; want size 32, Root, true", rec, ok)
	}
	if r.count != 2 {
		t.Fatalf("count = %d, want 2", r.count)
	}

	if _, ok := r.remove(0x1000); !ok {
		t.Fatalf("remove(0x1000) = false, want true")
	}
	if r.count != 1 {
		t.Fatalf("count after remove = %d, want 1", r.count)
	}
	if _, ok := r.lookup(0x1000); ok {
		t.Fatalf("lookup(0x1000) after remove = true, want false")
	}
	// the slot left behind must be a tombstone, not empty: lookups for
	// a colliding later key must still be able to walk past it.
	idx := r.find(0x1000)
	if r.slots[idx].state != slotTombstone {
		t.Fatalf("slot after remove has state %v, want slotTombstone", r.slots[idx].state)
	}
}

// TestRegistryTombstoneTermination is property P3: find must terminate
// (and keep finding live keys) once tombstones are present.
func TestRegistryTombstoneTermination(t *testing.T) {
	r := newRegistry(0.75, 2)
	r.rehash(8)

	bases := []uintptr{0x1000, 0x1008, 0x1010, 0x1018, 0x1020, 0x1028}
	for _, b := range bases {
		r.insert(b, 8, 0, nil)
	}
	// remove every other one, leaving tombstones interleaved with live
	// entries that may have probed past them originally.
	for i, b := range bases {
		if i%2 == 0 {
			r.remove(b)
		}
	}
	for i, b := range bases {
		_, ok := r.lookup(b)
		if i%2 == 0 && ok {
			t.Fatalf("lookup(%x) = true after removal", b)
		}
		if i%2 == 1 && !ok {
			t.Fatalf("lookup(%x) = false, want true (live entry lost behind tombstone)", b)
		}
	}
}

func TestRegistryAddressEnvelope(t *testing.T) {
	r := newRegistry(0.75, 2)
	r.rehash(8)

	r.insert(0x3000, 8, 0, nil)
	r.insert(0x1000, 8, 0, nil)
	r.insert(0x5000, 8, 0, nil)

	if r.minptr != 0x1000 {
		t.Fatalf("minptr = %x, want 0x1000", r.minptr)
	}
	if r.maxptr != 0x5000 {
		t.Fatalf("maxptr = %x, want 0x5000", r.maxptr)
	}
}

// TestRegistryRehashPreservesSet is property P7.
func TestRegistryRehashPreservesSet(t *testing.T) {
	r := newRegistry(0.75, 2)
	r.rehash(8)

	type want struct {
		Size  uintptr
		Flags Flags
	}
	wanted := map[uintptr]want{}
	for i := uintptr(0); i < 6; i++ {
		base := 0x10000 + i*0x10
		size := 8 + i
		flags := Flags(0)
		if i%2 == 0 {
			flags = Root
		}
		r.insert(base, size, flags, nil)
		wanted[base] = want{size, flags}
	}
	// force an explicit grow+rehash, as adjust() would.
	r.rehash(r.nextCapacity())

	got := map[uintptr]want{}
	r.forEach(func(_ int, rec *blockRecord) {
		got[rec.base] = want{rec.size, rec.flags}
	})

	if diff := cmp.Diff(wanted, got); diff != "" {
		t.Fatalf("registered set changed across rehash (-want +got):\n%s", diff)
	}
}
