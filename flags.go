package congc

// Flags is a small bitset attached to every registered block.
type Flags uint8

const (
	// Root marks a block as always reachable: it is marked at the
	// start of every cycle and, unless also Leaf, its contents are
	// traced.
	Root Flags = 1 << iota
	// Leaf marks a block as containing no pointers of interest; its
	// bytes are never scanned, even when marked.
	Leaf

	// mark is transient collector-internal state: set during trace,
	// cleared during sweep. Hosts never set it directly.
	mark
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }
