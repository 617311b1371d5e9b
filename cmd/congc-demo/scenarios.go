package main

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/leanheap/congc"
)

// runScenario drives one of the named scenarios against a fresh
// collector and reports its stats to out. Each scenario mirrors one
// of the reachability scenarios documented for the collector package.
func runScenario(out io.Writer, name string, c *congc.Collector) error {
	switch name {
	case "hello":
		return scenarioHello(out, c)
	case "unreachable":
		return scenarioUnreachable(out, c)
	case "leaf":
		return scenarioLeaf(out, c)
	case "root":
		return scenarioRoot(out, c)
	case "resize":
		return scenarioResize(out, c)
	default:
		return fmt.Errorf("%w: %q", errUnknownScenario, name)
	}
}

func scenarioHello(out io.Writer, c *congc.Collector) error {
	ptr := c.Alloc(14)
	if ptr == nil {
		return errArenaExhausted
	}
	buf := (*[14]byte)(ptr)
	copy(buf[:], "Hello, world!")
	fmt.Fprintf(out, "%s No leaks!\n", buf[:13])
	printStats(out, c)
	return nil
}

func scenarioUnreachable(out io.Writer, c *congc.Collector) error {
	freed := false
	ptr := c.AllocOpt(0, func(uintptr) { freed = true }, 32)
	if ptr == nil {
		return errArenaExhausted
	}
	ptr = nil
	_ = ptr

	c.Run()
	fmt.Fprintf(out, "unreachable block collected: %v\n", freed)
	printStats(out, c)
	return nil
}

func scenarioLeaf(out io.Writer, c *congc.Collector) error {
	targetFreed := false
	target := c.AllocOpt(0, func(uintptr) { targetFreed = true }, 16)
	if target == nil {
		return errArenaExhausted
	}

	leaf := c.AllocOpt(congc.Leaf, nil, unsafe.Sizeof(uintptr(0)))
	if leaf == nil {
		return errArenaExhausted
	}
	*(*uintptr)(leaf) = uintptr(target)
	target = nil
	_ = target

	c.Run()
	fmt.Fprintf(out, "leaf-held block collected despite being referenced: %v\n", targetFreed)
	printStats(out, c)
	return nil
}

func scenarioRoot(out io.Writer, c *congc.Collector) error {
	calls := 0
	root := c.AllocOpt(congc.Root, func(uintptr) { calls++ }, 32)
	if root == nil {
		return errArenaExhausted
	}
	root = nil
	_ = root

	c.Run()
	c.Run()
	fmt.Fprintf(out, "root block survived two cycles with no stack reference: %v\n", calls == 0)
	printStats(out, c)
	return nil
}

func scenarioResize(out io.Writer, c *congc.Collector) error {
	const n = 32
	bases := make([]unsafe.Pointer, n)
	for i := 0; i < n; i++ {
		p := c.AllocOpt(congc.Root, nil, uintptr(8+i))
		if p == nil {
			return errArenaExhausted
		}
		bases[i] = p
	}

	grown := c.ResizeOpt(bases[0], congc.Root, nil, 256)
	if grown == nil {
		return errArenaExhausted
	}
	bases[0] = grown

	fmt.Fprintf(out, "grew block 0 to 256 bytes across %d registered blocks\n", n)
	printStats(out, c)
	return nil
}

func printStats(out io.Writer, c *congc.Collector) {
	st := c.Stats()
	fmt.Fprintf(out, "stats = {\n")
	fmt.Fprintf(out, "    total_heap_size (B): %d,\n", st.TotalHeapSize)
	fmt.Fprintf(out, "    live_objects: %d,\n", st.LiveObjects)
	fmt.Fprintf(out, "    live_objects_size (B): %d,\n", st.LiveObjectsSize)
	fmt.Fprintf(out, "}\n")
}
