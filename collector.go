package congc

import (
	"unsafe"
)

// Config holds the tunables spec.md §6 calls out as "not runtime
// options in the reference but legal to expose": the registry's load
// factor and growth multiplier.
type Config struct {
	// LoadFactor is the maximum occupied/capacity ratio before a
	// cycle-and-maybe-grow is triggered. Default 0.75.
	LoadFactor float64
	// GrowFactor is the integer multiplier applied to capacity when
	// growth is needed. The reference stores this as a float but uses
	// it as an integer multiplier; spec.md §9's Open Question resolves
	// in favor of making that explicit. Default 2.
	GrowFactor int
}

// DefaultConfig returns the reference collector's tunables.
func DefaultConfig() Config {
	return Config{LoadFactor: 0.75, GrowFactor: 2}
}

func (cfg Config) normalized() Config {
	d := DefaultConfig()
	if cfg.LoadFactor <= 0 || cfg.LoadFactor >= 1 {
		cfg.LoadFactor = d.LoadFactor
	}
	if cfg.GrowFactor < 2 {
		cfg.GrowFactor = d.GrowFactor
	}
	return cfg
}

// Collector is the embeddable garbage collector described by spec.md:
// a Registry, an allocator façade, a conservative Tracer and a
// Sweeper, composed into one object parameterized over a backing
// allocator (per spec.md §9's re-architecture guidance, the process
// singleton the original demo uses is an embedding concern, not part
// of this type).
//
// Collector is single-threaded and not reentrant (spec.md §5): the
// host must not call its methods from multiple goroutines
// concurrently, nor from a destructor invoked during Sweep.
type Collector struct {
	reg      registry
	backing  BackingAllocator
	cfg      Config

	stackBottom uintptr
	paused      bool
	sweeping    bool

	markWork []uintptr
}

// New constructs a Collector bound to backing, with the given
// tunables. The Collector is not usable until Init is called.
func New(backing BackingAllocator, cfg Config) *Collector {
	cfg = cfg.normalized()
	return &Collector{
		backing: backing,
		cfg:     cfg,
		reg:     newRegistry(cfg.LoadFactor, cfg.GrowFactor),
	}
}

// Init resets the collector to its post-construction state and
// records stackBottom as the lower (or upper, depending on stack
// growth direction) bound of the conservative stack scan. stackBottom
// should be the address of a variable in, or below, the shallowest
// frame from which the collector will later be used (spec.md §6).
//
// The host must call Init exactly once before any other operation.
func (c *Collector) Init(stackBottom unsafe.Pointer) {
	c.reg = newRegistry(c.cfg.LoadFactor, c.cfg.GrowFactor)
	c.stackBottom = uintptr(stackBottom)
	c.paused = false
	c.markWork = c.markWork[:0]
}

// End reclaims every live block without tracing: every occupied
// record has its destructor invoked and its storage released, exactly
// once, and the registry is freed. The collector returns to the
// post-Init state (spec.md §4.5, property P8).
//
// The host must call End exactly once after the final operation.
func (c *Collector) End() {
	c.reg.forEach(func(_ int, rec *blockRecord) {
		if rec.dtor != nil {
			rec.dtor(rec.base)
		}
		c.backing.Release(unsafe.Pointer(rec.base))
	})
	c.reg = newRegistry(c.cfg.LoadFactor, c.cfg.GrowFactor)
	c.paused = false
}

// Run performs an explicit full mark-and-sweep cycle. It still
// collects while paused: Pause only suppresses the automatic cycle
// inside adjust, per spec.md §5 and the Open Question in §9 that the
// reference's behavior here is preserved intentionally.
func (c *Collector) Run() {
	c.cycle()
}

// Pause suppresses automatic collection inside adjust. It is not a
// cancellation of an in-flight cycle.
func (c *Collector) Pause() {
	c.paused = true
}

// Resume re-enables automatic collection inside adjust.
func (c *Collector) Resume() {
	c.paused = false
}

// cycle runs one mark-then-sweep pass (spec.md §5 ordering: marking
// completes before sweeping begins).
func (c *Collector) cycle() {
	c.mark()
	c.sweep()
}

// adjust is the single entry point that combines collection and
// growth, per spec.md §4.1 "Adjust policy":
//  1. if not paused and capacity > 0, run a full cycle first;
//  2. if occupancy is still low relative to capacity, stop;
//  3. otherwise grow to max(8, capacity*growFactor) and rehash.
func (c *Collector) adjust() {
	if !c.paused && c.reg.capacity() > 0 {
		c.cycle()
	}
	if !c.reg.shouldGrow() {
		return
	}
	c.reg.rehash(c.reg.nextCapacity())
}
