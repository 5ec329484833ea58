package ref

import (
	"sync/atomic"
	"unsafe"

	"strongref/alloc"
)

// destroyFn tears down and measures one combined allocation. It always
// returns the total size of the block (control block plus object). When
// destruct is true it also runs the payload's teardown; the measure-only
// form serves the deallocate path taken by the last weak release, after
// the object is already gone.
type destroyFn func(block unsafe.Pointer, destruct bool) uintptr

// control is the shared bookkeeping record for one managed object. It
// sits at offset zero of the combined allocation, so a *control is also
// the address of the block it lives in.
//
// The weak count carries one extra claim on behalf of the strong cohort,
// dropped after the object is destroyed. Routing the final free through
// a single counter this way means exactly one releaser frees the block,
// with no window for a strong and a weak release to both observe "the
// other side is gone". Observable behavior is unchanged: the object dies
// at the last strong release, the memory at the last release of either
// kind.
//
// Go's sync/atomic is sequentially consistent, which subsumes the
// relaxed increments and acquire-release decrements a weaker memory
// model would need here.
type control struct {
	alloc   alloc.Allocator
	destroy destroyFn
	strong  atomic.Int32
	weak    atomic.Int32
}

func (c *control) addStrong() {
	if c.strong.Add(1) <= 1 {
		panic("ref: strong count incremented after reaching zero")
	}
}

func (c *control) releaseStrong() {
	n := c.strong.Add(-1)
	switch {
	case n < 0:
		panic("ref: strong count released below zero")
	case n == 0:
		// Last owner: destroy the object, then drop the cohort's weak
		// claim. The block itself survives while weak observers remain.
		c.destroy(unsafe.Pointer(c), true)
		c.releaseWeak()
	}
}

func (c *control) addWeak() {
	if c.weak.Add(1) <= 1 {
		panic("ref: weak count incremented after block release")
	}
}

func (c *control) releaseWeak() {
	n := c.weak.Add(-1)
	switch {
	case n < 0:
		panic("ref: weak count released below zero")
	case n == 0:
		// Both counts are zero; whoever got here frees the block. The
		// size comes back through the measure-only destroy path so it
		// never needs to be stored separately.
		size := c.destroy(unsafe.Pointer(c), false)
		a := c.alloc
		a.Deallocate(unsafe.Pointer(c), size)
	}
}

// curStrong is an advisory read; it does not synchronize with releases.
func (c *control) curStrong() int32 {
	return c.strong.Load()
}

// tryAddStrong attempts the weak-to-strong upgrade: a compare-and-retry
// loop that only moves the count v to v+1 for v > 0. Blindly
// incrementing first could resurrect a count that already reached zero
// while destruction is underway; the CAS closes that window. The loop
// terminates because each failed attempt observes either a larger value
// (another lock won) or a smaller one falling toward zero.
func (c *control) tryAddStrong() bool {
	for n := c.strong.Load(); n > 0; n = c.strong.Load() {
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
	return false
}
