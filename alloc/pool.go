package alloc

import (
	"math/bits"
	"sync"
	"unsafe"
)

const (
	// Smallest class skips the runtime's tiny allocator so every slab
	// address is 8-byte aligned.
	minClassShift = 4  // 16 bytes
	maxClassShift = 20 // 1 MiB
	numClasses    = maxClassShift - minClassShift + 1
)

// PoolAllocator recycles freed blocks through power-of-two size classes
// backed by sync.Pool. Requests above the largest class fall through to
// plain heap allocations and are not recycled.
type PoolAllocator struct {
	classes [numClasses]sync.Pool
}

// NewPool creates an empty size-class pool allocator.
func NewPool() *PoolAllocator {
	return &PoolAllocator{}
}

func classFor(size uintptr) int {
	shift := bits.Len(uint(size - 1))
	if shift < minClassShift {
		shift = minClassShift
	}
	if shift > maxClassShift {
		return -1
	}
	return shift - minClassShift
}

func (p *PoolAllocator) Allocate(size, align uintptr) unsafe.Pointer {
	if align > maxAlign {
		panic("alloc: unsupported alignment")
	}
	if size == 0 {
		size = 1
	}
	class := classFor(size)
	if class < 0 {
		buf := make([]byte, size)
		return unsafe.Pointer(unsafe.SliceData(buf))
	}
	if v := p.classes[class].Get(); v != nil {
		return v.(unsafe.Pointer)
	}
	buf := make([]byte, uintptr(1)<<(class+minClassShift))
	return unsafe.Pointer(unsafe.SliceData(buf))
}

// Deallocate zeroes the block and returns it to its size class, so a
// recycled block always comes back as if freshly allocated.
func (p *PoolAllocator) Deallocate(ptr unsafe.Pointer, size uintptr) {
	if ptr == nil {
		return
	}
	if size == 0 {
		size = 1
	}
	class := classFor(size)
	if class < 0 {
		return // oversized blocks go back to the garbage collector
	}
	classSize := uintptr(1) << (class + minClassShift)
	block := unsafe.Slice((*byte)(ptr), classSize)
	clear(block)
	p.classes[class].Put(ptr)
}
