package alloc

import "unsafe"

// Allocator hands out zeroed blocks of raw memory. Allocate returns a
// block of at least size bytes aligned to align; Deallocate returns a
// block previously obtained from the same allocator, passing back the
// same size the block was requested with.
//
// Allocation failure is not an error value: an allocator that cannot
// satisfy a request panics, and the caller does not retry.
type Allocator interface {
	Allocate(size, align uintptr) unsafe.Pointer
	Deallocate(p unsafe.Pointer, size uintptr)
}

// maxAlign is the largest alignment any Go type requires on supported
// platforms. Heap byte slabs of at least this size satisfy it.
const maxAlign = 8

// HeapAllocator allocates from the Go heap and leaves reclamation to the
// garbage collector. It is the default allocator: deterministic destroy
// still happens through the ref package, only the final memory reuse is
// deferred to the runtime.
type HeapAllocator struct{}

// Heap is the shared Go-heap allocator.
var Heap = &HeapAllocator{}

func (*HeapAllocator) Allocate(size, align uintptr) unsafe.Pointer {
	if align > maxAlign {
		panic("alloc: unsupported alignment")
	}
	if size < maxAlign {
		size = maxAlign
	}
	buf := make([]byte, size)
	return unsafe.Pointer(unsafe.SliceData(buf))
}

// Deallocate is a no-op: the block is unreachable once the last holder
// drops it, and the garbage collector reclaims it.
func (*HeapAllocator) Deallocate(unsafe.Pointer, uintptr) {}
