package ref

import (
	"unsafe"

	"strongref/alloc"
)

// New allocates and constructs a managed object, returning the sole
// owning handle (use count 1). The object and its control block share a
// single allocation from a. Construction is transactional: if init
// panics, the block is returned to the allocator before the panic
// propagates, and no partial object stays reachable.
func New[T any](a alloc.Allocator, init func() T) Strong[T] {
	return newManaged(a, func(Gate) T { return init() })
}

// NewGated is New for types whose constructor demands the construction
// gate. The factory supplies the token; no other caller can.
func NewGated[T any](a alloc.Allocator, init func(Gate) T) Strong[T] {
	return newManaged(a, init)
}

func newManaged[T any](a alloc.Allocator, construct func(Gate) T) Strong[T] {
	var probe box[T]
	size := unsafe.Sizeof(probe)

	// The Go heap gets a typed allocation so the garbage collector scans
	// the payload; raw allocators hand back untyped slab memory.
	var b *box[T]
	var raw unsafe.Pointer
	if _, heap := a.(*alloc.HeapAllocator); heap {
		b = new(box[T])
	} else {
		raw = a.Allocate(size, unsafe.Alignof(probe))
		b = (*box[T])(raw)
	}

	b.info.alloc = a
	b.info.destroy = destroyBox[T]
	b.info.strong.Store(1)
	b.info.weak.Store(1) // the strong cohort's claim, see control

	constructed := false
	defer func() {
		if !constructed && raw != nil {
			a.Deallocate(raw, size)
		}
	}()
	b.object = construct(gateToken{})
	constructed = true

	s := Strong[T]{ctrl: &b.info, ptr: &b.object}
	if binder, ok := any(&b.object).(selfBinder); ok {
		binder.bindSelf(&b.info, unsafe.Pointer(&b.object))
	}
	return s
}
