package ref

import "unsafe"

// Destructor is implemented by managed types that need deterministic
// teardown. Destroy runs exactly once, on the last strong release,
// before the payload memory is zeroed.
type Destructor interface {
	Destroy()
}

// box is the combined allocation: the control block and the managed
// object share one block, so creating an object costs a single allocator
// call and the destroy function can report the combined size.
//
// The control block must stay the first field: a *control doubles as the
// block address on the deallocate path.
type box[T any] struct {
	info   control
	object T
}

// destroyBox is the type-erased destroy function for box[T]. It is a
// plain generic function, not a closure, so the control block never
// keeps heap state alive beyond the block itself.
func destroyBox[T any](block unsafe.Pointer, destruct bool) uintptr {
	if destruct && block != nil {
		b := (*box[T])(block)
		if d, ok := any(&b.object).(Destructor); ok {
			d.Destroy()
		}
		if s, ok := any(&b.object).(selfBinder); ok {
			s.unbindSelf()
		}
		// Zero the payload: stale aliases read zeroes instead of a ghost
		// object, and recycled blocks come back clean.
		var zero T
		b.object = zero
	}
	var probe box[T]
	return unsafe.Sizeof(probe)
}
