package ref

import "strongref/alloc"

// Optional is a nullable owning handle: either disengaged or holding a
// valid strong reference. It has the same two-field footprint as Strong;
// engagement is derived solely from the zero value, with no separate
// flag — a valid Strong pair is never all-zero, so the zero value is
// unambiguously the empty state.
//
// An engaged Optional owns one strong reference and must be Reset (or
// have its ownership taken with Strong) exactly once.
type Optional[T any] struct {
	ctrl *control
	ptr  *T
}

// None returns a disengaged Optional. Equivalent to Optional[T]{}.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// NewOptional wraps s in an engaged Optional. The Optional takes its own
// strong reference; s remains owned by the caller.
func NewOptional[T any](s Strong[T]) Optional[T] {
	s.check()
	s.ctrl.addStrong()
	return Optional[T]{ctrl: s.ctrl, ptr: s.ptr}
}

// HasValue reports whether the Optional is engaged.
func (o Optional[T]) HasValue() bool {
	return o.ctrl != nil
}

// Value borrows the contained strong handle. It panics with
// *BadOptionalAccessError when disengaged; no counter moves either way.
// The borrow is valid while this Optional stays engaged.
func (o Optional[T]) Value() Strong[T] {
	if o.ctrl == nil {
		panic(&BadOptionalAccessError{Source: o})
	}
	return Strong[T]{ctrl: o.ctrl, ptr: o.ptr}
}

// Strong converts to an owning Strong handle, incrementing the strong
// count for the returned copy. Panics with *BadOptionalAccessError when
// disengaged.
func (o Optional[T]) Strong() Strong[T] {
	return o.Value().Clone()
}

// TryStrong is Strong in comma-ok form: it returns an owning handle and
// true when engaged, and a zero Strong and false otherwise.
func (o Optional[T]) TryStrong() (Strong[T], bool) {
	if o.ctrl == nil {
		return Strong[T]{}, false
	}
	return o.Value().Clone(), true
}

// Get borrows the managed object, panicking with *BadOptionalAccessError
// when disengaged.
func (o Optional[T]) Get() *T {
	if o.ctrl == nil {
		panic(&BadOptionalAccessError{Source: o})
	}
	return o.ptr
}

// Reset disengages the Optional, releasing its strong reference.
// Resetting a disengaged Optional is a no-op.
func (o *Optional[T]) Reset() {
	if o.ctrl == nil {
		return
	}
	c := o.ctrl
	o.ctrl, o.ptr = nil, nil
	c.releaseStrong()
}

// Set replaces the contents with a reference to s's object. The new
// reference is taken before the old one is dropped, so setting an
// Optional to the object it already holds is safe.
func (o *Optional[T]) Set(s Strong[T]) {
	s.check()
	s.ctrl.addStrong()
	old := *o
	o.ctrl, o.ptr = s.ctrl, s.ptr
	old.Reset()
}

// Emplace resets the Optional and constructs a fresh managed object in
// its place, returning a borrow of the new contents. The Optional owns
// the sole reference to the new object.
func (o *Optional[T]) Emplace(a alloc.Allocator, init func() T) Strong[T] {
	o.Reset()
	s := New(a, init)
	o.ctrl, o.ptr = s.ctrl, s.ptr
	return s
}

// Swap exchanges the contents of two Optionals without touching any
// counter. Either or both may be disengaged.
func (o *Optional[T]) Swap(p *Optional[T]) {
	o.ctrl, p.ctrl = p.ctrl, o.ctrl
	o.ptr, p.ptr = p.ptr, o.ptr
}

// Equal reports whether both Optionals are disengaged, or both engaged
// and resolving to the same object address. A disengaged Optional equals
// None in either operand position.
func (o Optional[T]) Equal(p Optional[T]) bool {
	if o.ctrl == nil && p.ctrl == nil {
		return true
	}
	if (o.ctrl == nil) != (p.ctrl == nil) {
		return false
	}
	return o.ptr == p.ptr
}
