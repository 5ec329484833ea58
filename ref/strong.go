package ref

import "unsafe"

// Strong is a non-nullable owning handle to a managed object. The zero
// value is invalid: a Strong is only obtained from New, NewGated, Clone,
// an alias constructor, or an engaged Optional.
//
// Plain assignment copies the handle without counting and yields a
// borrow; Clone mints a new owner. There is no ownership-transferring
// move: the source of any assignment stays valid, so a transferred-from
// handle can never dangle.
type Strong[T any] struct {
	ctrl *control
	ptr  *T
}

func (s Strong[T]) check() {
	if s.ctrl == nil || s.ptr == nil {
		panic("ref: use of zero Strong")
	}
}

// Clone returns a new owning handle to the same object and increments
// the strong count. The caller of Clone owns the result and must release
// it.
func (s Strong[T]) Clone() Strong[T] {
	s.check()
	s.ctrl.addStrong()
	return s
}

// Release drops this handle's ownership. On the last release the object
// is destroyed; the block is freed once no weak observers remain. The
// handle is zeroed so a second Release panics instead of corrupting the
// count.
func (s *Strong[T]) Release() {
	s.check()
	c := s.ctrl
	s.ctrl, s.ptr = nil, nil
	c.releaseStrong()
}

// Get borrows the managed object. The pointer is valid for as long as
// this handle (or any other strong handle to the object) is live.
func (s Strong[T]) Get() *T {
	s.check()
	return s.ptr
}

// UseCount reads the strong counter. The value is advisory: it can be
// stale by the time the caller looks at it and must not be used for
// lifetime decisions.
func (s Strong[T]) UseCount() int32 {
	s.check()
	return s.ctrl.curStrong()
}

// Swap exchanges two handles without touching any counter.
func (s *Strong[T]) Swap(o *Strong[T]) {
	s.ctrl, o.ctrl = o.ctrl, s.ctrl
	s.ptr, o.ptr = o.ptr, s.ptr
}

// Equal reports whether both handles resolve to the same object address.
// An alias into a parent compares by the address it exposes, not by the
// control block it shares.
func (s Strong[T]) Equal(o Strong[T]) bool {
	return s.ptr == o.ptr
}

// Same reports whether two handles of different element types resolve to
// the same address, e.g. a parent handle and an alias to its first
// member.
func Same[T, U any](a Strong[T], b Strong[U]) bool {
	return unsafe.Pointer(a.ptr) == unsafe.Pointer(b.ptr)
}
