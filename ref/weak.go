package ref

// Weak is a non-owning observer of a managed object. It keeps the
// control block alive but not the object: once the last strong handle is
// released the object is destroyed whether or not weak observers remain.
// The zero value is a valid empty Weak.
//
// Like Strong, plain assignment is a borrow; Clone mints a new observer
// and every observer calls Release exactly once.
type Weak[T any] struct {
	ctrl *control
	ptr  *T
}

// NewWeak creates a weak observer of s. The strong count is unchanged.
func NewWeak[T any](s Strong[T]) Weak[T] {
	s.check()
	s.ctrl.addWeak()
	return Weak[T]{ctrl: s.ctrl, ptr: s.ptr}
}

// Clone returns a new observer of the same object. Cloning an empty Weak
// yields an empty Weak.
func (w Weak[T]) Clone() Weak[T] {
	if w.ctrl == nil {
		return Weak[T]{}
	}
	w.ctrl.addWeak()
	return w
}

// Release drops this observer. Releasing an empty Weak is a no-op; the
// handle is zeroed so a second Release cannot double-count.
func (w *Weak[T]) Release() {
	if w.ctrl == nil {
		return
	}
	c := w.ctrl
	w.ctrl, w.ptr = nil, nil
	c.releaseWeak()
}

// Expired reports whether the observed object is gone (or this Weak is
// empty). A false result is advisory: the object can expire immediately
// after; use Lock to act on a live object.
func (w Weak[T]) Expired() bool {
	return w.ctrl == nil || w.ctrl.curStrong() == 0
}

// UseCount reads the observed object's strong counter (0 when empty or
// expired). Advisory, like Strong.UseCount.
func (w Weak[T]) UseCount() int32 {
	if w.ctrl == nil {
		return 0
	}
	return w.ctrl.curStrong()
}

// Lock attempts to upgrade this observer to an owner. On success the
// returned Optional is engaged and owns a strong reference that keeps
// the object alive until the caller resets or releases it; if the object
// is already gone the Optional is disengaged. The upgrade never
// resurrects an object whose destruction has begun.
func (w Weak[T]) Lock() Optional[T] {
	if w.ctrl == nil {
		return Optional[T]{}
	}
	if !w.ctrl.tryAddStrong() {
		return Optional[T]{}
	}
	return Optional[T]{ctrl: w.ctrl, ptr: w.ptr}
}

// Swap exchanges two observers without touching any counter.
func (w *Weak[T]) Swap(o *Weak[T]) {
	w.ctrl, o.ctrl = o.ctrl, w.ctrl
	w.ptr, o.ptr = o.ptr, w.ptr
}
