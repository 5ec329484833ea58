package ref

import "unsafe"

// selfBinder is how the factory and the destroy path find the mixin
// inside a managed object without knowing its concrete type.
type selfBinder interface {
	bindSelf(c *control, obj unsafe.Pointer)
	unbindSelf()
}

// SelfRef lets a managed type obtain references to itself. Embed it by
// pointer-receiver convention:
//
//	type driver struct {
//		ref.SelfRef[driver]
//		...
//	}
//
// The factory wires the mixin immediately after construction — never the
// object's own constructor, which runs before any strong handle to the
// object exists. An instance that was not produced by the factory (or
// was plain-copied from a managed one) reports *BadWeakRefError rather
// than referencing the copy source: the self-reference of an instance
// always points to that instance or to nothing.
type SelfRef[T any] struct {
	self Weak[T]
	// bound is this mixin's own address, set only by the factory. A
	// struct copy carries the source's address and is thereby detected
	// as unmanaged.
	bound *SelfRef[T]
}

// StrongFromThis returns an owning handle to the object itself. It fails
// with *BadWeakRefError if the object is not currently managed by a live
// strong handle — e.g. it was constructed outside the factory, or the
// last owner released it while this call raced the teardown.
func (s *SelfRef[T]) StrongFromThis() (Strong[T], error) {
	if s.bound != s {
		return Strong[T]{}, &BadWeakRefError{Source: s}
	}
	locked := s.self.Lock()
	if !locked.HasValue() {
		return Strong[T]{}, &BadWeakRefError{Source: s}
	}
	// The lock's strong reference transfers to the returned handle.
	return Strong[T]{ctrl: locked.ctrl, ptr: locked.ptr}, nil
}

// WeakFromThis returns an observer of the object itself, or an empty
// Weak if the object is not factory-managed.
func (s *SelfRef[T]) WeakFromThis() Weak[T] {
	if s.bound != s {
		return Weak[T]{}
	}
	return s.self.Clone()
}

func (s *SelfRef[T]) bindSelf(c *control, obj unsafe.Pointer) {
	// Overwrite, never release: if the constructor copied another
	// managed object into this one, the stored weak belongs to the copy
	// source and was never cloned for us.
	c.addWeak()
	s.self = Weak[T]{ctrl: c, ptr: (*T)(obj)}
	s.bound = s
}

func (s *SelfRef[T]) unbindSelf() {
	if s.bound != s {
		return
	}
	s.bound = nil
	s.self.Release()
}
