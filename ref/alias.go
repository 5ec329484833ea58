package ref

// Alias returns a strong handle to a member of the object managed by
// parent. The result shares the parent's control block, so the whole
// parent stays alive while only the member's address is exposed.
//
// The accessor must return the address of a member (or sub-member) of
// its argument; this accessor-only surface is deliberate — there is no
// way to alias an arbitrary address, which is the classic unsafe escape
// hatch of general shared-ownership pointers.
func Alias[T, M any](parent Strong[T], member func(*T) *M) Strong[M] {
	parent.check()
	m := member(parent.ptr)
	if m == nil {
		panic("ref: alias accessor returned nil")
	}
	parent.ctrl.addStrong()
	return Strong[M]{ctrl: parent.ctrl, ptr: m}
}

// AliasAt returns a strong handle to element index of a fixed-capacity
// member of the parent, with the member exposed as a slice by the
// accessor (arr[:] for an array member). An index outside the member's
// capacity fails with *OutOfRangeError before any counter is touched.
func AliasAt[T, E any](parent Strong[T], elems func(*T) []E, index int) (Strong[E], error) {
	parent.check()
	s := elems(parent.ptr)
	if index < 0 || index >= len(s) {
		return Strong[E]{}, &OutOfRangeError{Index: index, Capacity: len(s)}
	}
	parent.ctrl.addStrong()
	return Strong[E]{ctrl: parent.ctrl, ptr: &s[index]}, nil
}
