package ref

import "fmt"

// OutOfRangeError reports an aliasing request for an element index
// outside the member's capacity.
type OutOfRangeError struct {
	Index    int
	Capacity int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("ref: alias index %d out of range (capacity %d)", e.Index, e.Capacity)
}

// BadWeakRefError reports a self-reference request on an object that is
// not currently managed by a live Strong handle. Source identifies the
// mixin that raised it.
type BadWeakRefError struct {
	Source any
}

func (e *BadWeakRefError) Error() string {
	return "ref: object is not managed by a live strong reference"
}

// BadOptionalAccessError reports access through a disengaged Optional.
// Source identifies the Optional that raised it.
type BadOptionalAccessError struct {
	Source any
}

func (e *BadOptionalAccessError) Error() string {
	return "ref: access through a disengaged optional"
}
