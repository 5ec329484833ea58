// Package ref implements reference-counted ownership with deterministic,
// allocator-controlled lifetime. It provides three pointer kinds: Strong
// (a non-nullable owning handle), Weak (a non-owning observer that can be
// upgraded), and Optional (a nullable owning handle whose zero value is
// the empty state).
//
// Every managed object is created through New or NewGated, which place
// the object and its control block in a single allocation from an
// alloc.Allocator. The object is destroyed exactly once, when the last
// strong reference is released; the memory is freed once both the strong
// and weak counts have reached zero.
//
// Handles follow an explicit ownership discipline: plain assignment of a
// Strong, Weak, or Optional value is a borrow and does not touch any
// counter. A new owner calls Clone, and every owner calls Release (or
// Reset) exactly once. The counting itself is lock-free and safe across
// goroutines; the managed object's own data is not synchronized by this
// package.
//
// Reference counting does not detect cycles: a cycle of Strong handles
// keeps itself alive permanently.
package ref
