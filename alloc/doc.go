// Package alloc provides the allocator contract consumed by the ref
// package, plus three implementations: the Go heap, a fixed-capacity
// monotonic arena, and a size-class recycling pool.
//
// Blocks handed out by Monotonic and PoolAllocator live inside
// allocator-owned byte slabs. The garbage collector does not scan those
// slabs, so payloads stored in them must not contain Go pointers. Heap
// has no such restriction when used through the ref factory, which takes
// a typed allocation path for it.
package alloc
