package alloc

import (
	"fmt"
	"sync"
	"unsafe"
)

// Monotonic is a fixed-capacity bump allocator. Allocations carve
// aligned regions out of a single buffer and are never reused;
// Deallocate only balances the outstanding count. Exhaustion panics, as
// does closing the arena while allocations are still live.
type Monotonic struct {
	mu   sync.Mutex
	buf  []byte
	off  uintptr
	live int
}

// NewMonotonic creates an arena with the given capacity in bytes.
func NewMonotonic(capacity int) *Monotonic {
	return &Monotonic{buf: make([]byte, capacity)}
}

func (m *Monotonic) Allocate(size, align uintptr) unsafe.Pointer {
	if align == 0 || align&(align-1) != 0 {
		panic("alloc: alignment must be a power of two")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	base := uintptr(unsafe.Pointer(unsafe.SliceData(m.buf)))
	start := (base + m.off + align - 1) &^ (align - 1)
	end := start - base + size
	if end > uintptr(len(m.buf)) {
		panic(fmt.Sprintf("alloc: monotonic arena exhausted: need %d bytes, %d of %d used",
			size, m.off, len(m.buf)))
	}
	m.off = end
	m.live++
	return unsafe.Pointer(unsafe.SliceData(m.buf[start-base:]))
}

// Deallocate does not reclaim space; it only retires the allocation so
// Close can verify nothing is still live.
func (m *Monotonic) Deallocate(_ unsafe.Pointer, _ uintptr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live--
	if m.live < 0 {
		panic("alloc: monotonic arena deallocated more blocks than it issued")
	}
}

// Used reports the number of buffer bytes consumed so far.
func (m *Monotonic) Used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.off)
}

// Live reports the number of outstanding allocations.
func (m *Monotonic) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

// Close releases the arena. Closing with outstanding allocations is a
// lifetime bug in the caller and panics.
func (m *Monotonic) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live != 0 {
		panic(fmt.Sprintf("alloc: monotonic arena closed with %d live allocations", m.live))
	}
	m.buf = nil
	m.off = 0
}
