package ref

import (
	"sync"
	"testing"

	"strongref/alloc"
)

func TestWeakDoesNotOwn(t *testing.T) {
	var destroyed int
	s := newWidget(42, &destroyed)

	w := NewWeak(s)
	if got := s.UseCount(); got != 1 {
		t.Errorf("weak creation must not change the strong count, got %d", got)
	}
	if w.Expired() {
		t.Error("weak must not be expired while an owner lives")
	}

	s.Release()
	if destroyed != 1 {
		t.Error("weak must not keep the object alive")
	}
	if !w.Expired() {
		t.Error("weak must report expiry after the last strong release")
	}
	if locked := w.Lock(); locked.HasValue() {
		t.Error("locking an expired weak must yield a disengaged optional")
	}
	w.Release()
}

func TestLockSharesOwnership(t *testing.T) {
	s := newWidget(42, nil)
	w := NewWeak(s)

	locked := w.Lock()
	if !locked.HasValue() {
		t.Fatal("lock on a live object must succeed")
	}
	if got := s.UseCount(); got != 2 {
		t.Errorf("successful lock must take a strong reference, got count %d", got)
	}
	if got := locked.Get().value; got != 42 {
		t.Errorf("expected 42 through the locked handle, got %d", got)
	}

	// The lock keeps the object alive past the original owner.
	s.Release()
	if w.Expired() {
		t.Error("object must stay alive while a locked handle owns it")
	}
	locked.Reset()
	if !w.Expired() {
		t.Error("object must expire once the locked handle is dropped")
	}
	w.Release()
}

func TestEmptyWeak(t *testing.T) {
	var w Weak[widget]
	if !w.Expired() {
		t.Error("zero weak must be expired")
	}
	if got := w.UseCount(); got != 0 {
		t.Errorf("zero weak use count must be 0, got %d", got)
	}
	if locked := w.Lock(); locked.HasValue() {
		t.Error("locking a zero weak must fail")
	}
	w.Release() // no-op

	c := w.Clone()
	if !c.Expired() {
		t.Error("clone of a zero weak must be empty")
	}
}

func TestWeakCloneCountsIndependently(t *testing.T) {
	s := newWidget(1, nil)
	w1 := NewWeak(s)
	w2 := w1.Clone()

	s.Release()
	w1.Release()
	// The block must still be inspectable through the remaining weak.
	if !w2.Expired() {
		t.Error("remaining weak must observe expiry")
	}
	w2.Release()
}

func TestWeakOutlivesObjectOnArena(t *testing.T) {
	// The two-phase teardown made observable: the object dies at the
	// last strong release, but the block is only returned to the arena
	// when the last weak goes away.
	arena := alloc.NewMonotonic(256)
	s := New(arena, func() int64 { return 99 })
	w := NewWeak(s)

	s.Release()
	if got := arena.Live(); got != 1 {
		t.Errorf("block must stay live for the weak holder, got %d", got)
	}
	if !w.Expired() {
		t.Error("weak must observe expiry")
	}

	w.Release()
	if got := arena.Live(); got != 0 {
		t.Errorf("last weak release must free the block, got %d live", got)
	}
	arena.Close()
}

func TestConcurrentLockVsFinalRelease(t *testing.T) {
	const (
		lockers  = 4
		attempts = 1000
		rounds   = 100
	)

	for round := 0; round < rounds; round++ {
		s := New(alloc.Heap, func() widget { return widget{value: 42} })
		w := NewWeak(s)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for g := 0; g < lockers; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := 0; i < attempts; i++ {
					locked := w.Lock()
					if !locked.HasValue() {
						return
					}
					// A successful lock must always find the object
					// intact: destruction zeroes the payload, so any
					// other reading here is a resurrection.
					if got := locked.Get().value; got != 42 {
						t.Errorf("locked a destroyed object: value %d", got)
						locked.Reset()
						return
					}
					locked.Reset()
				}
			}()
		}

		close(start)
		s.Release()
		wg.Wait()

		if !w.Expired() {
			t.Fatal("object must be expired once all owners are gone")
		}
		w.Release()
	}
}
