package ref

import (
	"errors"
	"testing"

	"strongref/alloc"
)

type cell struct {
	value int
}

type engine struct {
	serial int
	core   cell
	banks  [3]cell
}

func newEngine(value int) Strong[engine] {
	return New(alloc.Heap, func() engine {
		return engine{
			serial: value,
			core:   cell{value: value},
			banks:  [3]cell{{value}, {value + 1}, {value + 2}},
		}
	})
}

func TestAliasMemberSharesOwnership(t *testing.T) {
	parent := newEngine(42)

	core := Alias(parent, func(e *engine) *cell { return &e.core })
	if got := core.Get().value; got != 42 {
		t.Errorf("expected aliased member value 42, got %d", got)
	}
	if got := parent.UseCount(); got != 2 {
		t.Errorf("alias must share the parent's count, got %d", got)
	}

	// The alias keeps the whole parent alive on its own.
	parent.Release()
	if got := core.UseCount(); got != 1 {
		t.Errorf("expected count 1 after parent release, got %d", got)
	}
	if got := core.Get().value; got != 42 {
		t.Errorf("aliased member must stay valid, got %d", got)
	}
	core.Release()
}

func TestAliasAtWithinBounds(t *testing.T) {
	parent := newEngine(42)
	defer parent.Release()

	bank, err := AliasAt(parent, func(e *engine) []cell { return e.banks[:] }, 1)
	if err != nil {
		t.Fatalf("in-bounds alias failed: %v", err)
	}
	if got := bank.Get().value; got != 43 {
		t.Errorf("expected element value 43, got %d", got)
	}
	if got := parent.UseCount(); got != 2 {
		t.Errorf("array alias must share the parent's count, got %d", got)
	}
	bank.Release()
}

func TestAliasAtOutOfBounds(t *testing.T) {
	parent := newEngine(42)
	defer parent.Release()

	_, err := AliasAt(parent, func(e *engine) []cell { return e.banks[:] }, 5)
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected *OutOfRangeError, got %v", err)
	}
	if oor.Index != 5 || oor.Capacity != 3 {
		t.Errorf("expected index 5 capacity 3, got %d and %d", oor.Index, oor.Capacity)
	}
	if got := parent.UseCount(); got != 1 {
		t.Errorf("failed alias must not alter any counter, got %d", got)
	}

	if _, err := AliasAt(parent, func(e *engine) []cell { return e.banks[:] }, -1); err == nil {
		t.Error("expected negative index to fail")
	}
}

func TestAliasEqualityIsByAddress(t *testing.T) {
	parent := newEngine(1)
	defer parent.Release()

	first, err := AliasAt(parent, func(e *engine) []cell { return e.banks[:] }, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Release()
	core := Alias(parent, func(e *engine) *cell { return &e.core })
	defer core.Release()

	// Same control block, different addresses: not equal.
	if first.Equal(core) {
		t.Error("aliases to different members must not compare equal")
	}
	again := Alias(parent, func(e *engine) *cell { return &e.core })
	defer again.Release()
	if !core.Equal(again) {
		t.Error("aliases to the same member must compare equal")
	}
	if Same(parent, first) {
		t.Error("parent and element alias expose different addresses")
	}
}
