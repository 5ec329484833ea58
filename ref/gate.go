package ref

// Gate restricts construction of a managed type to the factory. A
// constructor declared as func(ref.Gate, ...) T can only be driven
// through NewGated: the interface has an unexported method, so no other
// package can implement it, and only the factory mints token values.
type Gate interface {
	managedConstruction()
}

type gateToken struct{}

func (gateToken) managedConstruction() {}
