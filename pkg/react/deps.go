package react

type depsKind uint8

const (
	depsSome depsKind = iota
	depsAll
	depsNone
)

// NoDeps is the dependency type of DepsAll and DepsNone.
type NoDeps struct{}

// Deps tells an effect, memo or callback when to recompute.
type Deps[D comparable] struct {
	kind  depsKind
	value D
}

// All recomputes on every render.
func All[D comparable]() Deps[D] {
	return Deps[D]{kind: depsAll}
}

// None computes on the first render only.
func None[D comparable]() Deps[D] {
	return Deps[D]{kind: depsNone}
}

// Some recomputes whenever d differs from its value at the previous
// computation. Comparison uses ==, so an interface-typed D holding an
// uncomparable value panics.
func Some[D comparable](d D) Deps[D] {
	return Deps[D]{kind: depsSome, value: d}
}

// Shorthands for hooks that need no dependency value.
var (
	DepsAll  = All[NoDeps]()
	DepsNone = None[NoDeps]()
)

// changedFrom reports whether d asks for recomputation given the
// dependencies of the previous computation.
func (d Deps[D]) changedFrom(prev Deps[D]) bool {
	switch d.kind {
	case depsAll:
		return true
	case depsNone:
		return false
	}
	return prev.kind != depsSome || prev.value != d.value
}
