package react

// State is a persistent cell whose mutations re-render the component.
//
// Mutations apply immediately: a read right after Set observes the new
// value. The re-render itself is scheduled by the runtime and happens later.
type State[T any] struct {
	ref  *RefContainer[T]
	inst *instance
}

// UseState returns the instance's state cell at this call site, calling
// init to create its value on the first render.
func UseState[T any](h *Hooks, init func() T) *State[T] {
	key := h.key()
	return lookup(h, key, kindState, func(c *cell) *State[T] {
		return &State[T]{ref: newRef(c, init), inst: h.inst}
	})
}

// Value returns the current state.
func (s *State[T]) Value() T {
	return s.ref.Current()
}

// Current returns the current state. It lets State satisfy Reader.
func (s *State[T]) Current() T {
	return s.ref.Current()
}

// Set replaces the state with fn applied to the current state.
func (s *State[T]) Set(fn func(T) T) {
	s.ref.Update(func(v *T) { *v = fn(*v) })
	s.inst.rerender()
}

// Update mutates the state in place.
func (s *State[T]) Update(fn func(*T)) {
	s.ref.Update(fn)
	s.inst.rerender()
}

// Replace sets the state to v.
func (s *State[T]) Replace(v T) {
	s.ref.Set(v)
	s.inst.rerender()
}

// Alive reports whether the owning component is still mounted.
func (s *State[T]) Alive() bool {
	return s.ref.Alive()
}

func (s *State[T]) releaseValue() {
	s.ref.releaseValue()
}
