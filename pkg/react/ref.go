package react

// RefContainer is a persistent cell owned by a component instance. The same
// container is returned on every render at the same hook key. Writing to it
// does not re-render the component.
type RefContainer[T any] struct {
	c     *cell
	value T
}

// UseRef returns the instance's cell at this call site, calling init to
// create its value on the first render.
func UseRef[T any](h *Hooks, init func() T) *RefContainer[T] {
	key := h.key()
	return lookup(h, key, kindRef, func(c *cell) *RefContainer[T] {
		return newRef(c, init)
	})
}

func newRef[T any](c *cell, init func() T) *RefContainer[T] {
	r := &RefContainer[T]{c: c}
	if init != nil {
		r.value = init()
	}
	return r
}

// Current returns the cell's value.
func (r *RefContainer[T]) Current() T {
	r.c.live("Current")
	return r.value
}

// Set replaces the cell's value.
func (r *RefContainer[T]) Set(v T) {
	r.c.borrow("Set")
	r.value = v
	r.c.unborrow()
}

// Update mutates the cell's value in place. Calling Set or Update on the
// same cell from inside fn panics.
func (r *RefContainer[T]) Update(fn func(*T)) {
	r.c.borrow("Update")
	defer r.c.unborrow()
	fn(&r.value)
}

// Token returns a lifetime token naming this cell in the bridge's handle
// table. The token is released when the component unmounts.
func (r *RefContainer[T]) Token() Token {
	r.c.live("Token")
	if r.c.token == 0 {
		r.c.token = r.c.inst.b.handles.Register(r)
	}
	return r.c.token
}

// Alive reports whether the owning component is still mounted.
func (r *RefContainer[T]) Alive() bool {
	return !r.c.dead
}

func (r *RefContainer[T]) releaseValue() {
	if rel, ok := any(r.value).(Releaser); ok {
		rel.Release()
	}
	var zero T
	r.value = zero
}
