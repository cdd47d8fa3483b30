package react

type memoSlot[T any, D comparable] struct {
	value    T
	deps     Deps[D]
	computed bool
}

// UseMemo returns fn's result, recomputing it during render only when deps
// say so.
func UseMemo[T any, D comparable](h *Hooks, fn func() T, deps Deps[D]) T {
	key := h.key()
	s := lookup(h, key, kindMemo, func(*cell) *memoSlot[T, D] {
		return &memoSlot[T, D]{}
	})
	if !s.computed || deps.changedFrom(s.deps) {
		s.value = fn()
		s.deps = deps
		s.computed = true
	}
	return s.value
}

type callbackSlot[A, R any, D comparable] struct {
	cb   *Callback[A, R]
	deps Deps[D]
}

// UseCallback returns a callback calling fn. The same *Callback is returned
// while deps are unchanged; a new one when they change. Callbacks created
// here are bound to the instance: replaced ones are torn down after the next
// commit and the current one when the component unmounts.
func UseCallback[A, R any, D comparable](h *Hooks, fn func(A) R, deps Deps[D]) *Callback[A, R] {
	key := h.key()
	inst := h.inst
	s := lookup(h, key, kindCallback, func(*cell) *callbackSlot[A, R, D] {
		return &callbackSlot[A, R, D]{}
	})
	if s.cb != nil && !deps.changedFrom(s.deps) {
		return s.cb
	}
	if s.cb != nil {
		inst.unbind(s.cb)
		inst.retired = append(inst.retired, s.cb)
	}
	s.cb = NewCallback(fn)
	s.deps = deps
	inst.bind(s.cb)
	return s.cb
}
