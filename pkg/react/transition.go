package react

// Transition is the state of a component's transitions during one render.
type Transition struct {
	pending bool
	start   func(func())
}

// UseTransition returns the component's transition state.
func UseTransition(h *Hooks) Transition {
	h.check()
	return Transition{pending: h.inst.transitionPending, start: h.inst.startTransition}
}

// IsPending reports whether a transition started by the component has not
// yet been committed.
func (t Transition) IsPending() bool {
	return t.pending
}

// Start runs fn, marking the state updates it makes as low priority.
func (t Transition) Start(fn func()) {
	if t.start == nil {
		fn()
		return
	}
	t.start(fn)
}
