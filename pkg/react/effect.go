package react

// effectSlot is the non-generic part of an effect cell. It is what the
// instance flushes after commit.
type effectSlot struct {
	key    string
	layout bool

	pending  bool
	hasRun   bool
	body     func() func()
	teardown func()

	// next and committed hold Deps[D] for the pending and last run.
	next      any
	committed any
}

func (e *effectSlot) phase() string {
	if e.layout {
		return "layout"
	}
	return "passive"
}

// UseEffect runs fn after the render is committed, when deps say so. The
// function fn returns, if not nil, runs before the next run of fn and when
// the component unmounts.
//
//	react.UseEffect(h, func() func() {
//	    stop := subscribe(id)
//	    return stop
//	}, react.Some(id))
func UseEffect[D comparable](h *Hooks, fn func() func(), deps Deps[D]) {
	useEffect(h, h.key(), kindEffect, fn, deps)
}

// UseLayoutEffect is UseEffect run synchronously after layout, before the
// browser paints.
func UseLayoutEffect[D comparable](h *Hooks, fn func() func(), deps Deps[D]) {
	useEffect(h, h.key(), kindLayoutEffect, fn, deps)
}

func useEffect[D comparable](h *Hooks, key string, kind hookKind, fn func() func(), deps Deps[D]) {
	inst := h.inst
	e := lookup(h, key, kind, func(*cell) *effectSlot {
		s := &effectSlot{key: key, layout: kind == kindLayoutEffect}
		inst.effects = append(inst.effects, s)
		return s
	})

	run := !e.hasRun
	if !run {
		prev, ok := e.committed.(Deps[D])
		if !ok {
			panic(inst.b.misuse(CodeTypeMismatch, inst, key, "effect dependency type changed"))
		}
		run = deps.changedFrom(prev)
	}

	if !run {
		e.pending = false
		e.body = nil
		return
	}
	e.pending = true
	e.body = fn
	e.next = deps
	if e.layout {
		inst.layoutGen++
	} else {
		inst.passiveGen++
	}
}

// unmountSlot holds the latest function passed to OnUnmount at one site.
type unmountSlot struct {
	fn func()
}

// OnUnmount registers fn to run when the component unmounts, after the
// effect teardowns. Only the fn passed during the latest render runs.
func OnUnmount(h *Hooks, fn func()) {
	key := h.key()
	s := lookup(h, key, kindUnmount, func(*cell) *unmountSlot {
		return &unmountSlot{}
	})
	s.fn = fn
}
