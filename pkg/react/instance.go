package react

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// hookKind identifies which hook owns a cell.
type hookKind uint8

const (
	kindRef hookKind = iota + 1
	kindState
	kindMemo
	kindEffect
	kindLayoutEffect
	kindCallback
	kindDeferred
	kindID
	kindUnmount
)

// String returns a human-readable name for the hook kind.
func (k hookKind) String() string {
	switch k {
	case kindRef:
		return "Ref"
	case kindState:
		return "State"
	case kindMemo:
		return "Memo"
	case kindEffect:
		return "Effect"
	case kindLayoutEffect:
		return "LayoutEffect"
	case kindCallback:
		return "Callback"
	case kindDeferred:
		return "DeferredValue"
	case kindID:
		return "ID"
	case kindUnmount:
		return "OnUnmount"
	default:
		return "Unknown"
	}
}

// cell is one keyed slot in an instance arena.
type cell struct {
	inst     *instance
	key      string
	kind     hookKind
	payload  any
	token    Token
	dead     bool
	borrowed bool
}

// live panics if the cell's instance has unmounted.
func (c *cell) live(op string) {
	if c.dead {
		panic(c.inst.b.misuse(CodeUseAfterUnmount, c.inst, c.key, op+" on freed cell"))
	}
}

func (c *cell) borrow(op string) {
	c.live(op)
	if c.borrowed {
		panic(c.inst.b.misuse(CodeBorrowed, c.inst, c.key, op+" while the cell is being updated"))
	}
	c.borrowed = true
}

func (c *cell) unborrow() {
	c.borrowed = false
}

// valueReleaser is implemented by payloads whose value may hold resources.
type valueReleaser interface {
	releaseValue()
}

// Releaser is implemented by cell values that hold resources. Release is
// called once when the owning component unmounts.
type Releaser interface {
	Release()
}

// tearer is implemented by callbacks bound to an instance.
type tearer interface {
	teardown()
}

// instance is the arena of one mounted component. It is created on the
// first render and freed exactly once, when the runtime calls onFree.
type instance struct {
	id    uint64
	name  string
	b     *Bridge
	token Token

	// mu guards cells and order against concurrent snapshots.
	mu    sync.Mutex
	cells map[string]*cell
	order []*cell

	rendering bool
	renders   uint64
	seen      map[string]struct{}
	sites     map[string]int

	trigger           func()
	transitionPending bool
	startTransition   func(func())
	reactID           string
	ids               int

	deferredCommitted uint64
	deferredWanted    uint64
	deferredAdvanced  bool
	deferredStale     bool

	passiveGen uint64
	layoutGen  uint64
	effects    []*effectSlot

	bound   []tearer
	retired []tearer

	freed bool
}

func newInstance(b *Bridge, name string) *instance {
	return &instance{
		name:  name,
		b:     b,
		cells: make(map[string]*cell),
	}
}

// beginRender resets the per-render state and returns the render's Hooks.
func (inst *instance) beginRender(trigger func(), pending bool, start func(func()), answer uint64, reactID string) *Hooks {
	inst.rendering = true
	inst.mu.Lock()
	inst.renders++
	inst.mu.Unlock()
	inst.seen = make(map[string]struct{})
	inst.sites = make(map[string]int)

	inst.trigger = trigger
	inst.transitionPending = pending
	inst.startTransition = start
	inst.reactID = reactID

	inst.deferredAdvanced = answer != inst.deferredCommitted
	inst.deferredCommitted = answer
	inst.deferredStale = false

	return &Hooks{inst: inst, render: inst.renders}
}

func (inst *instance) endRender() {
	inst.rendering = false
	inst.seen = nil
	inst.sites = nil
	if len(inst.retired) > 0 {
		inst.layoutGen++
	}
}

// deferredRequest is the marker passed to the runtime's UseDeferredValue
// before the body. The runtime answers with it once the low priority render
// requested by deferredFollowUp is under way.
func (inst *instance) deferredRequest() uint64 {
	return inst.deferredWanted
}

// deferredFollowUp is the marker passed to the runtime's second
// UseDeferredValue, after the body. It changes only when the body returned
// a stale deferred value, so renders whose deferred values are current
// schedule nothing.
func (inst *instance) deferredFollowUp() uint64 {
	if inst.deferredStale && inst.deferredWanted == inst.deferredCommitted {
		inst.deferredWanted++
	}
	return inst.deferredWanted
}

// rerender asks the runtime to render the instance again.
func (inst *instance) rerender() {
	if inst.freed || inst.trigger == nil {
		return
	}
	inst.trigger()
}

// lookup returns the cell at key, creating it with create on first use.
func lookup[P any](h *Hooks, key string, kind hookKind, create func(c *cell) P) P {
	inst := h.inst
	inst.mu.Lock()
	c, ok := inst.cells[key]
	inst.mu.Unlock()

	if !ok {
		c = &cell{inst: inst, key: key, kind: kind}
		p := create(c)
		c.payload = p

		inst.mu.Lock()
		inst.cells[key] = c
		inst.order = append(inst.order, c)
		inst.mu.Unlock()

		inst.b.metrics.recordCell()
		if inst.b.debug {
			inst.b.logger.Debug("cell created",
				zap.String("component", inst.name),
				zap.String("key", displayKey(key)),
				zap.Stringer("kind", kind),
			)
		}
		inst.b.emit(Event{Kind: EventCellCreated, Instance: inst.id, Component: inst.name, Key: displayKey(key)})
		return p
	}

	if c.kind != kind {
		panic(inst.b.misuse(CodeTypeMismatch, inst, key,
			fmt.Sprintf("key used by a %s hook, now by a %s hook", c.kind, kind)))
	}
	p, ok := c.payload.(P)
	if !ok {
		var want P
		panic(inst.b.misuse(CodeTypeMismatch, inst, key,
			fmt.Sprintf("cell holds %T, requested %T", c.payload, want)))
	}
	return p
}

// flushLayout and flushPassive are the thunks handed to the runtime's
// UseLayoutEffect and UseEffect.
func (inst *instance) flushLayout()  { inst.flush(true) }
func (inst *instance) flushPassive() { inst.flush(false) }

// flush runs the teardowns and then the bodies of every pending effect of
// one phase, in creation order.
func (inst *instance) flush(layout bool) {
	if inst.freed {
		return
	}
	if layout {
		inst.releaseRetired()
	}

	var due []*effectSlot
	for _, e := range inst.effects {
		if e.layout == layout && e.pending {
			due = append(due, e)
		}
	}
	for _, e := range due {
		inst.runTeardown(e)
	}
	for _, e := range due {
		body := e.body
		e.pending = false
		e.body = nil
		e.committed = e.next
		e.hasRun = true
		e.teardown = body()
		inst.b.metrics.recordEffect(e.phase())
		inst.b.emit(Event{Kind: EventEffectRun, Instance: inst.id, Component: inst.name, Key: displayKey(e.key)})
	}
}

func (inst *instance) runTeardown(e *effectSlot) {
	if e.teardown == nil {
		return
	}
	t := e.teardown
	e.teardown = nil
	t()
	inst.b.emit(Event{Kind: EventEffectTeardown, Instance: inst.id, Component: inst.name, Key: displayKey(e.key)})
}

func (inst *instance) releaseRetired() {
	retired := inst.retired
	inst.retired = nil
	for _, t := range retired {
		t.teardown()
	}
}

// teardown frees the arena. Effect teardowns run first, layout before
// passive and newest first, while cells are still readable. It returns the
// number of cells freed.
func (inst *instance) teardown() int {
	if inst.freed {
		return 0
	}
	inst.freed = true

	for _, layout := range []bool{true, false} {
		for i := len(inst.effects) - 1; i >= 0; i-- {
			e := inst.effects[i]
			if e.layout == layout {
				inst.safely("effect teardown", func() { inst.runTeardown(e) })
			}
		}
	}

	inst.mu.Lock()
	order := inst.order
	inst.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		if u, ok := order[i].payload.(*unmountSlot); ok && u.fn != nil {
			inst.safely("unmount callback", u.fn)
		}
	}

	for _, t := range append(inst.retired, inst.bound...) {
		inst.safely("callback teardown", t.teardown)
	}
	inst.retired, inst.bound = nil, nil

	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]
		c.dead = true
		if r, ok := c.payload.(valueReleaser); ok {
			inst.safely("cell release", r.releaseValue)
		}
		if c.token != 0 {
			inst.b.handles.Release(c.token)
		}
		inst.b.emit(Event{Kind: EventCellFreed, Instance: inst.id, Component: inst.name, Key: displayKey(c.key)})
	}
	inst.trigger = nil
	inst.startTransition = nil
	inst.effects = nil
	return len(order)
}

// safely runs fn, logging a panic instead of propagating it so that the
// rest of the teardown still happens.
func (inst *instance) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			inst.b.logger.Error("panic during unmount",
				zap.String("component", inst.name),
				zap.String("step", what),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

func (inst *instance) cellCount() int {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return len(inst.order)
}

func (inst *instance) info() InstanceInfo {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	info := InstanceInfo{
		ID:        inst.id,
		Component: inst.name,
		Renders:   inst.renders,
		Cells:     make([]CellInfo, 0, len(inst.order)),
	}
	for _, c := range inst.order {
		info.Cells = append(info.Cells, CellInfo{
			Key:  displayKey(c.key),
			Kind: c.kind.String(),
			Type: fmt.Sprintf("%T", c.payload),
		})
	}
	return info
}

// displayKey shortens a call-site key to its last directory and file.
func displayKey(key string) string {
	if key == "" || strings.HasPrefix(key, explicitKeyPrefix) {
		return strings.TrimPrefix(key, explicitKeyPrefix)
	}
	dir, file := filepath.Split(key)
	return filepath.Join(filepath.Base(dir), file)
}
