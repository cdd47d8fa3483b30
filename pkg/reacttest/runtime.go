package reacttest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

// ErrReleased is returned when a released foreign function is invoked.
var ErrReleased = errors.New("reacttest: function was released")

// maxPasses bounds the render passes of one Flush.
const maxPasses = 1000

type lane uint8

const (
	laneUrgent lane = iota
	laneLow
)

// Runtime is a simulated React runtime. It is not safe for concurrent use.
type Runtime struct {
	bridge *react.Bridge

	types map[string]*ComponentType
	root  *fiber

	current *fiber
	hookIdx int
	lane    lane

	inTransition bool
	urgent       map[*fiber]struct{}
	low          map[*fiber]struct{}

	layout   []func()
	passive  []func()
	unmounts []func()

	deferEffects bool
	held         []func()

	funcs   map[*Func]struct{}
	renders map[string]int
	nextID  int
}

var (
	_ react.Runtime  = (*Runtime)(nil)
	_ react.Attacher = (*Runtime)(nil)
)

// New returns an empty runtime. Attach a bridge with react.Use before
// rendering.
func New() *Runtime {
	return &Runtime{
		types:   make(map[string]*ComponentType),
		urgent:  make(map[*fiber]struct{}),
		low:     make(map[*fiber]struct{}),
		funcs:   make(map[*Func]struct{}),
		renders: make(map[string]int),
	}
}

// Attach implements react.Attacher.
func (rt *Runtime) Attach(b *react.Bridge) {
	rt.bridge = b
}

// Bridge returns the attached bridge, or nil.
func (rt *Runtime) Bridge() *react.Bridge {
	return rt.bridge
}

// SetDeferEffects controls whether passive effects wait for FlushEffects.
func (rt *Runtime) SetDeferEffects(deferred bool) {
	rt.deferEffects = deferred
}

// Render renders el as the root and flushes all resulting work.
func (rt *Runtime) Render(el jsval.Value) {
	if rt.root == nil {
		rt.root = &fiber{kind: kindRoot, mounted: true}
	}
	rt.runHeld()
	rt.lane = laneUrgent
	rt.reconcile(rt.root, flatten(el))
	rt.commit()
	rt.Flush()
}

// Unmount removes the whole tree.
func (rt *Runtime) Unmount() {
	if rt.root == nil {
		return
	}
	rt.runHeld()
	for _, c := range rt.root.children {
		rt.unmount(c)
	}
	rt.root.children = nil
	rt.commit()
	rt.Flush()
}

// Flush renders every component with a pending update, urgent updates
// first, committing after each pass.
func (rt *Runtime) Flush() {
	for pass := 0; ; pass++ {
		if pass > maxPasses {
			panic("reacttest: too many render passes; a component updates on every render")
		}
		var queue map[*fiber]struct{}
		switch {
		case len(rt.urgent) > 0:
			rt.lane, queue = laneUrgent, rt.urgent
		case len(rt.low) > 0:
			rt.lane, queue = laneLow, rt.low
		default:
			return
		}

		rt.runHeld()
		for len(queue) > 0 {
			f := shallowest(queue)
			delete(queue, f)
			if f.mounted {
				rt.renderComponent(f)
			}
		}
		rt.commit()
	}
}

// FlushEffects runs passive effects held by SetDeferEffects, then any work
// they scheduled.
func (rt *Runtime) FlushEffects() {
	rt.runHeld()
	rt.Flush()
}

// PendingEffects returns the number of held passive effects.
func (rt *Runtime) PendingEffects() int {
	return len(rt.held)
}

// RenderCount returns how many times components named name have rendered.
func (rt *Runtime) RenderCount(name string) int {
	return rt.renders[name]
}

// Mounted returns the number of mounted components named name.
func (rt *Runtime) Mounted(name string) int {
	n := 0
	if rt.root != nil {
		rt.root.walk(func(f *fiber) {
			if f.kind == kindComponent && f.ctype.Name == name {
				n++
			}
		})
	}
	return n
}

// LiveFuncs returns the number of foreign functions not yet released.
func (rt *Runtime) LiveFuncs() int {
	n := 0
	for f := range rt.funcs {
		if !f.released {
			n++
		}
	}
	return n
}

// Tree returns the committed host nodes under the root.
func (rt *Runtime) Tree() []*Node {
	if rt.root == nil {
		return nil
	}
	return rt.root.hostNodes()
}

// HTML renders the committed tree as markup.
func (rt *Runtime) HTML() string {
	var b strings.Builder
	for _, n := range rt.Tree() {
		b.WriteString(n.HTML())
	}
	return b.String()
}

// Find returns the first committed node with the given tag, or nil.
func (rt *Runtime) Find(tag string) *Node {
	for _, n := range rt.Tree() {
		if m := n.Find(tag); m != nil {
			return m
		}
	}
	return nil
}

// Fire invokes the function prop of n and flushes the resulting work.
func (rt *Runtime) Fire(n *Node, prop string, args ...jsval.Value) (jsval.Value, error) {
	if n == nil {
		return jsval.Undefined, errors.New("reacttest: fire on nil node")
	}
	fn, ok := n.Props[prop].(jsval.Value)
	if !ok {
		return jsval.Undefined, fmt.Errorf("reacttest: <%s> has no function prop %q", n.Tag, prop)
	}
	out, err := rt.Invoke(fn, args...)
	rt.Flush()
	return out, err
}

// Click fires the onClick prop of n, panicking on error.
func (rt *Runtime) Click(n *Node) {
	if _, err := rt.Fire(n, "onClick"); err != nil {
		panic(err)
	}
}

// CreateElement implements react.Runtime.
func (rt *Runtime) CreateElement(tag string, props map[string]any, children ...jsval.Value) jsval.Value {
	el := &Element{Tag: tag, Props: props, Children: children}
	if k, ok := props["key"].(string); ok {
		el.Key = k
	}
	return jsval.Of(el)
}

// CreateComponent implements react.Runtime.
func (rt *Runtime) CreateComponent(name, key string, w react.Wrapper) jsval.Value {
	return jsval.Of(&Element{Type: rt.componentType(name, false), Key: key, wrapper: w})
}

// CreateMemoComponent implements react.Runtime.
func (rt *Runtime) CreateMemoComponent(name, key string, w react.MemoWrapper) jsval.Value {
	return jsval.Of(&Element{Type: rt.componentType(name, true), Key: key, wrapper: w})
}

func (rt *Runtime) componentType(name string, memo bool) *ComponentType {
	id := name
	if memo {
		id = "memo:" + name
	}
	t, ok := rt.types[id]
	if !ok {
		t = &ComponentType{Name: name, Memo: memo}
		rt.types[id] = t
	}
	return t
}

type refHook struct {
	token  react.Token
	onFree func(react.Token)
}

type stateHook struct {
	trigger func()
}

type effectHook struct {
	ran    bool
	marker uint64
}

type deferredHook struct {
	value uint64
}

type transitionHook struct {
	pending bool
	clear   bool
}

type idHook struct {
	id string
}

// slot returns the current component's next hook, creating it on the
// first render.
func slot[T any](rt *Runtime, create func() T) T {
	f := rt.current
	if f == nil {
		panic("reacttest: hook called outside a component render")
	}
	i := rt.hookIdx
	rt.hookIdx++
	if i < len(f.hooks) {
		h, ok := f.hooks[i].(T)
		if !ok {
			var want T
			panic(fmt.Sprintf("reacttest: hook %d of <%s> changed from %T to %T", i, f.ctype.Name, f.hooks[i], want))
		}
		return h
	}
	if f.renders > 0 {
		panic(fmt.Sprintf("reacttest: <%s> rendered more hooks than during the previous render", f.ctype.Name))
	}
	h := create()
	f.hooks = append(f.hooks, h)
	return h
}

// UseRef implements react.Runtime.
func (rt *Runtime) UseRef(create func() react.Token, onFree func(react.Token)) react.Token {
	h := slot(rt, func() *refHook {
		return &refHook{token: create(), onFree: onFree}
	})
	return h.token
}

// UseState implements react.Runtime.
func (rt *Runtime) UseState() func() {
	f := rt.current
	h := slot(rt, func() *stateHook {
		return &stateHook{trigger: func() { rt.schedule(f) }}
	})
	return h.trigger
}

// UseEffect implements react.Runtime.
func (rt *Runtime) UseEffect(thunk func(), marker uint64) {
	rt.useEffect(thunk, marker, false)
}

// UseLayoutEffect implements react.Runtime.
func (rt *Runtime) UseLayoutEffect(thunk func(), marker uint64) {
	rt.useEffect(thunk, marker, true)
}

func (rt *Runtime) useEffect(thunk func(), marker uint64, layout bool) {
	f := rt.current
	h := slot(rt, func() *effectHook { return &effectHook{} })
	if h.ran && h.marker == marker {
		return
	}
	h.ran, h.marker = true, marker
	if layout {
		f.layout = append(f.layout, thunk)
	} else {
		f.passive = append(f.passive, thunk)
	}
}

// UseContext implements react.Runtime.
func (rt *Runtime) UseContext(ctx jsval.Value) react.Token {
	c := jsval.MustAs[*Context](ctx)
	f := rt.current
	if f == nil {
		panic("reacttest: UseContext called outside a component render")
	}
	f.reads[c] = struct{}{}
	for p := f.parent; p != nil; p = p.parent {
		if p.kind == kindProvider && p.ctx == c {
			return p.value
		}
	}
	return c.def
}

// CreateContext implements react.Runtime.
func (rt *Runtime) CreateContext(def react.Token) jsval.Value {
	return jsval.Of(&Context{def: def})
}

// Provider implements react.Runtime.
func (rt *Runtime) Provider(ctx jsval.Value, value react.Token, children ...jsval.Value) jsval.Value {
	return jsval.Of(&Element{Context: jsval.MustAs[*Context](ctx), Value: value, Children: children})
}

// UseDeferredValue implements react.Runtime.
func (rt *Runtime) UseDeferredValue(marker uint64) uint64 {
	f := rt.current
	h := slot(rt, func() *deferredHook { return &deferredHook{value: marker} })
	if h.value == marker {
		return marker
	}
	if rt.lane == laneUrgent {
		rt.low[f] = struct{}{}
		return h.value
	}
	h.value = marker
	return marker
}

// UseTransition implements react.Runtime.
func (rt *Runtime) UseTransition() (bool, func(func())) {
	f := rt.current
	h := slot(rt, func() *transitionHook { return &transitionHook{} })
	if rt.lane == laneLow && h.clear {
		h.pending, h.clear = false, false
	}
	start := func(fn func()) {
		h.pending, h.clear = true, false
		rt.schedule(f)

		prev := rt.inTransition
		rt.inTransition = true
		defer func() { rt.inTransition = prev }()
		fn()

		h.clear = true
		if f.mounted {
			rt.low[f] = struct{}{}
		}
	}
	return h.pending, start
}

// UseID implements react.Runtime.
func (rt *Runtime) UseID() string {
	h := slot(rt, func() *idHook {
		rt.nextID++
		return &idHook{id: fmt.Sprintf(":r%d:", rt.nextID)}
	})
	return h.id
}

// WrapFunc implements react.Runtime.
func (rt *Runtime) WrapFunc(fn func(args []jsval.Value) jsval.Value) (jsval.Value, func()) {
	f := &Func{fn: fn}
	rt.funcs[f] = struct{}{}
	return jsval.Of(f), func() { f.released = true }
}

// Invoke implements react.Runtime. A panic with an error value inside a
// wrapped function is returned as the error, as a thrown exception would be.
func (rt *Runtime) Invoke(fn jsval.Value, args ...jsval.Value) (out jsval.Value, err error) {
	var call func([]jsval.Value) jsval.Value
	switch x := fn.Ref().(type) {
	case *Func:
		if x.released {
			return jsval.Undefined, ErrReleased
		}
		x.calls++
		call = x.fn
	case func([]jsval.Value) jsval.Value:
		call = x
	default:
		return jsval.Undefined, fmt.Errorf("reacttest: %s is not a function", fn)
	}

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			out, err = jsval.Undefined, e
		}
	}()
	return call(args), nil
}

// schedule queues a re-render of f in the lane of the current update.
func (rt *Runtime) schedule(f *fiber) {
	if !f.mounted {
		return
	}
	if rt.inTransition {
		rt.low[f] = struct{}{}
		return
	}
	rt.urgent[f] = struct{}{}
}

func (rt *Runtime) commit() {
	layout := rt.layout
	rt.layout = nil
	for _, fn := range layout {
		fn()
	}

	passive := append(rt.unmounts, rt.passive...)
	rt.unmounts, rt.passive = nil, nil
	if rt.deferEffects {
		rt.held = append(rt.held, passive...)
		return
	}
	for _, fn := range passive {
		fn()
	}
}

func (rt *Runtime) runHeld() {
	for len(rt.held) > 0 {
		held := rt.held
		rt.held = nil
		for _, fn := range held {
			fn()
		}
	}
}
