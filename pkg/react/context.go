package react

import (
	"fmt"
	"sync"

	"github.com/vango-dev/vango-react/pkg/jsval"
)

// ContextRegistry holds the default values of a bridge's contexts.
type ContextRegistry struct {
	mu       sync.RWMutex
	defaults map[uint64]any
	next     uint64
}

func newContextRegistry() *ContextRegistry {
	return &ContextRegistry{defaults: make(map[uint64]any)}
}

func (r *ContextRegistry) register(def any) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.defaults[r.next] = def
	return r.next
}

// Default returns the default value of the context with the given id.
func (r *ContextRegistry) Default(id uint64) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.defaults[id]
	return v, ok
}

// Len returns the number of registered contexts.
func (r *ContextRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defaults)
}

// Context carries a value of type T down the component tree.
type Context[T any] struct {
	id  uint64
	b   *Bridge
	def Token
	js  jsval.Value
}

// contextDefault is what a context's default token resolves to.
type contextDefault[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a context whose consumers see initial unless a
// provider above them overrides it.
func CreateContext[T any](b *Bridge, initial T) *Context[T] {
	ctx := &Context[T]{b: b}
	ctx.id = b.contexts.register(initial)
	ctx.def = b.handles.Register(contextDefault[T]{ctx: ctx})
	ctx.js = b.rt.CreateContext(ctx.def)
	return ctx
}

// ID returns the context's id in the bridge's registry.
func (c *Context[T]) ID() uint64 {
	return c.id
}

// JS returns the foreign context object.
func (c *Context[T]) JS() jsval.Value {
	return c.js
}

// Default returns the context's default value.
func (c *Context[T]) Default() T {
	v, _ := c.b.contexts.Default(c.id)
	t, _ := v.(T) // nil for interface types with a nil default
	return t
}

// Provider returns a component that overrides the context with value for
// children.
func (c *Context[T]) Provider(value T, children ...jsval.Value) Component {
	return &provider[T]{ctx: c, value: value, children: children}
}

type provider[T any] struct {
	ctx      *Context[T]
	value    T
	children []jsval.Value
}

func (p *provider[T]) Name() string {
	return fmt.Sprintf("Context%d.Provider", p.ctx.id)
}

func (p *provider[T]) Render(h *Hooks) jsval.Value {
	current := UseRef(h.Key("value"), func() T { return p.value })
	current.Set(p.value)
	return h.Runtime().Provider(p.ctx.js, current.Token(), p.children...)
}

// UseContext returns the value of the nearest provider of ctx above the
// component, or the context's default.
func UseContext[T any](h *Hooks, ctx *Context[T]) T {
	h.check()
	inst := h.inst
	tok := inst.b.rt.UseContext(ctx.js)

	v, ok := inst.b.handles.Lookup(tok)
	if !ok {
		panic(inst.b.misuse(CodeUseAfterUnmount, inst, "", fmt.Sprintf("context %d resolved to freed token %d", ctx.id, tok)))
	}
	switch x := v.(type) {
	case contextDefault[T]:
		if x.ctx == ctx {
			return ctx.Default()
		}
	case *RefContainer[T]:
		return x.Current()
	}
	panic(inst.b.misuse(CodeTypeMismatch, inst, "", fmt.Sprintf("context %d resolved to %T", ctx.id, v)))
}
