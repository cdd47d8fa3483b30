package react

import (
	"reflect"

	"github.com/vango-dev/vango-react/pkg/jsval"
)

// Component is a Go value that renders through React.
type Component interface {
	// Name identifies the component type. Elements with the same name share
	// a React component type, so switching names remounts.
	Name() string

	// Render returns the component's output. h is valid only during the
	// call.
	Render(h *Hooks) jsval.Value
}

// Keyed is implemented by components carrying a React key.
type Keyed interface {
	Key() string
}

// Memoizable is implemented by components that can skip re-rendering when
// their props are unchanged. Equal must be side-effect free and total.
type Memoizable interface {
	Equal(other Component) bool
}

// Func adapts a render function to Component.
func Func(name string, render func(h *Hooks) jsval.Value) Component {
	return funcComponent{name: name, render: render}
}

type funcComponent struct {
	name   string
	render func(h *Hooks) jsval.Value
}

func (f funcComponent) Name() string                { return f.name }
func (f funcComponent) Render(h *Hooks) jsval.Value { return f.render(h) }

// wrapper is the per-element render entry point handed to the runtime.
type wrapper struct {
	b *Bridge
	c Component
}

func (w *wrapper) Render() jsval.Value {
	return w.b.render(w.c)
}

type memoWrapper struct {
	wrapper
}

func (w *memoWrapper) Equal(other MemoWrapper) bool {
	o, ok := other.(*memoWrapper)
	if !ok || reflect.TypeOf(w.c) != reflect.TypeOf(o.c) {
		return false
	}
	return w.c.(Memoizable).Equal(o.c)
}

// Element creates a React element for c.
func (b *Bridge) Element(c Component) jsval.Value {
	var key string
	if k, ok := c.(Keyed); ok {
		key = k.Key()
	}
	if _, ok := c.(Memoizable); ok {
		return b.rt.CreateMemoComponent(c.Name(), key, &memoWrapper{wrapper{b: b, c: c}})
	}
	return b.rt.CreateComponent(c.Name(), key, &wrapper{b: b, c: c})
}

// ExportedFunc is a component entry point callable with foreign props.
type ExportedFunc func(props jsval.Value) (jsval.Value, error)

// Export returns an entry point that decodes foreign props with decode and
// renders them with render. A decode failure is returned as a
// *ConversionError.
func Export[P any](b *Bridge, name string, decode func(jsval.Value) (P, error), render func(h *Hooks, props P) jsval.Value) ExportedFunc {
	return func(props jsval.Value) (jsval.Value, error) {
		p, err := decode(props)
		if err != nil {
			return jsval.Undefined, &ConversionError{Component: name, Err: err}
		}
		return b.Element(exported[P]{name: name, props: p, render: render}), nil
	}
}

// JS exposes f as a foreign function of one props argument. Decode failures
// are thrown to the foreign caller.
func (f ExportedFunc) JS(rt Runtime) (jsval.Value, func()) {
	return rt.WrapFunc(func(args []jsval.Value) jsval.Value {
		props := jsval.Undefined
		if len(args) > 0 {
			props = args[0]
		}
		v, err := f(props)
		if err != nil {
			panic(err)
		}
		return v
	})
}

type exported[P any] struct {
	name   string
	props  P
	render func(h *Hooks, props P) jsval.Value
}

func (e exported[P]) Name() string                { return e.name }
func (e exported[P]) Render(h *Hooks) jsval.Value { return e.render(h, e.props) }
