package react

import (
	"github.com/vango-dev/vango-react/internal/handles"
	"github.com/vango-dev/vango-react/pkg/jsval"
)

// Token is an opaque lifetime token handed to the foreign runtime in place of
// a host object. Zero is never issued.
type Token = handles.Token

// Wrapper is the type-erased render entry point of one component element.
// A fresh Wrapper is created for every element.
type Wrapper interface {
	Render() jsval.Value
}

// MemoWrapper is a Wrapper whose component can tell whether a re-render may
// be skipped.
type MemoWrapper interface {
	Wrapper

	// Equal reports whether rendering other would produce the same output.
	Equal(other MemoWrapper) bool
}

// Runtime is the contract a foreign React runtime implements.
//
// All methods are called on the goroutine that drives the runtime. The hook
// methods (UseRef through UseID) are only called while the runtime is
// rendering a component created by CreateComponent or CreateMemoComponent,
// and are called in the same order on every render of that component.
type Runtime interface {
	// CreateElement creates a builtin element such as "div".
	CreateElement(tag string, props map[string]any, children ...jsval.Value) jsval.Value

	// CreateComponent creates an element for a host component. Elements with
	// the same name share one component type.
	CreateComponent(name, key string, w Wrapper) jsval.Value

	// CreateMemoComponent is CreateComponent for components that may skip
	// re-rendering when w.Equal reports the previous props as equal.
	CreateMemoComponent(name, key string, w MemoWrapper) jsval.Value

	// UseRef calls create on the first render and returns its token on every
	// render. onFree is called exactly once with that token when the
	// component unmounts.
	UseRef(create func() Token, onFree func(Token)) Token

	// UseState returns a function that schedules a re-render.
	UseState() func()

	// UseEffect runs thunk after commit whenever marker differs from the
	// marker of the previous committed render.
	UseEffect(thunk func(), marker uint64)

	// UseLayoutEffect is UseEffect run synchronously after layout.
	UseLayoutEffect(thunk func(), marker uint64)

	// UseContext returns the token of the nearest provider of ctx, or the
	// default token of ctx.
	UseContext(ctx jsval.Value) Token

	// CreateContext creates a foreign context object with a default token.
	CreateContext(def Token) jsval.Value

	// Provider creates a provider element overriding ctx with value.
	Provider(ctx jsval.Value, value Token, children ...jsval.Value) jsval.Value

	// UseDeferredValue returns a possibly stale marker, scheduling a
	// low-priority re-render when it is stale.
	UseDeferredValue(marker uint64) uint64

	// UseTransition reports whether a transition started by this component is
	// pending and returns the function that starts one.
	UseTransition() (pending bool, start func(func()))

	// UseID returns an id that is unique and stable for the component.
	UseID() string

	// WrapFunc exposes fn as a foreign function. The returned func drops the
	// reference; calling the foreign function afterwards is an error.
	// A panic with an error value inside fn is surfaced to the foreign caller
	// as a thrown exception.
	WrapFunc(fn func(args []jsval.Value) jsval.Value) (jsval.Value, func())

	// Invoke calls a foreign function.
	Invoke(fn jsval.Value, args ...jsval.Value) (jsval.Value, error)
}

// Attacher is implemented by runtimes that need a reference to the bridge
// driving them.
type Attacher interface {
	Attach(b *Bridge)
}
