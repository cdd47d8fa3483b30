//go:build js && wasm

package wasmhost

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/vango-dev/vango-react/internal/bindings"
	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

// ErrReleased is returned when a released Go function is called from
// JavaScript.
var ErrReleased = errors.New("wasmhost: call of released function")

// Runtime is a react.Runtime backed by the page's React.
type Runtime struct {
	dom  js.Value
	glue js.Value
	root js.Value

	// thrown holds Go errors raised inside wrapped functions until the
	// exception carrying their id reaches Invoke.
	thrown map[int]error
	nextID int
	funcs  int

	registry     js.Value
	registryFunc js.Func
	collectables map[int]*collectable
	wrappers     map[int]react.Wrapper
}

var _ react.Runtime = (*Runtime)(nil)

// New loads the bindings against the global React.
func New() (rt *Runtime, err error) {
	defer recoverJS(&err)

	global := js.Global()
	reactObj := global.Get("React")
	if reactObj.IsUndefined() {
		return nil, errors.New("wasmhost: global React is not defined")
	}
	factory := global.Call("eval", bindings.Source())
	return &Runtime{
		dom:          global.Get("ReactDOM"),
		glue:         factory.Invoke(reactObj),
		thrown:       make(map[int]error),
		collectables: make(map[int]*collectable),
		wrappers:     make(map[int]react.Wrapper),
	}, nil
}

// Mount renders el into the element matched by selector.
func (rt *Runtime) Mount(selector string, el jsval.Value) (err error) {
	defer recoverJS(&err)

	if rt.dom.IsUndefined() {
		return errors.New("wasmhost: global ReactDOM is not defined")
	}
	container := js.Global().Get("document").Call("querySelector", selector)
	if container.IsNull() {
		return fmt.Errorf("wasmhost: no element matches %q", selector)
	}
	if rt.root.IsUndefined() {
		rt.root = rt.dom.Call("createRoot", container)
	}
	rt.root.Call("render", toJS(el))
	return nil
}

// Unmount removes the mounted tree.
func (rt *Runtime) Unmount() (err error) {
	defer recoverJS(&err)

	if !rt.root.IsUndefined() {
		rt.root.Call("unmount")
		rt.root = js.Undefined()
	}
	return nil
}

// LiveFuncs returns the number of wrapped functions not yet released.
func (rt *Runtime) LiveFuncs() int {
	return rt.funcs
}

// CreateElement implements react.Runtime.
func (rt *Runtime) CreateElement(tag string, props map[string]any, children ...jsval.Value) jsval.Value {
	p := js.Null()
	if props != nil {
		p = js.Global().Get("Object").New()
		for k, v := range props {
			p.Set(k, toJSAny(v))
		}
	}
	return fromJS(rt.glue.Call("createElement", tag, p, array(children)))
}

// CreateComponent implements react.Runtime.
func (rt *Runtime) CreateComponent(name, key string, w react.Wrapper) jsval.Value {
	return fromJS(rt.glue.Call("createComponent", name, key, rt.wrapper(w), false))
}

// CreateMemoComponent implements react.Runtime.
func (rt *Runtime) CreateMemoComponent(name, key string, w react.MemoWrapper) jsval.Value {
	return fromJS(rt.glue.Call("createComponent", name, key, rt.wrapper(w), true))
}

// UseRef implements react.Runtime.
func (rt *Runtime) UseRef(create func() react.Token, onFree func(react.Token)) react.Token {
	createFn := rt.funcOf(func([]js.Value) any {
		return float64(create())
	})
	var freeFn *hostFunc
	freeFn = rt.funcOf(func(args []js.Value) any {
		onFree(react.Token(args[0].Int()))
		freeFn.release()
		return nil
	})
	rt.releaseWhenCollected(freeFn.value, freeFn)
	tok := react.Token(rt.glue.Call("useRef", createFn.value, freeFn.value).Int())
	createFn.release()
	return tok
}

// UseState implements react.Runtime.
func (rt *Runtime) UseState() func() {
	set := rt.glue.Call("useState")
	return func() {
		set.Invoke()
	}
}

// UseEffect implements react.Runtime.
func (rt *Runtime) UseEffect(thunk func(), marker uint64) {
	rt.glue.Call("useEffect", rt.thunk(thunk), float64(marker))
}

// UseLayoutEffect implements react.Runtime.
func (rt *Runtime) UseLayoutEffect(thunk func(), marker uint64) {
	rt.glue.Call("useLayoutEffect", rt.thunk(thunk), float64(marker))
}

// thunk wraps fn for the runtime, which calls it at most once or drops it.
func (rt *Runtime) thunk(fn func()) js.Value {
	var f *hostFunc
	f = rt.funcOf(func([]js.Value) any {
		defer f.release()
		fn()
		return nil
	})
	rt.releaseWhenCollected(f.value, f)
	return f.value
}

// UseContext implements react.Runtime.
func (rt *Runtime) UseContext(ctx jsval.Value) react.Token {
	return react.Token(rt.glue.Call("useContext", toJS(ctx)).Int())
}

// CreateContext implements react.Runtime.
func (rt *Runtime) CreateContext(def react.Token) jsval.Value {
	return fromJS(rt.glue.Call("createContext", float64(def)))
}

// Provider implements react.Runtime.
func (rt *Runtime) Provider(ctx jsval.Value, value react.Token, children ...jsval.Value) jsval.Value {
	return fromJS(rt.glue.Call("provider", toJS(ctx), float64(value), array(children)))
}

// UseDeferredValue implements react.Runtime.
func (rt *Runtime) UseDeferredValue(marker uint64) uint64 {
	return uint64(rt.glue.Call("useDeferredValue", float64(marker)).Int())
}

// UseTransition implements react.Runtime.
func (rt *Runtime) UseTransition() (bool, func(func())) {
	pair := rt.glue.Call("useTransition")
	startJS := pair.Index(1)
	start := func(fn func()) {
		startJS.Invoke(rt.thunk(fn))
	}
	return pair.Index(0).Bool(), start
}

// UseID implements react.Runtime.
func (rt *Runtime) UseID() string {
	return rt.glue.Call("useId").String()
}

// WrapFunc implements react.Runtime.
func (rt *Runtime) WrapFunc(fn func(args []jsval.Value) jsval.Value) (jsval.Value, func()) {
	f := rt.funcOf(func(args []js.Value) any {
		vals := make([]jsval.Value, len(args))
		for i, a := range args {
			vals[i] = fromJS(a)
		}
		return toJS(fn(vals))
	})
	return fromJS(f.value), f.release
}

// Invoke implements react.Runtime.
func (rt *Runtime) Invoke(fn jsval.Value, args ...jsval.Value) (out jsval.Value, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		jsErr, ok := r.(js.Error)
		if !ok {
			panic(r)
		}
		out, err = jsval.Undefined, rt.goError(jsErr)
	}()

	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = toJS(a)
	}
	return fromJS(toJS(fn).Invoke(vals...)), nil
}

// goError returns the Go error carried by a JavaScript exception thrown
// from a wrapped function, or the exception itself.
func (rt *Runtime) goError(jsErr js.Error) error {
	id := jsErr.Value.Get("goErrorId")
	if id.Type() != js.TypeNumber {
		return jsErr
	}
	err, ok := rt.thrown[id.Int()]
	if !ok {
		return jsErr
	}
	delete(rt.thrown, id.Int())
	return err
}

func recoverJS(err *error) {
	if r := recover(); r != nil {
		jsErr, ok := r.(js.Error)
		if !ok {
			panic(r)
		}
		*err = jsErr
	}
}
