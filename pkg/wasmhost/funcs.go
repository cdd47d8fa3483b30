//go:build js && wasm

package wasmhost

import (
	"syscall/js"

	"github.com/vango-dev/vango-react/pkg/react"
)

// hostFunc is a Go function exposed to JavaScript through the bindings'
// wrap, which turns reported errors into exceptions.
type hostFunc struct {
	rt       *Runtime
	fn       js.Func
	value    js.Value
	released bool
}

// funcOf exposes fn. A panic with an error value inside fn is thrown to the
// JavaScript caller.
func (rt *Runtime) funcOf(fn func(args []js.Value) any) *hostFunc {
	f := &hostFunc{rt: rt}
	f.fn = js.FuncOf(func(this js.Value, args []js.Value) (out any) {
		if f.released {
			return rt.report(ErrReleased)
		}
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					panic(r)
				}
				out = rt.report(err)
			}
		}()
		return fn(args)
	})
	f.value = rt.glue.Call("wrap", f.fn)
	rt.funcs++
	return f
}

func (f *hostFunc) release() {
	if f.released {
		return
	}
	f.released = true
	f.fn.Release()
	f.rt.funcs--
}

// report records err and returns the marker object that the wrapper turns
// into an exception.
func (rt *Runtime) report(err error) js.Value {
	rt.nextID++
	rt.thrown[rt.nextID] = err
	marker := js.Global().Get("Object").New()
	marker.Set("$$goError", err.Error())
	marker.Set("$$id", rt.nextID)
	return marker
}

// collectable is a group of functions released once the JavaScript value
// holding them is garbage collected. React keeps element props and effect
// closures for as long as it may call them.
type collectable struct {
	funcs []*hostFunc
}

// releaseWhenCollected registers funcs for release after v is collected
// and returns the registration id.
func (rt *Runtime) releaseWhenCollected(v js.Value, funcs ...*hostFunc) int {
	if rt.registry.IsUndefined() {
		rt.registryFunc = js.FuncOf(func(this js.Value, args []js.Value) any {
			id := args[0].Int()
			if c, ok := rt.collectables[id]; ok {
				delete(rt.collectables, id)
				delete(rt.wrappers, id)
				for _, f := range c.funcs {
					f.release()
				}
			}
			return nil
		})
		rt.registry = js.Global().Get("FinalizationRegistry").New(rt.registryFunc)
	}
	rt.nextID++
	id := rt.nextID
	rt.collectables[id] = &collectable{funcs: funcs}
	rt.registry.Call("register", v, id)
	return id
}

// wrapper exposes w as an object with a render method. Memo wrappers also
// get an equal method that finds the other wrapper through its id.
func (rt *Runtime) wrapper(w react.Wrapper) js.Value {
	obj := js.Global().Get("Object").New()
	render := rt.funcOf(func([]js.Value) any {
		return toJS(w.Render())
	})
	obj.Set("render", render.value)
	funcs := []*hostFunc{render}

	if mw, ok := w.(react.MemoWrapper); ok {
		equal := rt.funcOf(func(args []js.Value) any {
			other, ok := rt.wrappers[args[0].Get("id").Int()].(react.MemoWrapper)
			return ok && mw.Equal(other)
		})
		obj.Set("equal", equal.value)
		funcs = append(funcs, equal)
	}

	id := rt.releaseWhenCollected(obj, funcs...)
	rt.wrappers[id] = w
	obj.Set("id", id)
	return obj
}
