package react

import (
	"fmt"
	"sync"

	"github.com/vango-dev/vango-react/pkg/jsval"
)

// Void is the argument or result type of callbacks that take or return
// nothing. It crosses the foreign boundary as undefined.
type Void struct{}

// Callback is a Go function that can be handed to the foreign runtime.
//
// A call-once callback panics with a *MisuseError when called a second
// time. A callback bound to a component instance, through UseCallback or
// BindCallback, is torn down when the instance unmounts; calling it
// afterwards panics too.
type Callback[A, R any] struct {
	fn   func(A) R
	once bool

	mu     sync.Mutex
	called bool
	dead   bool
	owner  *instance

	js        jsval.Value
	jsRelease func()
	jsReady   bool
}

// NewCallback returns a callback that may be called any number of times.
func NewCallback[A, R any](fn func(A) R) *Callback[A, R] {
	return &Callback[A, R]{fn: fn}
}

// OnceCallback returns a callback that may be called at most once. Its
// foreign thunk, if any, is released after the call.
func OnceCallback[A, R any](fn func(A) R) *Callback[A, R] {
	return &Callback[A, R]{fn: fn, once: true}
}

// NoopCallback returns a callback that does nothing.
func NoopCallback[A any]() *Callback[A, Void] {
	return NewCallback(func(A) Void { return Void{} })
}

// CallbackFromJS wraps a foreign function. Calling the callback invokes fn
// synchronously; a foreign exception panics with the error returned by the
// runtime.
func CallbackFromJS[A, R any](rt Runtime, fn jsval.Value) *Callback[A, R] {
	c := NewCallback(func(a A) R {
		var args []jsval.Value
		if _, ok := any(a).(Void); !ok {
			args = append(args, encode(a))
		}
		out, err := rt.Invoke(fn, args...)
		if err != nil {
			panic(err)
		}
		r, err := decode[R](out)
		if err != nil {
			panic(&ConversionError{Err: err})
		}
		return r
	})
	c.js, c.jsReady = fn, true
	return c
}

// Premap returns a callback that converts its argument with f and calls c
// with the result. The new callback has its own foreign function and is
// call-once when c is. Premap panics with a *MisuseError if c has been torn
// down; so does the new callback if c is torn down later.
func Premap[V, A, R any](c *Callback[A, R], f func(V) A) *Callback[V, R] {
	c.checkAlive("premap")
	return &Callback[V, R]{fn: func(v V) R { return c.Call(f(v)) }, once: c.once}
}

// Postmap returns a callback that calls c and converts its result with f.
// It follows the same rules as Premap.
func Postmap[A, R, S any](c *Callback[A, R], f func(R) S) *Callback[A, S] {
	c.checkAlive("postmap")
	return &Callback[A, S]{fn: func(a A) S { return f(c.Call(a)) }, once: c.once}
}

// BindCallback ties cb to the component's lifetime: it is torn down when
// the component unmounts.
func BindCallback[A, R any](h *Hooks, cb *Callback[A, R]) *Callback[A, R] {
	h.check()
	h.inst.bind(cb)
	return cb
}

// Call runs the callback synchronously on the calling goroutine.
func (c *Callback[A, R]) Call(arg A) R {
	c.mu.Lock()
	if c.dead {
		owner := c.owner
		c.mu.Unlock()
		panic(owner.bridge().misuse(CodeCallbackTornDown, owner, "", "callback called after teardown"))
	}
	if c.once {
		if c.called {
			owner := c.owner
			c.mu.Unlock()
			panic(owner.bridge().misuse(CodeCalledTwice, owner, "", "call-once callback called twice"))
		}
		c.called = true
	}
	c.mu.Unlock()

	r := c.fn(arg)
	if c.once {
		c.releaseJS()
	}
	return r
}

// JS returns the foreign function that calls c. It is created through
// rt.WrapFunc on first use and cached; every later call returns the same
// foreign value.
func (c *Callback[A, R]) JS(rt Runtime) jsval.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		panic(c.owner.bridge().misuse(CodeCallbackTornDown, c.owner, "", "JS on torn down callback"))
	}
	if !c.jsReady {
		c.js, c.jsRelease = rt.WrapFunc(c.thunk)
		c.jsReady = true
	}
	return c.js
}

// Equal reports whether c and other are the same callback.
func (c *Callback[A, R]) Equal(other *Callback[A, R]) bool {
	return c == other
}

// Alive reports whether c has not been torn down.
func (c *Callback[A, R]) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.dead
}

// IsOnce reports whether c is a call-once callback.
func (c *Callback[A, R]) IsOnce() bool {
	return c.once
}

// Release tears c down. A callback stored in a hook cell is released when
// the component unmounts.
func (c *Callback[A, R]) Release() {
	c.teardown()
}

func (c *Callback[A, R]) checkAlive(op string) {
	c.mu.Lock()
	dead, owner := c.dead, c.owner
	c.mu.Unlock()
	if dead {
		panic(owner.bridge().misuse(CodeCallbackTornDown, owner, "", op+" of torn down callback"))
	}
}

func (c *Callback[A, R]) thunk(args []jsval.Value) jsval.Value {
	arg := jsval.Undefined
	if len(args) > 0 {
		arg = args[0]
	}
	a, err := decode[A](arg)
	if err != nil {
		panic(&ConversionError{Err: err})
	}
	return encode(c.Call(a))
}

func (c *Callback[A, R]) releaseJS() {
	c.mu.Lock()
	release := c.jsRelease
	c.jsRelease = nil
	c.mu.Unlock()
	if release != nil {
		release()
	}
}

func (c *Callback[A, R]) teardown() {
	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return
	}
	c.dead = true
	owner := c.owner
	c.mu.Unlock()

	c.releaseJS()
	if owner != nil {
		owner.b.metrics.recordCallbackTeardown()
		owner.b.emit(Event{Kind: EventCallbackTeardown, Instance: owner.id, Component: owner.name})
	}
}

func (c *Callback[A, R]) bindTo(inst *instance) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead || c.owner == inst {
		return false
	}
	c.owner = inst
	return true
}

// bindable is a callback that can be tied to an instance.
type bindable interface {
	tearer
	bindTo(inst *instance) bool
}

func (inst *instance) bind(t bindable) {
	if t.bindTo(inst) {
		inst.bound = append(inst.bound, t)
	}
}

func (inst *instance) unbind(t tearer) {
	for i, x := range inst.bound {
		if x == t {
			inst.bound = append(inst.bound[:i], inst.bound[i+1:]...)
			return
		}
	}
}

func (inst *instance) bridge() *Bridge {
	if inst == nil {
		return nil
	}
	return inst.b
}

func decode[T any](v jsval.Value) (T, error) {
	var zero T
	if _, ok := any(zero).(Void); ok {
		return zero, nil
	}
	t, ok := jsval.As[T](v)
	if !ok {
		return zero, fmt.Errorf("cannot use %s as %T", v, zero)
	}
	return t, nil
}

func encode[T any](v T) jsval.Value {
	switch x := any(v).(type) {
	case Void:
		return jsval.Undefined
	case jsval.Value:
		return x
	}
	return jsval.Of(v)
}
