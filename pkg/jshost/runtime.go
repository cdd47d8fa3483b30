package jshost

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vango-dev/vango-react/internal/bindings"
	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

// ErrReleased is returned when a released Go function is called from
// JavaScript.
var ErrReleased = errors.New("jshost: call of released function")

// Runtime is a react.Runtime backed by a goja VM.
type Runtime struct {
	vm     *goja.Runtime
	react  *goja.Object
	glue   *goja.Object
	root   *goja.Object
	logger *zap.Logger

	funcs map[*hostFunc]struct{}
}

type hostFunc struct {
	released bool
}

var _ react.Runtime = (*Runtime)(nil)

// New creates a VM, loads React and the bindings, and creates a root.
func New(opts ...Option) (*Runtime, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rt := &Runtime{
		vm:     goja.New(),
		logger: o.logger,
		funcs:  make(map[*hostFunc]struct{}),
	}
	rt.vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	rt.installConsole()

	if _, err := rt.vm.RunScript(o.name, o.source); err != nil {
		return nil, fmt.Errorf("jshost: load %s: %w", o.name, unwrapException(err))
	}
	reactObj := rt.vm.Get("React")
	if reactObj == nil || goja.IsUndefined(reactObj) {
		return nil, fmt.Errorf("jshost: %s does not define React", o.name)
	}

	rt.react = reactObj.ToObject(rt.vm)

	factory, err := rt.vm.RunScript(bindings.Name, bindings.Source())
	if err != nil {
		return nil, fmt.Errorf("jshost: load bindings: %w", unwrapException(err))
	}
	glue, err := rt.callValue(factory, reactObj)
	if err != nil {
		return nil, fmt.Errorf("jshost: init bindings: %w", err)
	}
	rt.glue = glue.ToObject(rt.vm)

	root, err := rt.callValue(reactObj.ToObject(rt.vm).Get("createRoot"))
	if err != nil {
		return nil, fmt.Errorf("jshost: createRoot: %w", err)
	}
	rt.root = root.ToObject(rt.vm)
	return rt, nil
}

func (rt *Runtime) installConsole() {
	console := rt.vm.NewObject()
	logf := func(level zapcore.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			if ce := rt.logger.Check(level, strings.Join(parts, " ")); ce != nil {
				ce.Write(zap.String("source", "console"))
			}
			return goja.Undefined()
		}
	}
	_ = console.Set("log", logf(zapcore.InfoLevel))
	_ = console.Set("warn", logf(zapcore.WarnLevel))
	_ = console.Set("error", logf(zapcore.ErrorLevel))
	_ = rt.vm.Set("console", console)
}

// ReactVersion returns React.version of the loaded bundle, or "unknown"
// when the bundle does not set it.
func (rt *Runtime) ReactVersion() string {
	v := rt.react.Get("version")
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "unknown"
	}
	return v.String()
}

// VM returns the underlying goja runtime.
func (rt *Runtime) VM() *goja.Runtime {
	return rt.vm
}

// RunScript evaluates src in the VM.
func (rt *Runtime) RunScript(name, src string) (jsval.Value, error) {
	v, err := rt.vm.RunScript(name, src)
	if err != nil {
		return jsval.Undefined, unwrapException(err)
	}
	return rt.fromJS(v), nil
}

// Set defines a global variable.
func (rt *Runtime) Set(name string, v jsval.Value) error {
	return rt.vm.Set(name, rt.toJS(v))
}

// Expose defines a global JavaScript function named name that renders the
// exported component. The returned func removes the reference.
func (rt *Runtime) Expose(name string, f react.ExportedFunc) (func(), error) {
	fn, release := f.JS(rt)
	if err := rt.Set(name, fn); err != nil {
		release()
		return nil, err
	}
	return release, nil
}

// Decode copies the foreign value v into the Go value pointed to by dst.
func (rt *Runtime) Decode(v jsval.Value, dst any) error {
	return rt.vm.ExportTo(rt.toJS(v), dst)
}

// Render renders el into the root and flushes the resulting work.
func (rt *Runtime) Render(el jsval.Value) error {
	_, err := rt.callMethod(rt.root, "render", rt.toJS(el))
	return err
}

// Unmount removes everything rendered into the root.
func (rt *Runtime) Unmount() error {
	_, err := rt.callMethod(rt.root, "unmount")
	return err
}

// HTML returns the root's rendered markup.
func (rt *Runtime) HTML() (string, error) {
	v, err := rt.callMethod(rt.root, "toString")
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// LiveFuncs returns the number of Go functions exposed to JavaScript and
// not yet released.
func (rt *Runtime) LiveFuncs() int {
	return len(rt.funcs)
}

// CreateElement implements react.Runtime.
func (rt *Runtime) CreateElement(tag string, props map[string]any, children ...jsval.Value) jsval.Value {
	var p goja.Value = goja.Null()
	if props != nil {
		obj := rt.vm.NewObject()
		for k, v := range props {
			_ = obj.Set(k, rt.toJSAny(v))
		}
		p = obj
	}
	return rt.fromJS(rt.glueCall("createElement", rt.vm.ToValue(tag), p, rt.array(children)))
}

// CreateComponent implements react.Runtime.
func (rt *Runtime) CreateComponent(name, key string, w react.Wrapper) jsval.Value {
	return rt.createComponent(name, key, rt.wrapper(w), false)
}

// CreateMemoComponent implements react.Runtime.
func (rt *Runtime) CreateMemoComponent(name, key string, w react.MemoWrapper) jsval.Value {
	obj := rt.wrapper(w)
	_ = obj.Set("equal", func(call goja.FunctionCall) goja.Value {
		defer rt.rethrow()
		other, ok := call.Argument(0).ToObject(rt.vm).Get("host").Export().(react.MemoWrapper)
		return rt.vm.ToValue(ok && w.Equal(other))
	})
	return rt.createComponent(name, key, obj, true)
}

func (rt *Runtime) createComponent(name, key string, w *goja.Object, memo bool) jsval.Value {
	return rt.fromJS(rt.glueCall("createComponent", rt.vm.ToValue(name), rt.vm.ToValue(key), w, rt.vm.ToValue(memo)))
}

func (rt *Runtime) wrapper(w react.Wrapper) *goja.Object {
	obj := rt.vm.NewObject()
	_ = obj.Set("host", w)
	_ = obj.Set("render", func(goja.FunctionCall) goja.Value {
		defer rt.rethrow()
		return rt.toJS(w.Render())
	})
	return obj
}

// UseRef implements react.Runtime.
func (rt *Runtime) UseRef(create func() react.Token, onFree func(react.Token)) react.Token {
	createFn := func(goja.FunctionCall) goja.Value {
		defer rt.rethrow()
		return rt.vm.ToValue(uint64(create()))
	}
	freeFn := func(call goja.FunctionCall) goja.Value {
		defer rt.rethrow()
		onFree(react.Token(call.Argument(0).ToInteger()))
		return goja.Undefined()
	}
	v := rt.glueCall("useRef", rt.vm.ToValue(createFn), rt.vm.ToValue(freeFn))
	return react.Token(v.ToInteger())
}

// UseState implements react.Runtime.
func (rt *Runtime) UseState() func() {
	set := rt.glueCall("useState")
	return func() {
		if _, err := rt.callValue(set); err != nil {
			panic(err)
		}
	}
}

// UseEffect implements react.Runtime.
func (rt *Runtime) UseEffect(thunk func(), marker uint64) {
	rt.glueCall("useEffect", rt.thunk(thunk), rt.vm.ToValue(marker))
}

// UseLayoutEffect implements react.Runtime.
func (rt *Runtime) UseLayoutEffect(thunk func(), marker uint64) {
	rt.glueCall("useLayoutEffect", rt.thunk(thunk), rt.vm.ToValue(marker))
}

func (rt *Runtime) thunk(fn func()) goja.Value {
	return rt.vm.ToValue(func(goja.FunctionCall) goja.Value {
		defer rt.rethrow()
		fn()
		return goja.Undefined()
	})
}

// UseContext implements react.Runtime.
func (rt *Runtime) UseContext(ctx jsval.Value) react.Token {
	return react.Token(rt.glueCall("useContext", rt.toJS(ctx)).ToInteger())
}

// CreateContext implements react.Runtime.
func (rt *Runtime) CreateContext(def react.Token) jsval.Value {
	return rt.fromJS(rt.glueCall("createContext", rt.vm.ToValue(uint64(def))))
}

// Provider implements react.Runtime.
func (rt *Runtime) Provider(ctx jsval.Value, value react.Token, children ...jsval.Value) jsval.Value {
	return rt.fromJS(rt.glueCall("provider", rt.toJS(ctx), rt.vm.ToValue(uint64(value)), rt.array(children)))
}

// UseDeferredValue implements react.Runtime.
func (rt *Runtime) UseDeferredValue(marker uint64) uint64 {
	return uint64(rt.glueCall("useDeferredValue", rt.vm.ToValue(marker)).ToInteger())
}

// UseTransition implements react.Runtime.
func (rt *Runtime) UseTransition() (bool, func(func())) {
	pair := rt.glueCall("useTransition").ToObject(rt.vm)
	pending := pair.Get("0").ToBoolean()
	startJS := pair.Get("1")
	start := func(fn func()) {
		if _, err := rt.callValue(startJS, rt.thunk(fn)); err != nil {
			panic(err)
		}
	}
	return pending, start
}

// UseID implements react.Runtime.
func (rt *Runtime) UseID() string {
	return rt.glueCall("useId").String()
}

// WrapFunc implements react.Runtime.
func (rt *Runtime) WrapFunc(fn func(args []jsval.Value) jsval.Value) (jsval.Value, func()) {
	hf := &hostFunc{}
	rt.funcs[hf] = struct{}{}
	v := rt.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if hf.released {
			panic(rt.vm.NewGoError(ErrReleased))
		}
		defer rt.rethrow()
		args := make([]jsval.Value, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = rt.fromJS(a)
		}
		return rt.toJS(fn(args))
	})
	release := func() {
		hf.released = true
		delete(rt.funcs, hf)
	}
	return rt.fromJS(v), release
}

// Invoke implements react.Runtime.
func (rt *Runtime) Invoke(fn jsval.Value, args ...jsval.Value) (jsval.Value, error) {
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = rt.toJS(a)
	}
	out, err := rt.callValue(rt.toJS(fn), vals...)
	if err != nil {
		return jsval.Undefined, err
	}
	return rt.fromJS(out), nil
}

// glueCall calls a bindings function. It is only used from inside the
// Runtime methods, which have no error return, so failures panic.
func (rt *Runtime) glueCall(name string, args ...goja.Value) goja.Value {
	v, err := rt.callMethod(rt.glue, name, args...)
	if err != nil {
		panic(err)
	}
	return v
}

func (rt *Runtime) callMethod(obj *goja.Object, name string, args ...goja.Value) (goja.Value, error) {
	fn, ok := goja.AssertFunction(obj.Get(name))
	if !ok {
		return nil, fmt.Errorf("jshost: %s is not a function", name)
	}
	out, err := fn(obj, args...)
	if err != nil {
		return nil, unwrapException(err)
	}
	return out, nil
}

func (rt *Runtime) callValue(v goja.Value, args ...goja.Value) (goja.Value, error) {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("jshost: %s is not a function", v)
	}
	out, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, unwrapException(err)
	}
	return out, nil
}

// rethrow turns a Go panic with an error value into a JavaScript exception
// so that it unwinds through the script's finally blocks. callValue turns it
// back into the original error on the Go side.
func (rt *Runtime) rethrow() {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok {
		panic(rt.vm.NewGoError(err))
	}
	panic(r)
}

// unwrapException returns the Go error carried by a JavaScript exception
// thrown from Go code, or err itself.
func unwrapException(err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return err
	}
	if inner := ex.Unwrap(); inner != nil {
		return inner
	}
	return err
}
