package jshost

import (
	"github.com/dop251/goja"

	"github.com/vango-dev/vango-react/pkg/jsval"
)

// toJS converts a handle to a goja value. Handles created by this runtime
// wrap goja values; anything else is converted with ToValue.
func (rt *Runtime) toJS(v jsval.Value) goja.Value {
	switch {
	case v.IsUndefined():
		return goja.Undefined()
	case v.IsNull():
		return goja.Null()
	}
	if gv, ok := v.Ref().(goja.Value); ok {
		return gv
	}
	return rt.vm.ToValue(v.Ref())
}

func (rt *Runtime) toJSAny(v any) goja.Value {
	if jv, ok := v.(jsval.Value); ok {
		return rt.toJS(jv)
	}
	return rt.vm.ToValue(v)
}

// fromJS converts a goja value to a handle. Primitives are exported to Go
// values so that jsval.As can read them; objects stay references.
func (rt *Runtime) fromJS(v goja.Value) jsval.Value {
	switch {
	case v == nil || goja.IsUndefined(v):
		return jsval.Undefined
	case goja.IsNull(v):
		return jsval.Null
	}
	if obj, ok := v.(*goja.Object); ok {
		return jsval.Of(obj)
	}
	return jsval.Of(v.Export())
}

func (rt *Runtime) array(vals []jsval.Value) goja.Value {
	items := make([]any, len(vals))
	for i, v := range vals {
		items[i] = rt.toJS(v)
	}
	return rt.vm.NewArray(items...)
}
