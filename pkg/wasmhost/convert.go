//go:build js && wasm

package wasmhost

import (
	"syscall/js"

	"github.com/vango-dev/vango-react/pkg/jsval"
)

func toJS(v jsval.Value) js.Value {
	switch {
	case v.IsUndefined():
		return js.Undefined()
	case v.IsNull():
		return js.Null()
	}
	if jv, ok := v.Ref().(js.Value); ok {
		return jv
	}
	return js.ValueOf(v.Ref())
}

func toJSAny(v any) js.Value {
	if jv, ok := v.(jsval.Value); ok {
		return toJS(jv)
	}
	return js.ValueOf(v)
}

// fromJS exports primitives to Go values so that jsval.As can read them;
// objects and functions stay references.
func fromJS(v js.Value) jsval.Value {
	switch v.Type() {
	case js.TypeUndefined:
		return jsval.Undefined
	case js.TypeNull:
		return jsval.Null
	case js.TypeBoolean:
		return jsval.Of(v.Bool())
	case js.TypeNumber:
		return jsval.Of(v.Float())
	case js.TypeString:
		return jsval.Of(v.String())
	}
	return jsval.Of(v)
}

func array(vals []jsval.Value) js.Value {
	items := make([]any, len(vals))
	for i, v := range vals {
		items[i] = toJS(v)
	}
	return js.ValueOf(items)
}
