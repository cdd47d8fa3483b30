package jsval

import (
	"fmt"
	"reflect"
)

type undefinedType struct{}

type nullType struct{}

// Undefined is the JS undefined value.
var Undefined = Value{ref: undefinedType{}}

// Null is the JS null value.
var Null = Value{ref: nullType{}}

// Value is an opaque handle to a single value living in the foreign runtime.
// The zero Value is Undefined.
type Value struct {
	ref any
}

// Of wraps a foreign reference. Of(nil) is Null.
func Of(ref any) Value {
	if ref == nil {
		return Null
	}
	if v, ok := ref.(Value); ok {
		return v
	}
	return Value{ref: ref}
}

// Ref returns the wrapped reference. Undefined and Null return nil.
func (v Value) Ref() any {
	switch v.ref.(type) {
	case nil, undefinedType, nullType:
		return nil
	}
	return v.ref
}

// IsUndefined reports whether v is the JS undefined value.
func (v Value) IsUndefined() bool {
	switch v.ref.(type) {
	case nil, undefinedType:
		return true
	}
	return false
}

// IsNull reports whether v is the JS null value.
func (v Value) IsNull() bool {
	_, ok := v.ref.(nullType)
	return ok
}

// Defined reports whether v is neither undefined nor null.
func (v Value) Defined() bool {
	return !v.IsUndefined() && !v.IsNull()
}

// Equal reports whether v and other refer to the same foreign value.
// Reference types (pointers, maps, slices, funcs, channels) compare by
// identity; primitives compare by value, as they do in JS.
func (v Value) Equal(other Value) bool {
	if v.IsUndefined() || other.IsUndefined() {
		return v.IsUndefined() && other.IsUndefined()
	}
	a, b := v.ref, other.ref
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if ra.Comparable() {
		return a == b
	}
	return false
}

// String returns a short description for diagnostics.
func (v Value) String() string {
	switch {
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "null"
	}
	if s, ok := v.ref.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T(%v)", v.ref, v.ref)
}

// As extracts the wrapped reference as T.
//
// Numbers exported by JS engines arrive as int64 or float64; As converts
// between numeric kinds when T is numeric and the value is representable.
func As[T any](v Value) (T, bool) {
	var zero T
	ref := v.Ref()
	if ref == nil {
		if _, ok := any(zero).(Value); ok {
			return any(v).(T), true
		}
		if reflect.TypeOf(zero) == nil {
			// Interface types hold undefined and null as nil.
			return zero, true
		}
		return zero, false
	}
	if t, ok := ref.(T); ok {
		return t, true
	}
	if _, ok := any(zero).(Value); ok {
		return any(v).(T), true
	}
	target := reflect.TypeOf(zero)
	if target == nil {
		// T is an interface type that ref does not implement.
		return zero, false
	}
	rv := reflect.ValueOf(ref)
	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) && rv.CanConvert(target) {
		out := rv.Convert(target)
		if !reflect.ValueOf(out.Interface()).Convert(rv.Type()).Equal(rv) {
			return zero, false
		}
		return out.Interface().(T), true
	}
	return zero, false
}

// MustAs is As that panics on a type mismatch.
func MustAs[T any](v Value) T {
	t, ok := As[T](v)
	if !ok {
		var zero T
		panic(fmt.Sprintf("jsval: cannot use %s as %T", v, zero))
	}
	return t
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
