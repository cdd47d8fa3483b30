package jsval

import (
	"fmt"
	"testing"
)

type node struct{ name string }

func TestValueIdentity(t *testing.T) {
	a := &node{name: "a"}
	b := &node{name: "a"}

	if !Of(a).Equal(Of(a)) {
		t.Error("same pointer should be equal")
	}
	if Of(a).Equal(Of(b)) {
		t.Error("structurally equal pointers must not be equal")
	}

	copied := Of(a)
	other := copied
	if !other.Equal(copied) {
		t.Error("copied handle should refer to the same value")
	}
}

func TestValuePrimitives(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same string", Of("x"), Of("x"), true},
		{"different string", Of("x"), Of("y"), false},
		{"int vs float", Of(1), Of(1.0), false},
		{"undefined", Undefined, Value{}, true},
		{"null", Null, Of(nil), true},
		{"null vs undefined", Null, Undefined, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal() = %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestAs(t *testing.T) {
	if n, ok := As[int](Of(int64(42))); !ok || n != 42 {
		t.Errorf("As[int](int64) = %v, %v", n, ok)
	}
	if _, ok := As[int](Of(1.5)); ok {
		t.Error("As[int](1.5) should fail")
	}
	if s, ok := As[string](Of("hi")); !ok || s != "hi" {
		t.Errorf("As[string] = %q, %v", s, ok)
	}
	if _, ok := As[string](Undefined); ok {
		t.Error("As[string](undefined) should fail")
	}
	if v, ok := As[Value](Undefined); !ok || !v.IsUndefined() {
		t.Error("As[Value] should always succeed")
	}
}

func TestAsNullish(t *testing.T) {
	tests := []struct {
		name string
		as   func(Value) (any, bool)
		in   Value
		ok   bool
	}{
		{"any undefined", func(v Value) (any, bool) { return As[any](v) }, Undefined, true},
		{"any null", func(v Value) (any, bool) { return As[any](v) }, Null, true},
		{"error null", func(v Value) (any, bool) { e, ok := As[error](v); return e, ok }, Null, true},
		{"stringer undefined", func(v Value) (any, bool) { s, ok := As[fmt.Stringer](v); return s, ok }, Undefined, true},
		{"string null", func(v Value) (any, bool) { return As[string](v) }, Null, false},
		{"int undefined", func(v Value) (any, bool) { return As[int](v) }, Undefined, false},
		{"pointer null", func(v Value) (any, bool) { return As[*int](v) }, Null, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.as(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != nil {
				t.Errorf("value = %v, want nil", got)
			}
		})
	}
}

func TestMustAsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustAs should panic on mismatch")
		}
	}()
	MustAs[int](Of("nope"))
}

func TestRefAndDefined(t *testing.T) {
	if Undefined.Ref() != nil || Null.Ref() != nil {
		t.Error("undefined and null should have nil Ref")
	}
	if Undefined.Defined() || Null.Defined() {
		t.Error("undefined and null are not defined")
	}
	if !Of(0).Defined() {
		t.Error("a defined value is defined")
	}
}
