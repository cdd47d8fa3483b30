// Package jsval provides the opaque handle used to pass values across the
// boundary between Go and a JS host runtime.
//
// A Value wraps exactly one foreign reference. Copying a Value copies the
// reference, never the referent, and the Go side never frees the referent:
// it lives as long as the foreign runtime's garbage collector keeps it.
//
// Runtimes decide what a reference is. The browser runtime stores a
// syscall/js value, the goja runtime stores a goja value, and the simulated
// runtime used in tests stores plain Go values. Primitive values crossing
// the boundary are exported to their Go form so host code can use As:
//
//	n, ok := jsval.As[int](v)
//	if !ok {
//	    return fmt.Errorf("expected a number, got %s", v)
//	}
package jsval
