package react

import "reflect"

type deferredSlot[T any] struct {
	value T
}

// UseDeferredValue returns v, or during urgent renders possibly the value
// of an earlier render. When the value it returns is stale, the runtime
// re-renders the component at low priority to deliver v. Values equal
// under reflect.DeepEqual count as unchanged.
func UseDeferredValue[T any](h *Hooks, v T) T {
	key := h.key()
	inst := h.inst
	created := false
	s := lookup(h, key, kindDeferred, func(*cell) *deferredSlot[T] {
		created = true
		return &deferredSlot[T]{value: v}
	})
	if created {
		return s.value
	}
	if inst.deferredAdvanced || reflect.DeepEqual(s.value, v) {
		s.value = v
	} else {
		inst.deferredStale = true
	}
	return s.value
}
