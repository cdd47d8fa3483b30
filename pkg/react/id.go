package react

import "strconv"

type idSlot struct {
	n int
}

// UseID returns an id that is unique among the mounted components and
// stable for the lifetime of this one, suitable for linking labels and
// inputs.
func UseID(h *Hooks) string {
	key := h.key()
	inst := h.inst
	s := lookup(h, key, kindID, func(*cell) *idSlot {
		s := &idSlot{n: inst.ids}
		inst.ids++
		return s
	})
	if s.n == 0 {
		return inst.reactID
	}
	return inst.reactID + strconv.Itoa(s.n)
}
