// Package reacttest provides an in-process React runtime for testing
// components written with package react.
//
// The runtime follows React's rules closely enough to exercise the
// bridge: hooks are positional per component, every render is followed by
// a commit that runs layout effects and then passive effects, state
// updates are batched until Flush, transitions and deferred values render
// in a separate low-priority pass, and removed subtrees are unmounted.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    rt := reacttest.Mount(t, Counter{Start: 1})
//	    reacttest.ExpectContains(t, rt, "1")
//
//	    rt.Click(rt.Find("button"))
//	    reacttest.ExpectContains(t, rt, "2")
//	}
//
// # Effects
//
// By default passive effects run at the end of every commit. Call
// SetDeferEffects(true) to hold them until FlushEffects, which lets a test
// observe the state between commit and effect. As in React, held effects
// are flushed before the next render starts.
package reacttest
