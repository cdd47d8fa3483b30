// Package react lets Go components drive React's renderer and hook model.
//
// The package sits between Go code and a foreign React runtime (a browser
// page through syscall/js, an embedded JS engine, or the simulated runtime in
// pkg/reacttest). It owns every piece of host state a component keeps
// across renders and guarantees that state is released exactly once, when
// React unmounts the component.
//
// # Attaching a runtime
//
//	bridge, err := react.Use(rt, react.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	root := bridge.Element(App{})
//
// # Components
//
// A component is any value implementing Component. Render receives the
// component's *Hooks, which is valid only for the duration of that call:
//
//	type Counter struct{ Start int }
//
//	func (Counter) Name() string { return "Counter" }
//
//	func (c Counter) Render(h *react.Hooks) jsval.Value {
//	    count := react.UseState(h, func() int { return c.Start })
//	    react.UseEffect(h, func() func() {
//	        log.Printf("count is %d", count.Value())
//	        return nil
//	    }, react.Some(count.Value()))
//	    return h.Runtime().CreateElement("button", map[string]any{
//	        "onClick": react.NewCallback(func(react.Void) react.Void {
//	            count.Set(func(n int) int { return n + 1 })
//	            return react.Void{}
//	        }).JS(h.Runtime()),
//	    }, jsval.Of(count.Value()))
//	}
//
// # Hook keys
//
// Hook state is kept in a per-instance arena keyed by call site rather than
// by call order. A hook's key defaults to the file and line of the call plus
// an occurrence counter, so hooks inside conditionals and loops keep their
// state as long as the iteration order is stable. Use Hooks.Key to name a
// hook explicitly:
//
//	name := react.UseState(h.Key("name"), func() string { return "" })
//
// # Lifetime
//
// Every RefContainer, State and bound Callback belongs to exactly one
// component instance. When React unmounts the instance the bridge runs the
// remaining effect teardowns, releases the cells and tears down the bound
// callbacks. Touching any of them afterwards panics with a *MisuseError.
package react
