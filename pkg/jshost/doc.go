// Package jshost runs React inside an embedded JavaScript engine and
// exposes it to Go components as a react.Runtime.
//
// The engine is goja. By default the package loads a small synchronous
// React that renders to an HTML string; WithReactSource loads another
// bundle instead, as long as it defines a global React object with the
// standard hooks and a createRoot function returning an object with render,
// unmount and toString methods.
//
//	rt, err := jshost.New()
//	if err != nil {
//	    return err
//	}
//	b, err := react.Use(rt)
//	if err != nil {
//	    return err
//	}
//	if err := rt.Render(b.Element(Counter{})); err != nil {
//	    return err
//	}
//	html, err := rt.HTML()
//
// A Runtime is not safe for concurrent use; drive it from one goroutine.
package jshost
