// Package wasmhost drives the React of a browser page from a Go program
// compiled to WebAssembly.
//
// The page must load React and ReactDOM as the globals React and ReactDOM
// before starting the Go program:
//
//	rt, err := wasmhost.New()
//	if err != nil {
//	    return err
//	}
//	b, err := react.Use(rt)
//	if err != nil {
//	    return err
//	}
//	if err := rt.Mount("#app", b.Element(App{})); err != nil {
//	    return err
//	}
//	select {}
package wasmhost
