// Package errors provides structured, coded error values for vango-react.
//
// Every failure the bridge can report has a code (for example "R001") that
// maps to a registered template:
//   - a short message describing the failure
//   - a longer explanation
//   - a hint on how to fix it
//
// # Categories
//
//   - lifetime: a hook cell, callback or instance was used after teardown
//   - usage: hooks were called in a way the bridge cannot support
//   - conversion: a value crossing the foreign boundary had the wrong shape
//   - config: configuration could not be loaded
//   - cli: command line failures
//
// # Usage
//
//	err := errors.New("R001").
//	    WithLocation("app/counter.go", 42).
//	    WithDetail(`cell "count" of <Counter#7>`)
//
//	fmt.Println(err.Format())
//	// ERROR R001: Hook cell used after unmount
//	//
//	//   app/counter.go:42
//	//
//	//   cell "count" of <Counter#7>
//	//
//	//   Hint: Do not keep RefContainer or State handles in goroutines or
//	//   globals that outlive the component.
package errors
