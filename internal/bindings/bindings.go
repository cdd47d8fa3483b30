// Package bindings holds the script that adapts a React implementation to
// the primitives of react.Runtime. It is shared by the hosts that run React
// through a JavaScript engine.
package bindings

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
)

//go:embed bindings.js
var source string

// Name is the script name used in stack traces.
const Name = "vango-react/bindings.js"

// Source returns the bindings script. Evaluating it yields a function that
// takes the React object and returns the bindings object.
func Source() string {
	return source
}

// Digest returns the first twelve hex digits of the script's SHA-256, which
// identifies the bindings a build carries.
func Digest() string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:12]
}
