package jshost

import (
	"embed"
	"io/fs"
)

//go:embed js
var scripts embed.FS

const minireactPath = "js/minireact.js"

// Scripts returns the embedded scripts, including the small React used when
// no bundle is supplied.
func Scripts() fs.FS {
	return scripts
}

func mustScript(path string) string {
	data, err := scripts.ReadFile(path)
	if err != nil {
		panic("jshost: missing embedded script " + path)
	}
	return string(data)
}
