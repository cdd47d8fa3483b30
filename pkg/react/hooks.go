package react

import (
	"runtime"
	"strconv"

	"github.com/vango-dev/vango-react/pkg/jsval"
)

const explicitKeyPrefix = "key:"

// Hooks is the handle a component uses to call hooks. It is valid only
// during the Render call it was passed to.
type Hooks struct {
	inst   *instance
	render uint64
	name   string
}

// Key returns Hooks that give the next hook call the explicit key name
// instead of a key derived from its call site. Explicit keys must be unique
// within one render of a component.
//
//	first := react.UseState(h.Key("first"), func() string { return "" })
func (h *Hooks) Key(name string) *Hooks {
	h.check()
	return &Hooks{inst: h.inst, render: h.render, name: name}
}

// Runtime returns the foreign runtime the component is rendered by.
func (h *Hooks) Runtime() Runtime {
	h.check()
	return h.inst.b.rt
}

// Bridge returns the bridge the component is rendered by.
func (h *Hooks) Bridge() *Bridge {
	h.check()
	return h.inst.b
}

// Element creates an element for a child component.
func (h *Hooks) Element(c Component) jsval.Value {
	h.check()
	return h.inst.b.Element(c)
}

// check panics unless h belongs to the render in progress.
func (h *Hooks) check() {
	if h == nil || h.inst == nil {
		panic((*Bridge)(nil).misuse(CodeOutsideRender, nil, "", "nil Hooks"))
	}
	inst := h.inst
	if !inst.rendering || h.render != inst.renders || inst.freed {
		panic(inst.b.misuse(CodeOutsideRender, inst, h.name, "Hooks from a finished render"))
	}
}

// key returns the cell key for the hook being called. It must be called
// directly by the exported hook function so that the caller frame is the
// component's call site.
func (h *Hooks) key() string {
	h.check()
	inst := h.inst

	if h.name != "" {
		k := explicitKeyPrefix + h.name
		if _, dup := inst.seen[k]; dup {
			panic(inst.b.misuse(CodeDuplicateKey, inst, k, "explicit key used twice in one render"))
		}
		inst.seen[k] = struct{}{}
		return k
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "unknown", 0
	}
	site := file + ":" + strconv.Itoa(line)
	n := inst.sites[site]
	inst.sites[site] = n + 1

	k := site + "#" + strconv.Itoa(n)
	inst.seen[k] = struct{}{}
	return k
}
