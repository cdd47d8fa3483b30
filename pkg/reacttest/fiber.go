package reacttest

import (
	"fmt"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

type fiberKind uint8

const (
	kindRoot fiberKind = iota
	kindHost
	kindText
	kindComponent
	kindProvider
)

// fiber is one mounted node of the tree.
type fiber struct {
	kind   fiberKind
	key    string
	parent *fiber
	depth  int

	tag   string
	props map[string]any
	text  string

	ctype   *ComponentType
	wrapper react.Wrapper
	hooks   []any
	renders int
	reads   map[*Context]struct{}

	ctx   *Context
	value react.Token

	children []*fiber
	mounted  bool

	layout  []func()
	passive []func()
}

// identity is what a child is matched on between renders.
type identity struct {
	typ any
	key string
}

func (f *fiber) identity(index int) identity {
	var typ any
	switch f.kind {
	case kindHost:
		typ = f.tag
	case kindText:
		typ = kindText
	case kindComponent:
		typ = f.ctype
	case kindProvider:
		typ = f.ctx
	}
	return identity{typ: typ, key: childKey(f.key, index)}
}

func elementIdentity(v jsval.Value, index int) identity {
	el, ok := v.Ref().(*Element)
	if !ok {
		return identity{typ: kindText, key: childKey("", index)}
	}
	var typ any
	switch {
	case el.Type != nil:
		typ = el.Type
	case el.Context != nil:
		typ = el.Context
	default:
		typ = el.Tag
	}
	return identity{typ: typ, key: childKey(el.Key, index)}
}

func childKey(key string, index int) string {
	if key != "" {
		return "k:" + key
	}
	return fmt.Sprintf("i:%d", index)
}

// renderComponent renders f and reconciles its output.
func (rt *Runtime) renderComponent(f *fiber) {
	delete(rt.urgent, f)
	if rt.lane == laneLow {
		delete(rt.low, f)
	}

	prev, prevIdx := rt.current, rt.hookIdx
	rt.current, rt.hookIdx = f, 0
	f.reads = make(map[*Context]struct{})
	out := func() jsval.Value {
		defer func() { rt.current, rt.hookIdx = prev, prevIdx }()
		v := f.wrapper.Render()
		if f.renders > 0 && rt.hookIdx != len(f.hooks) {
			panic(fmt.Sprintf("reacttest: <%s> rendered fewer hooks than during the previous render", f.ctype.Name))
		}
		return v
	}()
	f.renders++
	rt.renders[f.ctype.Name]++

	rt.reconcile(f, flatten(out))

	// Children commit their effects before their parents.
	rt.layout = append(rt.layout, f.layout...)
	rt.passive = append(rt.passive, f.passive...)
	f.layout, f.passive = nil, nil
}

// reconcile matches children against parent's current children by type
// and key, updating matches, mounting new ones and unmounting the rest.
func (rt *Runtime) reconcile(parent *fiber, children []jsval.Value) {
	old := make(map[identity]*fiber, len(parent.children))
	for i, c := range parent.children {
		old[c.identity(i)] = c
	}

	next := make([]*fiber, 0, len(children))
	for i, v := range children {
		id := elementIdentity(v, i)
		if f, ok := old[id]; ok {
			delete(old, id)
			rt.update(f, v)
			next = append(next, f)
			continue
		}
		next = append(next, rt.mount(parent, v))
	}
	for i, f := range parent.children {
		if old[f.identity(i)] == f {
			rt.unmount(f)
		}
	}
	parent.children = next
}

func (rt *Runtime) mount(parent *fiber, v jsval.Value) *fiber {
	f := &fiber{parent: parent, depth: parent.depth + 1, mounted: true}
	el, ok := v.Ref().(*Element)
	if !ok {
		f.kind = kindText
		f.text = fmt.Sprint(v.Ref())
		return f
	}
	f.key = el.Key
	switch {
	case el.Type != nil:
		f.kind = kindComponent
		f.ctype = el.Type
		f.wrapper = el.wrapper
		rt.renderComponent(f)
	case el.Context != nil:
		f.kind = kindProvider
		f.ctx = el.Context
		f.value = el.Value
		rt.reconcile(f, flattenAll(el.Children))
	default:
		f.kind = kindHost
		f.tag = el.Tag
		f.props = el.Props
		rt.reconcile(f, flattenAll(el.Children))
	}
	return f
}

func (rt *Runtime) update(f *fiber, v jsval.Value) {
	el, ok := v.Ref().(*Element)
	if !ok {
		f.text = fmt.Sprint(v.Ref())
		return
	}
	switch f.kind {
	case kindComponent:
		_, queued := rt.urgent[f]
		if rt.lane == laneLow {
			_, queued = rt.low[f]
		}
		if f.ctype.Memo && !queued {
			prev, ok1 := f.wrapper.(react.MemoWrapper)
			next, ok2 := el.wrapper.(react.MemoWrapper)
			if ok1 && ok2 && prev.Equal(next) {
				f.wrapper = el.wrapper
				return
			}
		}
		f.wrapper = el.wrapper
		rt.renderComponent(f)
	case kindProvider:
		if f.value != el.Value {
			f.value = el.Value
			rt.propagate(f, f.ctx)
		}
		rt.reconcile(f, flattenAll(el.Children))
	case kindHost:
		f.props = el.Props
		rt.reconcile(f, flattenAll(el.Children))
	}
}

// propagate schedules every reader of ctx below f.
func (rt *Runtime) propagate(f *fiber, ctx *Context) {
	for _, c := range f.children {
		if c.kind == kindProvider && c.ctx == ctx {
			continue
		}
		if _, reads := c.reads[ctx]; reads {
			if rt.lane == laneLow {
				rt.low[c] = struct{}{}
			} else {
				rt.urgent[c] = struct{}{}
			}
		}
		rt.propagate(c, ctx)
	}
}

// unmount removes f's subtree. The runtime's onFree calls run with the
// passive effects of the commit, parents first.
func (rt *Runtime) unmount(f *fiber) {
	f.mounted = false
	delete(rt.urgent, f)
	delete(rt.low, f)
	for _, h := range f.hooks {
		if r, ok := h.(*refHook); ok {
			tok, free := r.token, r.onFree
			rt.unmounts = append(rt.unmounts, func() { free(tok) })
		}
	}
	for _, c := range f.children {
		rt.unmount(c)
	}
}

func (f *fiber) walk(fn func(*fiber)) {
	fn(f)
	for _, c := range f.children {
		c.walk(fn)
	}
}

func (f *fiber) hostNodes() []*Node {
	var out []*Node
	for _, c := range f.children {
		switch c.kind {
		case kindText:
			out = append(out, &Node{Text: c.text})
		case kindHost:
			out = append(out, &Node{Tag: c.tag, Props: c.props, Children: c.hostNodes()})
		default:
			out = append(out, c.hostNodes()...)
		}
	}
	return out
}

func shallowest(queue map[*fiber]struct{}) *fiber {
	var best *fiber
	for f := range queue {
		if best == nil || f.depth < best.depth {
			best = f
		}
	}
	return best
}

// flatten turns a render result into a child list. Arrays are spread;
// undefined, null and booleans render nothing.
func flatten(v jsval.Value) []jsval.Value {
	switch x := v.Ref().(type) {
	case nil, bool:
		return nil
	case []jsval.Value:
		return flattenAll(x)
	}
	return []jsval.Value{v}
}

func flattenAll(list []jsval.Value) []jsval.Value {
	var out []jsval.Value
	for _, v := range list {
		out = append(out, flatten(v)...)
	}
	return out
}
