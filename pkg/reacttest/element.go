package reacttest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

// ComponentType is the React component type shared by all elements of one
// component name.
type ComponentType struct {
	Name string
	Memo bool
}

// Context is a context object created by CreateContext.
type Context struct {
	def react.Token
}

// Element is a React element. Exactly one of Tag, Type and Context is set.
type Element struct {
	Tag      string
	Type     *ComponentType
	Context  *Context
	Key      string
	Props    map[string]any
	Children []jsval.Value

	// Value is the token a provider element passes down.
	Value react.Token

	wrapper react.Wrapper
}

// Func is a foreign function created by WrapFunc.
type Func struct {
	fn       func(args []jsval.Value) jsval.Value
	released bool
	calls    int
}

// Released reports whether the function's release has been called.
func (f *Func) Released() bool {
	return f.released
}

// Calls returns how many times the function was invoked.
func (f *Func) Calls() int {
	return f.calls
}

// Node is a committed host element or text node.
type Node struct {
	Tag      string
	Text     string
	Props    map[string]any
	Children []*Node
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// HTML renders n as markup. Function props are omitted.
func (n *Node) HTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(n.Text)
		return
	}
	b.WriteString("<")
	b.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		if k != "key" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		s, ok := attrValue(n.Props[k])
		if !ok {
			continue
		}
		fmt.Fprintf(b, " %s=%q", k, s)
	}
	b.WriteString(">")
	for _, c := range n.Children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

func attrValue(v any) (string, bool) {
	if jv, ok := v.(jsval.Value); ok {
		if !jv.Defined() {
			return "", false
		}
		v = jv.Ref()
	}
	switch x := v.(type) {
	case string:
		return x, true
	case bool, int, int64, float64, uint64, int32, float32:
		return fmt.Sprint(x), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

// Find returns the first node in n's subtree, n included, with the given
// tag, or nil.
func (n *Node) Find(tag string) *Node {
	return n.FindBy(func(c *Node) bool { return c.Tag == tag })
}

// FindBy returns the first node in n's subtree, n included, matching pred.
func (n *Node) FindBy(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if m := c.FindBy(pred); m != nil {
			return m
		}
	}
	return nil
}
