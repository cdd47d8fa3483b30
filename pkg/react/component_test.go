package react_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

type label struct {
	text    string
	renders *int
}

func (label) Name() string { return "Label" }

func (l label) Render(h *react.Hooks) jsval.Value {
	*l.renders++
	return text(h, "em", l.text)
}

func (l label) Equal(other react.Component) bool {
	o, ok := other.(label)
	return ok && o.text == l.text
}

func TestMemoComponentSkipsEqualProps(t *testing.T) {
	rt, b := newBridge(t)

	renders := 0
	render := func(s string) {
		rt.Render(rt.CreateElement("div", nil, b.Element(label{text: s, renders: &renders})))
	}

	render("a")
	render("a")
	render("a")
	if renders != 1 {
		t.Errorf("memo component rendered %d times with equal props, want 1", renders)
	}

	render("b")
	if renders != 2 {
		t.Errorf("memo component rendered %d times after props changed, want 2", renders)
	}
	if html := rt.HTML(); html != "<div><em>b</em></div>" {
		t.Errorf("HTML = %q", html)
	}
}

func TestMemoComponentRendersOnOwnState(t *testing.T) {
	rt, b := newBridge(t)

	var st *react.State[int]
	rt.Render(b.Element(stateLabel{state: &st}))
	st.Replace(3)
	rt.Flush()

	if html := rt.HTML(); html != "<b>3</b>" {
		t.Errorf("HTML = %q", html)
	}
}

type stateLabel struct {
	state **react.State[int]
}

func (stateLabel) Name() string                        { return "StateLabel" }
func (stateLabel) Equal(react.Component) bool          { return true }
func (s stateLabel) Render(h *react.Hooks) jsval.Value {
	*s.state = react.UseState(h, func() int { return 0 })
	return text(h, "b", (*s.state).Value())
}

func TestKeyedChildrenKeepState(t *testing.T) {
	rt, b := newBridge(t)

	states := map[string]*react.State[string]{}
	item := func(key string) react.Component {
		return keyedFunc{key: key, funcComponent: funcComponent{name: "Row", render: func(h *react.Hooks) jsval.Value {
			st := react.UseState(h, func() string { return "state-" + key })
			states[key] = st
			return text(h, "li", st.Value())
		}}}
	}
	list := func(keys ...string) {
		children := make([]jsval.Value, 0, len(keys))
		for _, k := range keys {
			children = append(children, b.Element(item(k)))
		}
		rt.Render(rt.CreateElement("ul", nil, children...))
	}

	list("a", "b")
	states["a"].Replace("edited")
	rt.Flush()

	list("b", "a")
	if html := rt.HTML(); html != "<ul><li>state-b</li><li>edited</li></ul>" {
		t.Errorf("HTML after reorder = %q", html)
	}

	old := states["b"]
	list("a")
	if old.Alive() {
		t.Error("removed row still alive")
	}
}

func TestFuncComponent(t *testing.T) {
	rt, b := newBridge(t)

	c := react.Func("Hello", func(h *react.Hooks) jsval.Value {
		return text(h, "h1", "hi")
	})
	if c.Name() != "Hello" {
		t.Errorf("Name() = %q", c.Name())
	}
	rt.Render(b.Element(c))
	if rt.HTML() != "<h1>hi</h1>" {
		t.Errorf("HTML = %q", rt.HTML())
	}
	if rt.RenderCount("Hello") != 1 {
		t.Errorf("RenderCount = %d", rt.RenderCount("Hello"))
	}
}

func TestHooksElementRendersChild(t *testing.T) {
	rt, b := newBridge(t)

	child := react.Func("Child", func(h *react.Hooks) jsval.Value { return text(h, "i", "child") })
	rt.Render(b.Element(react.Func("Parent", func(h *react.Hooks) jsval.Value {
		return h.Runtime().CreateElement("section", nil, h.Element(child))
	})))

	if rt.HTML() != "<section><i>child</i></section>" {
		t.Errorf("HTML = %q", rt.HTML())
	}
}

func decodeCount(v jsval.Value) (int, error) {
	switch x := v.Ref().(type) {
	case int:
		return x, nil
	case string:
		return strconv.Atoi(x)
	}
	return 0, errors.New("count must be a number")
}

func TestExport(t *testing.T) {
	rt, b := newBridge(t)

	counter := react.Export(b, "Count", decodeCount, func(h *react.Hooks, n int) jsval.Value {
		return text(h, "span", n*10)
	})

	el, err := counter(jsval.Of("4"))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	rt.Render(el)
	if rt.HTML() != "<span>40</span>" {
		t.Errorf("HTML = %q", rt.HTML())
	}

	_, err = counter(jsval.Of(true))
	var conv *react.ConversionError
	if !errors.As(err, &conv) {
		t.Fatalf("err = %v, want *ConversionError", err)
	}
	if conv.Component != "Count" || !errors.Is(err, react.ErrConversion) {
		t.Errorf("conversion error = %+v", conv)
	}
	if conv.Diagnostic().Code != "R020" {
		t.Errorf("Diagnostic().Code = %q", conv.Diagnostic().Code)
	}

	fn, release := counter.JS(rt)
	defer release()
	if _, err := rt.Invoke(fn, jsval.Of(true)); !errors.Is(err, react.ErrConversion) {
		t.Errorf("foreign call with bad props: err = %v", err)
	}
	if _, err := rt.Invoke(fn, jsval.Of(2)); err != nil {
		t.Errorf("foreign call with good props: %v", err)
	}
}
