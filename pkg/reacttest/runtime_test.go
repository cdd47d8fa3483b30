package reacttest_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
	"github.com/vango-dev/vango-react/pkg/reacttest"
)

type counter struct{}

func (counter) Name() string { return "Counter" }

func (counter) Render(h *react.Hooks) jsval.Value {
	count := react.UseState(h, func() int { return 0 })
	inc := react.UseCallback(h, func(react.Void) react.Void {
		count.Set(func(n int) int { return n + 1 })
		return react.Void{}
	}, react.DepsNone)

	rt := h.Runtime()
	return rt.CreateElement("div", map[string]any{"class": "counter"},
		rt.CreateElement("span", nil, jsval.Of(count.Value())),
		rt.CreateElement("button", map[string]any{"onClick": inc.JS(rt)}, jsval.Of("+")),
	)
}

func TestMountAndClick(t *testing.T) {
	rt := reacttest.Mount(t, counter{})

	reacttest.ExpectElement(t, rt, "button")
	reacttest.ExpectAttribute(t, rt, "class", "counter")
	reacttest.ExpectMounted(t, rt, "Counter", 1)

	rt.Click(rt.Find("button"))
	rt.Click(rt.Find("button"))

	if got := rt.Find("span").TextContent(); got != "2" {
		t.Errorf("count = %q, want 2", got)
	}
	reacttest.ExpectNotContains(t, rt, "onClick")
	if got := rt.RenderCount("Counter"); got != 3 {
		t.Errorf("RenderCount = %d, want 3", got)
	}
}

func TestUnmountReleasesEverything(t *testing.T) {
	rt := reacttest.New()
	b, err := react.Use(rt)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Detach()

	rt.Render(b.Element(counter{}))
	if rt.LiveFuncs() != 1 {
		t.Errorf("LiveFuncs = %d, want 1", rt.LiveFuncs())
	}

	rt.Unmount()
	if rt.LiveFuncs() != 0 {
		t.Errorf("LiveFuncs after unmount = %d, want 0", rt.LiveFuncs())
	}
	if rt.HTML() != "" {
		t.Errorf("HTML after unmount = %q", rt.HTML())
	}
	if s := b.Stats(); s.Instances != 0 || s.TokensLive != 0 {
		t.Errorf("Stats after unmount = %+v", s)
	}
}

func TestInvokeReleasedFunc(t *testing.T) {
	rt := reacttest.New()
	fn, release := rt.WrapFunc(func(args []jsval.Value) jsval.Value {
		return jsval.Of(len(args))
	})

	out, err := rt.Invoke(fn, jsval.Of(1), jsval.Of(2))
	if err != nil || out.Ref() != 2 {
		t.Fatalf("Invoke = %v, %v", out, err)
	}
	f := jsval.MustAs[*reacttest.Func](fn)
	if f.Calls() != 1 {
		t.Errorf("Calls = %d", f.Calls())
	}

	release()
	if !f.Released() {
		t.Error("Released = false after release")
	}
	if _, err := rt.Invoke(fn); !errors.Is(err, reacttest.ErrReleased) {
		t.Errorf("Invoke after release err = %v", err)
	}
	if _, err := rt.Invoke(jsval.Of(3)); err == nil {
		t.Error("Invoke of a non-function should fail")
	}
}

func TestInvokeSurfacesErrorPanics(t *testing.T) {
	rt := reacttest.New()
	boom := errors.New("boom")
	fn, _ := rt.WrapFunc(func([]jsval.Value) jsval.Value { panic(boom) })

	if _, err := rt.Invoke(fn); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestFireErrors(t *testing.T) {
	rt := reacttest.Mount(t, counter{})

	if _, err := rt.Fire(nil, "onClick"); err == nil {
		t.Error("Fire on nil node should fail")
	}
	if _, err := rt.Fire(rt.Find("span"), "onClick"); err == nil {
		t.Error("Fire of a missing prop should fail")
	}
}

func TestHookOrderChangePanics(t *testing.T) {
	rt := reacttest.New()
	b, err := react.Use(rt)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Detach()

	// Calling the runtime's hooks directly bypasses the bridge's keying,
	// so a conditional call shifts the runtime's hook order.
	extra := false
	grow := react.Func("Grow", func(h *react.Hooks) jsval.Value {
		if extra {
			h.Runtime().UseState()
		}
		return jsval.Null
	})
	rt.Render(b.Element(grow))

	extra = true
	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "changed from") {
			t.Errorf("recover = %v, want hook order panic", r)
		}
	}()
	rt.Render(b.Element(grow))
	t.Error("expected a panic")
}

func TestNodeHTML(t *testing.T) {
	n := &reacttest.Node{
		Tag:   "a",
		Props: map[string]any{"href": "/x", "id": jsval.Of("link"), "hidden": true, "onClick": func() {}},
		Children: []*reacttest.Node{
			{Text: "go "},
			{Tag: "b", Children: []*reacttest.Node{{Text: "now"}}},
		},
	}
	want := `<a hidden="true" href="/x" id="link">go <b>now</b></a>`
	if got := n.HTML(); got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
	if got := n.TextContent(); got != "go now" {
		t.Errorf("TextContent = %q", got)
	}
	if n.Find("b") == nil || n.Find("i") != nil {
		t.Error("Find returned the wrong node")
	}
}
