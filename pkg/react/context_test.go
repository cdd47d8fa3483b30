package react_test

import (
	"errors"
	"testing"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

func TestUseContextDefault(t *testing.T) {
	rt, b := newBridge(t)
	theme := react.CreateContext(b, "light")

	var got string
	rt.Render(b.Element(funcComponent{name: "Consumer", render: func(h *react.Hooks) jsval.Value {
		got = react.UseContext(h, theme)
		return text(h, "span", got)
	}}))

	if got != "light" {
		t.Errorf("UseContext = %q, want default %q", got, "light")
	}
	if theme.Default() != "light" {
		t.Errorf("Default() = %q", theme.Default())
	}
	if b.Contexts().Len() != 1 {
		t.Errorf("Contexts().Len() = %d, want 1", b.Contexts().Len())
	}
}

func TestUseContextProvider(t *testing.T) {
	rt, b := newBridge(t)
	theme := react.CreateContext(b, "light")

	var seen []string
	consumer := funcComponent{name: "Consumer", render: func(h *react.Hooks) jsval.Value {
		v := react.UseContext(h, theme)
		seen = append(seen, v)
		return text(h, "span", v)
	}}

	render := func(value string) {
		rt.Render(rt.CreateElement("div", nil,
			b.Element(theme.Provider(value, b.Element(consumer))),
			b.Element(consumer),
		))
	}

	render("dark")
	if html := rt.HTML(); html != "<div><span>dark</span><span>light</span></div>" {
		t.Fatalf("HTML = %q", html)
	}

	render("blue")
	if html := rt.HTML(); html != "<div><span>blue</span><span>light</span></div>" {
		t.Fatalf("HTML after provider update = %q", html)
	}
}

func TestUseContextNestedProviders(t *testing.T) {
	rt, b := newBridge(t)
	depth := react.CreateContext(b, 0)

	var got int
	leaf := funcComponent{name: "Leaf", render: func(h *react.Hooks) jsval.Value {
		got = react.UseContext(h, depth)
		return jsval.Null
	}}
	rt.Render(b.Element(depth.Provider(1, b.Element(depth.Provider(2, b.Element(leaf))))))

	if got != 2 {
		t.Errorf("UseContext = %d, want nearest provider value 2", got)
	}
}

func TestContextsAreIndependent(t *testing.T) {
	rt, b := newBridge(t)
	lang := react.CreateContext(b, "en")
	size := react.CreateContext(b, 12)

	var gotLang string
	var gotSize int
	leaf := funcComponent{name: "Leaf", render: func(h *react.Hooks) jsval.Value {
		gotLang = react.UseContext(h, lang)
		gotSize = react.UseContext(h, size)
		return jsval.Null
	}}
	rt.Render(b.Element(lang.Provider("fr", b.Element(leaf))))

	if gotLang != "fr" || gotSize != 12 {
		t.Errorf("got (%q, %d), want (\"fr\", 12)", gotLang, gotSize)
	}
	if lang.ID() == size.ID() {
		t.Error("contexts share an id")
	}
}

func TestUseContextNilInterfaceDefault(t *testing.T) {
	rt, b := newBridge(t)
	failure := react.CreateContext[error](b, nil)
	extra := react.CreateContext[any](b, nil)

	var got []error
	var other any = "unset"
	consumer := funcComponent{name: "Consumer", render: func(h *react.Hooks) jsval.Value {
		err := react.UseContext(h, failure)
		other = react.UseContext(h, extra)
		got = append(got, err)
		if err != nil {
			return text(h, "span", err.Error())
		}
		return text(h, "span", "ok")
	}}

	rt.Render(b.Element(consumer))
	if got[0] != nil || other != nil {
		t.Fatalf("defaults = %v, %v; want nil, nil", got[0], other)
	}
	if rt.HTML() != "<span>ok</span>" {
		t.Errorf("HTML = %q", rt.HTML())
	}
	if failure.Default() != nil {
		t.Errorf("Default() = %v, want nil", failure.Default())
	}

	boom := errors.New("boom")
	rt.Render(b.Element(failure.Provider(boom, b.Element(consumer))))
	if last := got[len(got)-1]; last != boom {
		t.Errorf("provided = %v, want %v", last, boom)
	}
	if rt.HTML() != "<span>boom</span>" {
		t.Errorf("HTML = %q", rt.HTML())
	}
}
