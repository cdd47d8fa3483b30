package react_test

import (
	"testing"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
	"github.com/vango-dev/vango-react/pkg/reacttest"
)

// newBridge attaches a bridge to a fresh simulated runtime.
func newBridge(t *testing.T, opts ...react.Option) (*reacttest.Runtime, *react.Bridge) {
	t.Helper()
	rt := reacttest.New()
	b, err := react.Use(rt, opts...)
	if err != nil {
		t.Fatalf("react.Use: %v", err)
	}
	t.Cleanup(b.Detach)
	return rt, b
}

// expectMisuse runs fn and asserts that it panics with a *MisuseError
// carrying code.
func expectMisuse(t *testing.T, code string, fn func()) *react.MisuseError {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	err, ok := got.(*react.MisuseError)
	if !ok {
		t.Fatalf("expected *MisuseError panic with %s, got %#v", code, got)
	}
	if err.Code != code {
		t.Fatalf("misuse code = %s, want %s (%v)", err.Code, code, err)
	}
	return err
}

func text(h *react.Hooks, tag string, children ...any) jsval.Value {
	vals := make([]jsval.Value, 0, len(children))
	for _, c := range children {
		vals = append(vals, jsval.Of(c))
	}
	return h.Runtime().CreateElement(tag, nil, vals...)
}

// funcComponent is a component whose render function is supplied by the test.
type funcComponent struct {
	name   string
	render func(h *react.Hooks) jsval.Value
}

func (c funcComponent) Name() string                      { return c.name }
func (c funcComponent) Render(h *react.Hooks) jsval.Value { return c.render(h) }

// rerenderer captures a component's rerender trigger so tests can force
// renders without events.
type rerenderer struct {
	state *react.State[int]
}

func (r *rerenderer) use(h *react.Hooks) {
	r.state = react.UseState(h.Key("rerender"), func() int { return 0 })
}

func (r *rerenderer) bump() {
	r.state.Set(func(n int) int { return n + 1 })
}

type releaseCounter struct {
	count *int
}

func (r releaseCounter) Release() {
	*r.count++
}
