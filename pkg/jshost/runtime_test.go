package jshost_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vango-dev/vango-react/pkg/jshost"
	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

func setup(t *testing.T, opts ...jshost.Option) (*jshost.Runtime, *react.Bridge) {
	t.Helper()
	rt, err := jshost.New(opts...)
	require.NoError(t, err)
	b, err := react.Use(rt)
	require.NoError(t, err)
	t.Cleanup(b.Detach)
	return rt, b
}

func html(t *testing.T, rt *jshost.Runtime) string {
	t.Helper()
	s, err := rt.HTML()
	require.NoError(t, err)
	return s
}

type counter struct {
	inc **react.Callback[react.Void, react.Void]
}

func (counter) Name() string { return "Counter" }

func (c counter) Render(h *react.Hooks) jsval.Value {
	count := react.UseState(h, func() int { return 0 })
	inc := react.UseCallback(h, func(react.Void) react.Void {
		count.Set(func(n int) int { return n + 1 })
		return react.Void{}
	}, react.DepsNone)
	*c.inc = inc

	rt := h.Runtime()
	return rt.CreateElement("div", map[string]any{"class": "counter"},
		rt.CreateElement("span", nil, jsval.Of(count.Value())),
		rt.CreateElement("button", map[string]any{"onClick": inc.JS(rt)}, jsval.Of("+")),
	)
}

func TestRenderAndUpdate(t *testing.T) {
	rt, b := setup(t)

	var inc *react.Callback[react.Void, react.Void]
	require.NoError(t, rt.Render(b.Element(counter{inc: &inc})))
	assert.Equal(t, `<div class="counter"><span>0</span><button>+</button></div>`, html(t, rt))

	_, err := rt.Invoke(inc.JS(rt))
	require.NoError(t, err)
	_, err = rt.Invoke(inc.JS(rt))
	require.NoError(t, err)
	assert.Equal(t, `<div class="counter"><span>2</span><button>+</button></div>`, html(t, rt))

	require.NoError(t, rt.Unmount())
	assert.Equal(t, "", html(t, rt))
	assert.Equal(t, 0, rt.LiveFuncs(), "callback JS functions should be released")
	assert.Equal(t, 0, b.Stats().Instances)
	assert.Equal(t, 0, b.Stats().TokensLive)
}

func TestEffectsRunAndTearDown(t *testing.T) {
	rt, b := setup(t)

	var log []string
	var st *react.State[int]
	require.NoError(t, rt.Render(b.Element(react.Func("Effects", func(h *react.Hooks) jsval.Value {
		st = react.UseState(h, func() int { return 0 })
		n := st.Value()
		react.UseLayoutEffect(h, func() func() {
			log = append(log, "layout")
			return func() { log = append(log, "layout teardown") }
		}, react.DepsNone)
		react.UseEffect(h, func() func() {
			log = append(log, "effect")
			return func() { log = append(log, "effect teardown") }
		}, react.Some(n))
		return jsval.Null
	}))))

	assert.Equal(t, []string{"layout", "effect"}, log)

	log = nil
	st.Replace(1)
	assert.Equal(t, []string{"effect teardown", "effect"}, log)

	log = nil
	require.NoError(t, rt.Unmount())
	assert.Equal(t, []string{"layout teardown", "effect teardown"}, log)
	assert.False(t, st.Alive())
}

func TestContextThroughProvider(t *testing.T) {
	rt, b := setup(t)

	theme := react.CreateContext(b, "light")
	consumer := react.Func("Consumer", func(h *react.Hooks) jsval.Value {
		return h.Runtime().CreateElement("i", nil, jsval.Of(react.UseContext(h, theme)))
	})

	require.NoError(t, rt.Render(rt.CreateElement("p", nil,
		b.Element(theme.Provider("dark", b.Element(consumer))),
		b.Element(consumer),
	)))
	assert.Equal(t, "<p><i>dark</i><i>light</i></p>", html(t, rt))
}

type label struct {
	text    string
	renders *int
}

func (label) Name() string { return "Label" }

func (l label) Render(h *react.Hooks) jsval.Value {
	*l.renders++
	return h.Runtime().CreateElement("em", nil, jsval.Of(l.text))
}

func (l label) Equal(other react.Component) bool {
	o, ok := other.(label)
	return ok && o.text == l.text
}

func TestMemoComponent(t *testing.T) {
	rt, b := setup(t)

	renders := 0
	render := func(s string) {
		require.NoError(t, rt.Render(rt.CreateElement("div", nil, b.Element(label{text: s, renders: &renders}))))
	}
	render("a")
	render("a")
	assert.Equal(t, 1, renders)
	render("b")
	assert.Equal(t, 2, renders)
	assert.Equal(t, "<div><em>b</em></div>", html(t, rt))
}

type greetingProps struct {
	Name string `json:"name"`
}

func TestExposeExportedComponent(t *testing.T) {
	rt, b := setup(t)

	greeting := react.Export(b, "Greeting", func(v jsval.Value) (greetingProps, error) {
		var p greetingProps
		if !v.Defined() {
			return p, errors.New("props required")
		}
		err := rt.Decode(v, &p)
		return p, err
	}, func(h *react.Hooks, p greetingProps) jsval.Value {
		return h.Runtime().CreateElement("h1", nil, jsval.Of("hello "+p.Name))
	})

	release, err := rt.Expose("Greeting", greeting)
	require.NoError(t, err)
	defer release()

	el, err := rt.RunScript("main.js", `Greeting({name: "gopher"})`)
	require.NoError(t, err)
	require.NoError(t, rt.Render(el))
	assert.Equal(t, "<h1>hello gopher</h1>", html(t, rt))

	_, err = rt.RunScript("bad.js", `Greeting()`)
	assert.ErrorIs(t, err, react.ErrConversion)
}

func TestMisuseSurfacesAsError(t *testing.T) {
	rt, b := setup(t)

	err := rt.Render(b.Element(react.Func("Dup", func(h *react.Hooks) jsval.Value {
		react.UseRef(h.Key("x"), func() int { return 0 })
		react.UseRef(h.Key("x"), func() int { return 0 })
		return jsval.Null
	})))
	require.Error(t, err)
	assert.ErrorIs(t, err, react.ErrDuplicateKey)

	var misuse *react.MisuseError
	require.ErrorAs(t, err, &misuse)
	assert.Equal(t, "Dup", misuse.Component)
}

func TestOnceCallbackReleasedAfterCall(t *testing.T) {
	rt, err := jshost.New()
	require.NoError(t, err)

	once := react.OnceCallback(func(n int) int { return n * 2 })
	fn := once.JS(rt)

	out, err := rt.Invoke(fn, jsval.Of(21))
	require.NoError(t, err)
	got, ok := jsval.As[int](out)
	require.True(t, ok)
	assert.Equal(t, 42, got)

	_, err = rt.Invoke(fn, jsval.Of(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, jshost.ErrReleased)
}

func TestWrapFunc(t *testing.T) {
	rt, err := jshost.New()
	require.NoError(t, err)

	fn, release := rt.WrapFunc(func(args []jsval.Value) jsval.Value {
		s, _ := jsval.As[string](args[0])
		return jsval.Of(s + "!")
	})
	assert.Equal(t, 1, rt.LiveFuncs())

	out, err := rt.Invoke(fn, jsval.Of("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi!", out.Ref())

	require.NoError(t, rt.Set("shout", fn))
	out, err = rt.RunScript("call.js", `shout("js")`)
	require.NoError(t, err)
	assert.Equal(t, "js!", out.Ref())

	release()
	assert.Equal(t, 0, rt.LiveFuncs())
	_, err = rt.Invoke(fn, jsval.Of("late"))
	assert.ErrorIs(t, err, jshost.ErrReleased)
}

func TestConsoleLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rt, err := jshost.New(jshost.WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = rt.RunScript("log.js", `console.log("hello", 1); console.warn("careful")`)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello 1", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestReactSourceErrors(t *testing.T) {
	_, err := jshost.New(jshost.WithReactSource("empty.js", "var x = 1;"))
	assert.ErrorContains(t, err, "does not define React")

	_, err = jshost.New(jshost.WithReactSource("broken.js", "var React = ;"))
	assert.Error(t, err)
}

func TestScriptsEmbedded(t *testing.T) {
	f, err := jshost.Scripts().Open("js/minireact.js")
	require.NoError(t, err)
	f.Close()
}

func TestReactVersion(t *testing.T) {
	rt, err := jshost.New()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-mini", rt.ReactVersion())

	bare := `var React = { createRoot: function () { return {}; } };`
	rt, err = jshost.New(jshost.WithReactSource("bare.js", bare))
	require.NoError(t, err)
	assert.Equal(t, "unknown", rt.ReactVersion())
}
