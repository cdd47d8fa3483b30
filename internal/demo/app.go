package demo

import (
	"strings"

	"go.uber.org/zap"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// words is the corpus the search box filters.
var words = []string{
	"gopher", "goroutine", "channel", "context", "interface",
	"generic", "select", "defer", "closure", "reflect",
}

// Controls holds the callbacks of the mounted app. They are refreshed on
// every render.
type Controls struct {
	Increment   *react.Callback[react.Void, react.Void]
	ToggleTheme *react.Callback[react.Void, react.Void]
	Type        *react.Callback[string, react.Void]
	Search      *react.Callback[string, react.Void]
}

type board struct {
	ctrl  *Controls
	theme *react.Context[string]
}

func (board) Name() string { return "Board" }

func (b board) Render(h *react.Hooks) jsval.Value {
	theme := react.UseState(h, func() string { return ThemeLight })
	b.ctrl.ToggleTheme = react.UseCallback(h, func(react.Void) react.Void {
		theme.Set(func(t string) string {
			if t == ThemeLight {
				return ThemeDark
			}
			return ThemeLight
		})
		return react.Void{}
	}, react.DepsNone)
	id := react.UseID(h)

	rt := h.Runtime()
	return rt.CreateElement("main", map[string]any{"id": id},
		h.Element(b.theme.Provider(theme.Value(),
			h.Element(counter{ctrl: b.ctrl, theme: b.theme}),
			h.Element(search{ctrl: b.ctrl}),
		)),
	)
}

type counter struct {
	ctrl  *Controls
	theme *react.Context[string]
}

func (counter) Name() string { return "Counter" }

func (c counter) Render(h *react.Hooks) jsval.Value {
	theme := react.UseContext(h, c.theme)
	count := react.UseState(h, func() int { return 0 })
	c.ctrl.Increment = react.UseCallback(h, func(react.Void) react.Void {
		count.Set(func(n int) int { return n + 1 })
		return react.Void{}
	}, react.DepsNone)

	logger := h.Bridge().Logger()
	n := count.Value()
	react.UseEffect(h, func() func() {
		logger.Debug("count committed", zap.Int("count", n))
		return nil
	}, react.Some(n))

	rt := h.Runtime()
	return rt.CreateElement("section", map[string]any{"class": theme},
		rt.CreateElement("span", nil, jsval.Of(n)),
		rt.CreateElement("button", map[string]any{"onClick": c.ctrl.Increment.JS(rt)}, jsval.Of("+")),
	)
}

type search struct {
	ctrl *Controls
}

func (search) Name() string { return "Search" }

func (s search) Render(h *react.Hooks) jsval.Value {
	query := react.UseState(h, func() string { return "" })
	deferred := react.UseDeferredValue(h, query.Value())
	pending := react.UseTransition(h)

	s.ctrl.Type = react.UseCallback(h, func(q string) react.Void {
		query.Replace(q)
		return react.Void{}
	}, react.DepsNone)
	s.ctrl.Search = react.UseCallback(h, func(q string) react.Void {
		pending.Start(func() { query.Replace(q) })
		return react.Void{}
	}, react.DepsNone)

	results := react.UseMemo(h, func() []string {
		return filter(deferred)
	}, react.Some(deferred))

	// Focus tracking survives re-renders without triggering them.
	focused := react.UseRef(h, func() bool { return false })
	react.UseLayoutEffect(h, func() func() {
		focused.Set(true)
		return func() { focused.Set(false) }
	}, react.DepsNone)

	rt := h.Runtime()
	items := make([]jsval.Value, 0, len(results))
	for _, w := range results {
		items = append(items, rt.CreateElement("li", map[string]any{"key": w}, jsval.Of(w)))
	}
	return rt.CreateElement("div", map[string]any{"class": "search"},
		rt.CreateElement("input", map[string]any{
			"value":   query.Value(),
			"onInput": s.ctrl.Type.JS(rt),
		}),
		rt.CreateElement("ul", nil, items...),
	)
}

// filter returns the words containing q. An empty query matches nothing.
func filter(q string) []string {
	if q == "" {
		return nil
	}
	var out []string
	for _, w := range words {
		if strings.Contains(w, q) {
			out = append(out, w)
		}
	}
	return out
}
