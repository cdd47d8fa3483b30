package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
)

// Step is one scripted interaction.
type Step struct {
	Name string
	Do   func(d *Demo) error
}

// Script is the default interaction sequence.
var Script = []Step{
	{"increment", func(d *Demo) error { return d.Call(d.ctrl.Increment) }},
	{"increment", func(d *Demo) error { return d.Call(d.ctrl.Increment) }},
	{"toggle theme", func(d *Demo) error { return d.Call(d.ctrl.ToggleTheme) }},
	{"type \"go\"", func(d *Demo) error { return d.Type("go") }},
	{"search \"re\"", func(d *Demo) error { return d.Search("re") }},
	{"toggle theme", func(d *Demo) error { return d.Call(d.ctrl.ToggleTheme) }},
}

// Demo is a mounted demo app.
type Demo struct {
	host   Host
	bridge *react.Bridge
	theme  *react.Context[string]
	ctrl   *Controls
}

// New attaches a bridge to host. Call Mount to render.
func New(host Host, opts ...react.Option) (*Demo, error) {
	b, err := react.Use(host, opts...)
	if err != nil {
		return nil, err
	}
	return &Demo{
		host:   host,
		bridge: b,
		theme:  react.CreateContext(b, ThemeLight),
		ctrl:   &Controls{},
	}, nil
}

// Bridge returns the demo's bridge.
func (d *Demo) Bridge() *react.Bridge {
	return d.bridge
}

// Mount renders the app.
func (d *Demo) Mount() error {
	if err := d.host.Render(d.bridge.Element(board{ctrl: d.ctrl, theme: d.theme})); err != nil {
		return err
	}
	d.host.Settle()
	return nil
}

// Close unmounts the app and detaches the bridge.
func (d *Demo) Close() error {
	defer d.bridge.Detach()
	return d.host.Unmount()
}

// HTML returns the committed markup.
func (d *Demo) HTML() (string, error) {
	return d.host.HTML()
}

// Call invokes a no-argument control the way a DOM event would.
func (d *Demo) Call(cb *react.Callback[react.Void, react.Void]) error {
	if cb == nil {
		return fmt.Errorf("demo: app not mounted")
	}
	_, err := d.host.Invoke(cb.JS(d.host))
	d.host.Settle()
	return err
}

// Type sets the search box text as an urgent update.
func (d *Demo) Type(q string) error {
	return d.callString(d.ctrl.Type, q)
}

// Search sets the search box text inside a transition.
func (d *Demo) Search(q string) error {
	return d.callString(d.ctrl.Search, q)
}

func (d *Demo) callString(cb *react.Callback[string, react.Void], s string) error {
	if cb == nil {
		return fmt.Errorf("demo: app not mounted")
	}
	_, err := d.host.Invoke(cb.JS(d.host), jsval.Of(s))
	d.host.Settle()
	return err
}

// Tick increments the counter.
func (d *Demo) Tick() error {
	return d.Call(d.ctrl.Increment)
}

// Run mounts the app, performs steps and writes the markup after each one
// to w. The app stays mounted.
func (d *Demo) Run(ctx context.Context, w io.Writer, steps []Step) error {
	if err := d.Mount(); err != nil {
		return err
	}
	if err := d.print(w, "mount"); err != nil {
		return err
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Do(d); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		if err := d.print(w, step.Name); err != nil {
			return err
		}
	}
	return nil
}

func (d *Demo) print(w io.Writer, label string) error {
	html, err := d.host.HTML()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%-16s %s\n", label, html)
	return err
}
