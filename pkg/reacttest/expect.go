package reacttest

import (
	"strings"
	"testing"

	"github.com/vango-dev/vango-react/pkg/react"
)

// Mount creates a runtime, attaches a bridge to it and renders c. The
// tree is unmounted and the bridge detached when the test ends.
//
// Example:
//
//	rt := reacttest.Mount(t, Counter{})
//	rt.Click(rt.Find("button"))
func Mount(t testing.TB, c react.Component, opts ...react.Option) *Runtime {
	t.Helper()
	rt := New()
	b, err := react.Use(rt, opts...)
	if err != nil {
		t.Fatalf("react.Use: %v", err)
	}
	t.Cleanup(func() {
		rt.Unmount()
		b.Detach()
	})
	rt.Render(b.Element(c))
	return rt
}

// ExpectContains asserts that the committed markup contains expected.
//
// Example:
//
//	reacttest.ExpectContains(t, rt, "Welcome")
func ExpectContains(t testing.TB, rt *Runtime, expected string) {
	t.Helper()
	html := rt.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the committed markup does not contain
// unexpected.
func ExpectNotContains(t testing.TB, rt *Runtime, unexpected string) {
	t.Helper()
	html := rt.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the committed tree contains a tag.
func ExpectElement(t testing.TB, rt *Runtime, tag string) {
	t.Helper()
	if rt.Find(tag) == nil {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(rt.HTML(), 500))
	}
}

// ExpectAttribute asserts that the committed markup contains an attribute
// value.
func ExpectAttribute(t testing.TB, rt *Runtime, attr, value string) {
	t.Helper()
	html := rt.HTML()
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// ExpectMounted asserts how many components named name are mounted.
func ExpectMounted(t testing.TB, rt *Runtime, name string, want int) {
	t.Helper()
	if got := rt.Mounted(name); got != want {
		t.Errorf("expected %d mounted <%s>, got %d", want, name, got)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
