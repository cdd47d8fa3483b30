package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "use after unmount",
			code:    "R001",
			wantMsg: "Hook cell used after unmount",
			wantCat: CategoryLifetime,
		},
		{
			name:    "duplicate key",
			code:    "R006",
			wantMsg: "Duplicate hook key",
			wantCat: CategoryUsage,
		},
		{
			name:    "invalid props",
			code:    "R020",
			wantMsg: "Invalid props",
			wantCat: CategoryConversion,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryConfig, "file %q not found", "bridge.yaml")
	if err.Message != `file "bridge.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want %q", err.Category, CategoryConfig)
	}
}

func TestBridgeError_Error(t *testing.T) {
	err := New("R002")
	if got, want := err.Error(), "R002: Call-once callback called twice"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &BridgeError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}

	err3 := New("R001").WithDetail(`cell "count"`)
	if got, want := err3.Error(), `R001: Hook cell used after unmount (cell "count")`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestBridgeError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New("R040").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !strings.HasSuffix(err.Error(), ": boom") {
		t.Errorf("Error() = %q, want cause suffix", err.Error())
	}
}

func TestBuilders(t *testing.T) {
	err := New("R004").
		WithLocation("app/counter.go", 12).
		WithDetail("expected int, found string").
		WithSuggestion("rename one of them")

	if err.Location == nil || err.Location.String() != "app/counter.go:12" {
		t.Errorf("Location = %v", err.Location)
	}
	if err.Detail != "expected int, found string" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "rename one of them" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "R040") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("R006")
	if FromError(orig, "R040") != orig {
		t.Error("FromError should pass through a *BridgeError")
	}

	wrapped := FromError(fmt.Errorf("disk full"), "R051")
	if wrapped.Code != "R051" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R001").
		WithLocation("app/counter.go", 42).
		WithDetail(`cell "count" of <Counter#7>`)

	out := err.Format()
	for _, want := range []string{
		"ERROR R001: Hook cell used after unmount",
		"app/counter.go:42",
		`cell "count" of <Counter#7>`,
		"Hint: Do not keep RefContainer",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() should not contain escape codes with colors disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("R007").WithLocation("main.go", 3)
	if got, want := err.FormatCompact(), "main.go:3: R007: Hook called outside render"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("R005").WithLocation("a.go", 1).Wrap(fmt.Errorf("inner"))

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "R005" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != string(CategoryUsage) {
		t.Errorf("category = %v", decoded["category"])
	}
	if decoded["cause"] != "inner" {
		t.Errorf("cause = %v", decoded["cause"])
	}
	loc, ok := decoded["location"].(map[string]any)
	if !ok || loc["file"] != "a.go" {
		t.Errorf("location = %v", decoded["location"])
	}
}

func TestWrapText(t *testing.T) {
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("R008"))
	if !strings.Contains(buf.String(), "R008") {
		t.Errorf("PrintError output = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, fmt.Errorf("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError output = %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("registry is empty")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %q before %q", codes[i-1], codes[i])
		}
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Errorf("GetTemplate(%q) missing", code)
			continue
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %q incomplete: %+v", code, tmpl)
		}
	}

	Register("R099", ErrorTemplate{Category: CategoryUsage, Message: "custom"})
	defer delete(registry, "R099")
	if New("R099").Message != "custom" {
		t.Error("Register did not add template")
	}
}
