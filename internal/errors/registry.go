package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Lifetime Errors (R001-R009)
	// ============================================

	"R001": {
		Category:   CategoryLifetime,
		Message:    "Hook cell used after unmount",
		Suggestion: "Do not keep RefContainer or State handles in goroutines or globals that outlive the component.",
	},
	"R002": {
		Category:   CategoryLifetime,
		Message:    "Call-once callback called twice",
		Suggestion: "Use NewCallback for callbacks the foreign runtime may invoke more than once.",
	},
	"R003": {
		Category:   CategoryLifetime,
		Message:    "Callback called after teardown",
		Suggestion: "The component owning this callback has unmounted; drop foreign references to it on unmount.",
	},

	// ============================================
	// Usage Errors (R004-R019)
	// ============================================

	"R004": {
		Category:   CategoryUsage,
		Message:    "Hook cell type mismatch",
		Suggestion: "Two hooks share a key. Give one of them a distinct name with h.Key(...).",
	},
	"R005": {
		Category:   CategoryUsage,
		Message:    "Hook cell already borrowed",
		Suggestion: "Do not mutate a cell from inside its own Update callback.",
	},
	"R006": {
		Category:   CategoryUsage,
		Message:    "Duplicate hook key",
		Suggestion: "Explicit hook keys must be unique within one render of a component.",
	},
	"R007": {
		Category:   CategoryUsage,
		Message:    "Hook called outside render",
		Suggestion: "Hooks may only be called with the *Hooks passed to the current Render call.",
	},
	"R008": {
		Category:   CategoryUsage,
		Message:    "Runtime already attached",
		Suggestion: "Call react.Use exactly once per foreign runtime.",
	},

	// ============================================
	// Conversion Errors (R020-R029)
	// ============================================

	"R020": {
		Category:   CategoryConversion,
		Message:    "Invalid props",
		Suggestion: "Check that the foreign caller passes every required prop with the expected type.",
	},
	"R021": {
		Category:   CategoryConversion,
		Message:    "Invalid foreign value",
		Suggestion: "The foreign runtime returned a value of an unexpected shape.",
	},

	// ============================================
	// Config and CLI Errors (R040-R059)
	// ============================================

	"R040": {
		Category:   CategoryConfig,
		Message:    "Config load failed",
		Suggestion: "Check the path passed with --config and the file's syntax.",
	},
	"R041": {
		Category:   CategoryConfig,
		Message:    "Invalid config",
		Suggestion: "Run 'vango-react config init' for a file with every key and its default.",
	},
	"R050": {
		Category:   CategoryCLI,
		Message:    "Unknown runtime",
		Suggestion: "Valid runtimes are \"sim\" and \"js\".",
	},
	"R051": {
		Category:   CategoryCLI,
		Message:    "Trace store failed",
		Suggestion: "Check the trace directory permissions or S3 bucket settings.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
