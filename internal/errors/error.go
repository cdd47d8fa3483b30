package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryLifetime   Category = "lifetime"
	CategoryUsage      Category = "usage"
	CategoryConversion Category = "conversion"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File string
	Line int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// BridgeError is a structured error with a code, an explanation and a hint.
type BridgeError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (lifetime, usage, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the cell or component.
	Detail string

	// Location is the hook call-site the error refers to, if known.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BridgeError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a source location to the error.
func (e *BridgeError) WithLocation(file string, line int) *BridgeError {
	e.Location = &Location{File: file, Line: line}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BridgeError) WithSuggestion(s string) *BridgeError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *BridgeError) WithDetail(d string) *BridgeError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *BridgeError) Wrap(err error) *BridgeError {
	e.Wrapped = err
	return e
}

// New creates a BridgeError from a registered error code.
func New(code string) *BridgeError {
	template, ok := registry[code]
	if !ok {
		return &BridgeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BridgeError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new BridgeError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BridgeError {
	return &BridgeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BridgeError.
func FromError(err error, code string) *BridgeError {
	if err == nil {
		return nil
	}
	if be, ok := err.(*BridgeError); ok {
		return be
	}
	return New(code).Wrap(err)
}
