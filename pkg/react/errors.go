package react

import (
	"errors"
	"fmt"

	bridgeerrors "github.com/vango-dev/vango-react/internal/errors"
)

// Sentinel errors. A recovered *MisuseError unwraps to one of these, so
// errors.Is(err, ErrUseAfterUnmount) works on recovered panics.
var (
	ErrUseAfterUnmount  = errors.New("react: hook cell used after unmount")
	ErrCalledTwice      = errors.New("react: call-once callback called twice")
	ErrCallbackTornDown = errors.New("react: callback called after teardown")
	ErrTypeMismatch     = errors.New("react: hook cell type mismatch")
	ErrBorrowed         = errors.New("react: hook cell already borrowed")
	ErrDuplicateKey     = errors.New("react: duplicate hook key")
	ErrOutsideRender    = errors.New("react: hook called outside render")
	ErrAlreadyAttached  = errors.New("react: runtime already attached")
	ErrConversion       = errors.New("react: invalid foreign value")
)

// Misuse codes.
const (
	CodeUseAfterUnmount  = "R001"
	CodeCalledTwice      = "R002"
	CodeCallbackTornDown = "R003"
	CodeTypeMismatch     = "R004"
	CodeBorrowed         = "R005"
	CodeDuplicateKey     = "R006"
	CodeOutsideRender    = "R007"
)

var sentinels = map[string]error{
	CodeUseAfterUnmount:  ErrUseAfterUnmount,
	CodeCalledTwice:      ErrCalledTwice,
	CodeCallbackTornDown: ErrCallbackTornDown,
	CodeTypeMismatch:     ErrTypeMismatch,
	CodeBorrowed:         ErrBorrowed,
	CodeDuplicateKey:     ErrDuplicateKey,
	CodeOutsideRender:    ErrOutsideRender,
}

// MisuseError is the panic value for API misuse that cannot be recovered
// from safely, such as touching a cell after its component unmounted.
type MisuseError struct {
	Code      string
	Component string
	Key       string
	Detail    string
}

// Error implements the error interface.
func (e *MisuseError) Error() string {
	return e.Diagnostic().FormatCompact()
}

// Unwrap returns the sentinel error for e.Code.
func (e *MisuseError) Unwrap() error {
	return sentinels[e.Code]
}

// Diagnostic returns e as a structured error suitable for terminal output.
func (e *MisuseError) Diagnostic() *bridgeerrors.BridgeError {
	d := bridgeerrors.New(e.Code)
	detail := e.Detail
	if e.Component != "" {
		where := "<" + e.Component + ">"
		if e.Key != "" {
			where = fmt.Sprintf("hook %q of %s", e.Key, where)
		}
		if detail != "" {
			detail = where + ": " + detail
		} else {
			detail = where
		}
	}
	return d.WithDetail(detail)
}

// ConversionError reports a foreign value that could not be decoded, such
// as invalid props passed to an exported component. Unlike misuse it is
// returned, not panicked.
type ConversionError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Component == "" {
		return "react: invalid foreign value: " + e.Err.Error()
	}
	return fmt.Sprintf("react: invalid props for <%s>: %v", e.Component, e.Err)
}

// Unwrap returns ErrConversion and the underlying decode error.
func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversion, e.Err}
}

// Diagnostic returns e as a structured error suitable for terminal output.
func (e *ConversionError) Diagnostic() *bridgeerrors.BridgeError {
	return bridgeerrors.New("R020").WithDetail("<" + e.Component + ">").Wrap(e.Err)
}
