package tracestore

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vango-react/internal/errors"
	"github.com/vango-dev/vango-react/pkg/react"
)

// Format is a trace serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New("R051").WithDetail(fmt.Sprintf("unknown trace format %q", s))
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Trace is a recorded session.
type Trace struct {
	ID      string        `json:"id" yaml:"id"`
	Started time.Time     `json:"started" yaml:"started"`
	Ended   time.Time     `json:"ended" yaml:"ended"`
	Dropped int           `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Stats   react.Stats   `json:"stats" yaml:"stats"`
	Events  []react.Event `json:"events" yaml:"events"`
}

// Count returns how many events of kind k the trace holds.
func (t *Trace) Count(k react.EventKind) int {
	n := 0
	for _, e := range t.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Encode writes t to w in format f.
func (t *Trace) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New("R051").WithDetail(fmt.Sprintf("unknown trace format %q", f))
}

// Bytes returns t encoded in format f.
func (t *Trace) Bytes(f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Encode(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a trace in format f from r.
func Decode(r io.Reader, f Format) (*Trace, error) {
	var t Trace
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&t); err != nil {
			return nil, errors.New("R051").Wrap(err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&t); err != nil {
			return nil, errors.New("R051").Wrap(err)
		}
	default:
		return nil, errors.New("R051").WithDetail(fmt.Sprintf("unknown trace format %q", f))
	}
	return &t, nil
}

// newTraceID returns a sortable, unique trace identifier.
func newTraceID(started time.Time) string {
	b := make([]byte, 4)
	rand.Read(b)
	return started.UTC().Format("20060102T150405Z") + "-" + hex.EncodeToString(b)
}
