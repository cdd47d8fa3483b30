package react

import (
	"fmt"
	"time"
)

// EventKind identifies a lifecycle event.
type EventKind uint8

const (
	EventMount EventKind = iota + 1
	EventRender
	EventCellCreated
	EventCellFreed
	EventEffectRun
	EventEffectTeardown
	EventCallbackTeardown
	EventUnmount
	EventMisuse
)

var eventKindNames = map[EventKind]string{
	EventMount:            "mount",
	EventRender:           "render",
	EventCellCreated:      "cell_created",
	EventCellFreed:        "cell_freed",
	EventEffectRun:        "effect_run",
	EventEffectTeardown:   "effect_teardown",
	EventCallbackTeardown: "callback_teardown",
	EventUnmount:          "unmount",
	EventMisuse:           "misuse",
}

// String returns the snake_case name of the event kind.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("react: unknown event kind %q", text)
}

// Event describes one step in the life of a component instance.
type Event struct {
	Kind      EventKind `json:"kind" yaml:"kind"`
	Time      time.Time `json:"time" yaml:"time"`
	Instance  uint64    `json:"instance,omitempty" yaml:"instance,omitempty"`
	Component string    `json:"component,omitempty" yaml:"component,omitempty"`

	// Key is the hook key for cell and effect events.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Code is the misuse code for EventMisuse.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`

	// Detail is free-form context.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Observer receives lifecycle events. Observe is called synchronously on
// the goroutine driving the runtime and must not call back into the bridge.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}
