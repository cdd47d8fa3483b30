package react

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/vango-react/internal/handles"
	"github.com/vango-dev/vango-react/pkg/jsval"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// attached records which runtimes already have a bridge. Runtimes are map
// keys, so implementations must be comparable (in practice, pointers).
var (
	attachedMu sync.Mutex
	attached   = map[Runtime]*Bridge{}
)

// Bridge connects Go components to one foreign React runtime. It owns the
// handle table through which every host object handed to the runtime is
// referenced, the context registry, and the live component instances.
//
// A Bridge is confined to the goroutine driving its runtime, except for
// Instances and Stats which may be called from any goroutine.
type Bridge struct {
	rt       Runtime
	handles  *handles.Table
	contexts *ContextRegistry

	logger    *zap.Logger
	metrics   *metrics
	tracer    trace.Tracer
	ctx       context.Context
	observers []Observer
	debug     bool

	mu        sync.RWMutex
	instances map[uint64]*instance
}

// Use attaches a bridge to rt. Calling Use a second time for the same
// runtime returns ErrAlreadyAttached.
func Use(rt Runtime, opts ...Option) (*Bridge, error) {
	if rt == nil {
		return nil, errors.New("react: nil runtime")
	}

	config := defaultBridgeConfig()
	for _, opt := range opts {
		opt(&config)
	}

	attachedMu.Lock()
	defer attachedMu.Unlock()
	if _, ok := attached[rt]; ok {
		return nil, ErrAlreadyAttached
	}

	var m *metrics
	if config.metrics != nil {
		var err error
		if m, err = newMetrics(*config.metrics); err != nil {
			return nil, err
		}
	}

	b := &Bridge{
		rt:        rt,
		handles:   handles.NewTable(),
		contexts:  newContextRegistry(),
		logger:    config.logger.Named("react"),
		metrics:   m,
		tracer:    resolveTracer(config.tracer),
		ctx:       config.ctx,
		observers: config.observers,
		debug:     config.debug,
		instances: make(map[uint64]*instance),
	}
	attached[rt] = b

	if a, ok := rt.(Attacher); ok {
		a.Attach(b)
	}
	b.logger.Debug("runtime attached", zap.String("runtime", fmt.Sprintf("%T", rt)))
	return b, nil
}

// Detach releases the runtime so that Use may be called for it again.
// Instances that are still mounted keep working until they unmount.
func (b *Bridge) Detach() {
	attachedMu.Lock()
	defer attachedMu.Unlock()
	if attached[b.rt] == b {
		delete(attached, b.rt)
	}
}

// Runtime returns the foreign runtime.
func (b *Bridge) Runtime() Runtime {
	return b.rt
}

// Contexts returns the registry holding context defaults.
func (b *Bridge) Contexts() *ContextRegistry {
	return b.contexts
}

// Logger returns the bridge's logger.
func (b *Bridge) Logger() *zap.Logger {
	return b.logger
}

// Stats summarizes the bridge's live state.
type Stats struct {
	Instances    int    `json:"instances"`
	Cells        int    `json:"cells"`
	TokensLive   int    `json:"tokens_live"`
	TokensIssued uint64 `json:"tokens_issued"`
	TokensFreed  uint64 `json:"tokens_freed"`
}

// Stats returns a snapshot of the bridge's counters.
func (b *Bridge) Stats() Stats {
	b.mu.RLock()
	s := Stats{Instances: len(b.instances)}
	for _, inst := range b.instances {
		s.Cells += inst.cellCount()
	}
	b.mu.RUnlock()

	s.TokensLive = b.handles.Len()
	s.TokensIssued, s.TokensFreed = b.handles.Stats()
	return s
}

// InstanceInfo describes a mounted component instance.
type InstanceInfo struct {
	ID        uint64     `json:"id"`
	Component string     `json:"component"`
	Renders   uint64     `json:"renders"`
	Cells     []CellInfo `json:"cells"`
}

// CellInfo describes one hook cell of an instance.
type CellInfo struct {
	Key  string `json:"key"`
	Kind string `json:"kind"`
	Type string `json:"type"`
}

// Instances returns the mounted instances ordered by mount order.
func (b *Bridge) Instances() []InstanceInfo {
	b.mu.RLock()
	list := make([]*instance, 0, len(b.instances))
	for _, inst := range b.instances {
		list = append(list, inst)
	}
	b.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	out := make([]InstanceInfo, 0, len(list))
	for _, inst := range list {
		out = append(out, inst.info())
	}
	return out
}

// mount creates the arena for a new component instance.
func (b *Bridge) mount(name string) *instance {
	inst := newInstance(b, name)
	inst.token = b.handles.Register(inst)
	inst.id = uint64(inst.token)

	b.mu.Lock()
	b.instances[inst.id] = inst
	b.mu.Unlock()

	b.metrics.recordMount()
	b.emit(Event{Kind: EventMount, Instance: inst.id, Component: name})
	return inst
}

// free is the onFree handler passed to the runtime with every arena token.
func (b *Bridge) free(tok Token) {
	v, ok := b.handles.Release(tok)
	if !ok {
		b.logger.Warn("free of unknown token", zap.Uint64("token", uint64(tok)))
		return
	}
	inst, ok := v.(*instance)
	if !ok {
		b.logger.Error("free of non-instance token", zap.Uint64("token", uint64(tok)))
		return
	}

	_, span := b.startSpan("react.unmount", inst)
	defer endSpan(span)

	cells := inst.teardown()

	b.mu.Lock()
	delete(b.instances, inst.id)
	b.mu.Unlock()

	b.metrics.recordUnmount(cells)
	b.emit(Event{Kind: EventUnmount, Instance: inst.id, Component: inst.name})
}

// instanceFor resolves the arena token returned by the runtime.
func (b *Bridge) instanceFor(tok Token, name string) *instance {
	v, ok := b.handles.Lookup(tok)
	if !ok {
		panic(b.misuse(CodeUseAfterUnmount, nil, "", fmt.Sprintf("render of unmounted <%s> (token %d)", name, tok)))
	}
	inst, ok := v.(*instance)
	if !ok {
		panic(b.misuse(CodeTypeMismatch, nil, "", fmt.Sprintf("token %d of <%s> does not name an instance", tok, name)))
	}
	return inst
}

// render runs one render of c through the runtime's hooks.
func (b *Bridge) render(c Component) jsval.Value {
	name := c.Name()
	tok := b.rt.UseRef(func() Token {
		return b.mount(name).token
	}, b.free)
	inst := b.instanceFor(tok, name)

	trigger := b.rt.UseState()
	pending, start := b.rt.UseTransition()
	answer := b.rt.UseDeferredValue(inst.deferredRequest())
	id := b.rt.UseID()

	h := inst.beginRender(trigger, pending, start, answer, id)
	began := time.Now()

	var out jsval.Value
	func() {
		_, span := b.startSpan("react.render", inst)
		defer endSpan(span)
		defer inst.endRender()
		out = c.Render(h)
	}()

	b.rt.UseDeferredValue(inst.deferredFollowUp())
	b.rt.UseLayoutEffect(inst.flushLayout, inst.layoutGen)
	b.rt.UseEffect(inst.flushPassive, inst.passiveGen)

	b.metrics.recordRender(name, time.Since(began))
	b.emit(Event{Kind: EventRender, Instance: inst.id, Component: name})
	return out
}

// emit delivers e to every observer.
func (b *Bridge) emit(e Event) {
	if len(b.observers) == 0 {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	for _, o := range b.observers {
		o.Observe(e)
	}
}

// misuse records a misuse and returns the value to panic with. b may be nil
// for callbacks that are not attached to any bridge.
func (b *Bridge) misuse(code string, inst *instance, key, detail string) *MisuseError {
	err := &MisuseError{Code: code, Key: displayKey(key), Detail: detail}
	if inst != nil {
		err.Component = inst.name
	}

	if b == nil {
		Logger().Error("react misuse", zap.String("code", code), zap.String("detail", err.Error()))
		return err
	}

	fields := []zap.Field{zap.String("code", code), zap.String("detail", detail)}
	if inst != nil {
		fields = append(fields, zap.String("component", inst.name), zap.Uint64("instance", inst.id))
	}
	if key != "" {
		fields = append(fields, zap.String("key", err.Key))
	}
	b.logger.Error("react misuse", fields...)
	b.metrics.recordMisuse(code)

	e := Event{Kind: EventMisuse, Code: code, Key: err.Key, Detail: detail}
	if inst != nil {
		e.Instance, e.Component = inst.id, inst.name
	}
	b.emit(e)
	return err
}
