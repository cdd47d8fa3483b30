package react

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig configures the bridge's Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vango_react").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the bridge's Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// MetricsNamespace sets the metrics namespace.
func MetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// MetricsSubsystem sets the metrics subsystem.
func MetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// MetricsConstLabels sets constant labels for all metrics.
func MetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// MetricsBuckets sets the render duration histogram buckets.
func MetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// MetricsRegistry sets the Prometheus registry.
func MetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vango_react",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds a bridge's collectors. A nil *metrics records nothing.
type metrics struct {
	mountsTotal       prometheus.Counter
	unmountsTotal     prometheus.Counter
	liveInstances     prometheus.Gauge
	liveCells         prometheus.Gauge
	rendersTotal      *prometheus.CounterVec
	renderDuration    *prometheus.HistogramVec
	effectsTotal      *prometheus.CounterVec
	callbackTeardowns prometheus.Counter
	misuseTotal       *prometheus.CounterVec
}

// newMetrics registers the bridge's collectors with config.Registry.
// Collectors that are already registered, by an earlier bridge on the same
// runtime or by another bridge sharing the registry, are reused so their
// series keep accumulating.
func newMetrics(config MetricsConfig) (*metrics, error) {
	m := &metrics{
		mountsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounts_total",
			Help:        "Total number of component instances mounted",
			ConstLabels: config.ConstLabels,
		}),

		unmountsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unmounts_total",
			Help:        "Total number of component instances unmounted",
			ConstLabels: config.ConstLabels,
		}),

		liveInstances: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_instances",
			Help:        "Number of mounted component instances",
			ConstLabels: config.ConstLabels,
		}),

		liveCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_cells",
			Help:        "Number of live hook cells across all instances",
			ConstLabels: config.ConstLabels,
		}),

		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of component renders",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Host render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		effectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of effect bodies run",
			ConstLabels: config.ConstLabels,
		}, []string{"phase"}),

		callbackTeardowns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "callback_teardowns_total",
			Help:        "Total number of bound callbacks torn down",
			ConstLabels: config.ConstLabels,
		}),

		misuseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "misuse_total",
			Help:        "Total number of API misuse panics by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}

	var errs []error
	m.mountsTotal = register(config.Registry, m.mountsTotal, &errs)
	m.unmountsTotal = register(config.Registry, m.unmountsTotal, &errs)
	m.liveInstances = register(config.Registry, m.liveInstances, &errs)
	m.liveCells = register(config.Registry, m.liveCells, &errs)
	m.rendersTotal = register(config.Registry, m.rendersTotal, &errs)
	m.renderDuration = register(config.Registry, m.renderDuration, &errs)
	m.effectsTotal = register(config.Registry, m.effectsTotal, &errs)
	m.callbackTeardowns = register(config.Registry, m.callbackTeardowns, &errs)
	m.misuseTotal = register(config.Registry, m.misuseTotal, &errs)
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("react: register metrics: %w", err)
	}
	return m, nil
}

// register adds c to reg, returning the collector already registered under
// the same descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, errs *[]error) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	*errs = append(*errs, err)
	return c
}

func (m *metrics) recordMount() {
	if m == nil {
		return
	}
	m.mountsTotal.Inc()
	m.liveInstances.Inc()
}

func (m *metrics) recordUnmount(cells int) {
	if m == nil {
		return
	}
	m.unmountsTotal.Inc()
	m.liveInstances.Dec()
	m.liveCells.Sub(float64(cells))
}

func (m *metrics) recordCell() {
	if m == nil {
		return
	}
	m.liveCells.Inc()
}

func (m *metrics) recordRender(component string, d time.Duration) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(component).Inc()
	m.renderDuration.WithLabelValues(component).Observe(d.Seconds())
}

func (m *metrics) recordEffect(phase string) {
	if m == nil {
		return
	}
	m.effectsTotal.WithLabelValues(phase).Inc()
}

func (m *metrics) recordCallbackTeardown() {
	if m == nil {
		return
	}
	m.callbackTeardowns.Inc()
}

func (m *metrics) recordMisuse(code string) {
	if m == nil {
		return
	}
	m.misuseTotal.WithLabelValues(code).Inc()
}
