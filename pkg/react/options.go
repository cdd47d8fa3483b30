package react

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures a Bridge.
type Option func(*bridgeConfig)

type bridgeConfig struct {
	logger    *zap.Logger
	metrics   *MetricsConfig
	tracer    trace.Tracer
	observers []Observer
	ctx       context.Context
	debug     bool
}

func defaultBridgeConfig() bridgeConfig {
	return bridgeConfig{
		logger: Logger(),
		ctx:    context.Background(),
	}
}

// WithLogger sets the bridge's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *bridgeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus collectors for the bridge.
func WithMetrics(opts ...MetricsOption) Option {
	return func(c *bridgeConfig) {
		config := defaultMetricsConfig()
		for _, opt := range opts {
			opt(&config)
		}
		c.metrics = &config
	}
}

// WithTracer sets the tracer used for render and unmount spans. Without it
// the tracer named "vango-react" from the global provider is used.
func WithTracer(t trace.Tracer) Option {
	return func(c *bridgeConfig) {
		c.tracer = t
	}
}

// WithObserver registers an observer for lifecycle events.
func WithObserver(o Observer) Option {
	return func(c *bridgeConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithContext sets the parent context of the bridge's spans.
func WithContext(ctx context.Context) Option {
	return func(c *bridgeConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithDebug enables debug logging of every hook cell creation.
func WithDebug(enabled bool) Option {
	return func(c *bridgeConfig) {
		c.debug = enabled
	}
}
