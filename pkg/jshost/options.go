package jshost

import "go.uber.org/zap"

// Option configures a Runtime.
type Option func(*options)

type options struct {
	name   string
	source string
	logger *zap.Logger
}

func defaultOptions() options {
	return options{
		name:   minireactPath,
		source: mustScript(minireactPath),
		logger: zap.NewNop(),
	}
}

// WithReactSource loads src, named name in stack traces, instead of the
// embedded React.
func WithReactSource(name, src string) Option {
	return func(o *options) {
		o.name = name
		o.source = src
	}
}

// WithLogger sets the logger for console output and script errors.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
