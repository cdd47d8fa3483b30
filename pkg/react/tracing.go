package react

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "vango-react"

func resolveTracer(t trace.Tracer) trace.Tracer {
	if t != nil {
		return t
	}
	return otel.Tracer(defaultTracerName)
}

func (b *Bridge) startSpan(name string, inst *instance) (context.Context, trace.Span) {
	return b.tracer.Start(b.ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("react.component", inst.name),
			attribute.Int64("react.instance", int64(inst.id)),
		),
	)
}

// endSpan finishes span, recording a panic in flight as an error. The panic
// is re-raised.
func endSpan(span trace.Span) {
	if r := recover(); r != nil {
		span.SetStatus(codes.Error, fmt.Sprint(r))
		if err, ok := r.(error); ok {
			span.RecordError(err)
		}
		span.End()
		panic(r)
	}
	span.SetStatus(codes.Ok, "")
	span.End()
}
