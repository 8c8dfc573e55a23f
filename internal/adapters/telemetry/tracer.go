// Package telemetry adapts OpenTelemetry tracing to the Tracer port.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

// InstrumentationName names the tracer created by NewOTelTracer.
const InstrumentationName = "go.trai.ch/kiln"

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	provider trace.TracerProvider
}

// NewOTelTracer creates a tracer backed by provider. A nil provider means
// the global one, resolved on every Start so a provider installed later is
// picked up.
func NewOTelTracer(provider trace.TracerProvider) *OTelTracer {
	return &OTelTracer{provider: provider}
}

func (t *OTelTracer) tracer() trace.Tracer {
	if t.provider == nil {
		return otel.Tracer(InstrumentationName)
	}
	return t.provider.Tracer(InstrumentationName)
}

// Start creates a new span carrying the attributes of opts.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer().Start(ctx, name)
	s := &OTelSpan{span: span}
	for k, v := range cfg.Attributes {
		s.SetAttribute(k, v)
	}

	if span.IsRecording() {
		s.batcher = NewLineBatcher(0, 0, func(data []byte) {
			span.AddEvent("output", trace.WithAttributes(attribute.String("data", string(data))))
		})
	}
	return ctx, s
}

// EmitPlan records the requested targets as an event on the current span.
func (t *OTelTracer) EmitPlan(ctx context.Context, targets []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("targets", targets),
		))
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *LineBatcher
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write records action output as "output" events, batched.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	if s.batcher == nil {
		return len(p), nil
	}
	return s.batcher.Write(p)
}
