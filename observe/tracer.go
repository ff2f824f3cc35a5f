package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/cachekit/varstore"
)

// Store operation names.
const (
	OpGet          = "get"
	OpGetOrCompute = "get_or_compute"
	OpSet          = "set"
	OpList         = "list"
)

// StoreOp describes one variable store operation for telemetry.
type StoreOp struct {
	Kind varstore.Kind
	Op   string
	Name string // variable name, empty for list
}

// SpanName returns the span name: varstore.<op>.
func (o StoreOp) SpanName() string {
	return "varstore." + o.Op
}

func (o StoreOp) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("varstore.kind", o.Kind.String()),
		attribute.String("varstore.op", o.Op),
	}
	if o.Name != "" {
		attrs = append(attrs, attribute.String("varstore.variable", o.Name))
	}
	return attrs
}

// Tracer starts and ends spans for store operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, op StoreOp) (context.Context, trace.Span)
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return newTracer(t)
}

func (t *tracerImpl) StartSpan(ctx context.Context, op StoreOp) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, op.SpanName(),
		trace.WithAttributes(op.attributes()...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
