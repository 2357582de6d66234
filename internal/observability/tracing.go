package observability

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with evaluation-specific span
// creation methods.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(TracerName)}
}

// StartEvaluation starts a span covering one mask, filter, or count call.
func (t *Tracer) StartEvaluation(ctx context.Context, op string, rows int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "easyquery."+op, trace.WithAttributes(
		OperationAttr(op),
		RowCountAttr(rows),
	))
}

// EndEvaluation records the outcome on the span and ends it.
func EndEvaluation(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
