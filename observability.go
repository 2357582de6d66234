package easyquery

import (
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/yymao/easyquery/internal/observability"
)

// ObservabilityConfig wires OpenTelemetry providers into query evaluation.
// Both fields are optional; a nil provider disables that signal.
type ObservabilityConfig struct {
	// TracerProvider enables a span per Mask, Filter, or Count call.
	TracerProvider trace.TracerProvider

	// MeterProvider enables evaluation counters and row-count histograms.
	MeterProvider metric.MeterProvider
}

// observabilityHub holds the active instrumentation. Swapped atomically so
// SetObservability is safe while evaluations are in flight.
type observabilityHub struct {
	tracer  *observability.Tracer
	metrics *observability.Metrics
}

var activeObservability atomic.Pointer[observabilityHub]

// SetObservability installs instrumentation for all subsequent evaluations.
// The library defaults to no-op instrumentation with negligible overhead.
func SetObservability(cfg ObservabilityConfig) {
	hub := &observabilityHub{
		tracer:  observability.NewNoopTracer(),
		metrics: observability.NewNoopMetrics(),
	}
	if cfg.TracerProvider != nil {
		hub.tracer = observability.NewTracer(cfg.TracerProvider)
	}
	if cfg.MeterProvider != nil {
		hub.metrics = observability.NewMetrics(cfg.MeterProvider)
	}
	activeObservability.Store(hub)
}

func currentObservability() *observabilityHub {
	if hub := activeObservability.Load(); hub != nil {
		return hub
	}
	hub := &observabilityHub{
		tracer:  observability.NewNoopTracer(),
		metrics: observability.NewNoopMetrics(),
	}
	activeObservability.CompareAndSwap(nil, hub)
	return activeObservability.Load()
}

func endEvaluation(span trace.Span, err error) {
	observability.EndEvaluation(span, err)
}
