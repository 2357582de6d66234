package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the evaluation metric instruments.
type Metrics struct {
	evalDuration metric.Float64Histogram
	evalCount    metric.Int64Counter
	rowCount     metric.Int64Histogram
	errorCount   metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Instrument creation only fails on invalid parameters; fall back to a
	// bare instrument so the remaining metrics still work.
	var err error

	m.evalDuration, err = meter.Float64Histogram(
		"easyquery.evaluation.duration",
		metric.WithDescription("Duration of query evaluations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.evalDuration, _ = meter.Float64Histogram("easyquery.evaluation.duration")
	}

	m.evalCount, err = meter.Int64Counter(
		"easyquery.evaluation.count",
		metric.WithDescription("Total number of query evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		m.evalCount, _ = meter.Int64Counter("easyquery.evaluation.count")
	}

	m.rowCount, err = meter.Int64Histogram(
		"easyquery.table.rows",
		metric.WithDescription("Number of rows in evaluated tables"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		m.rowCount, _ = meter.Int64Histogram("easyquery.table.rows")
	}

	m.errorCount, err = meter.Int64Counter(
		"easyquery.error.count",
		metric.WithDescription("Total number of failed query evaluations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("easyquery.error.count")
	}

	return m
}

// RecordEvaluation records a completed mask, filter, or count call.
func (m *Metrics) RecordEvaluation(ctx context.Context, op string, rows int, durationMs float64, err error) {
	attrs := metric.WithAttributes(attribute.String(AttrOperation, op))
	m.evalCount.Add(ctx, 1, attrs)
	m.evalDuration.Record(ctx, durationMs, attrs)
	m.rowCount.Record(ctx, int64(rows), attrs)
	if err != nil {
		m.errorCount.Add(ctx, 1, attrs)
	}
}
