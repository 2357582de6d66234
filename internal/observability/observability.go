// Package observability provides OpenTelemetry-based instrumentation for
// query evaluation.
//
// All observability features are opt-in. When not configured, no-op
// implementations are used with negligible overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants.
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/yymao/easyquery"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/yymao/easyquery"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	// AttrOperation is the evaluation operation: mask, filter, or count.
	AttrOperation = "easyquery.operation"
	// AttrRowCount is the number of rows in the evaluated table.
	AttrRowCount = "easyquery.row_count"
	// AttrMatchCount is the number of rows the predicate selected.
	AttrMatchCount = "easyquery.match_count"
)

// OperationAttr returns the operation attribute.
func OperationAttr(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// RowCountAttr returns the table row count attribute.
func RowCountAttr(rows int) attribute.KeyValue {
	return attribute.Int(AttrRowCount, rows)
}

// MatchCountAttr returns the selected row count attribute.
func MatchCountAttr(matches int) attribute.KeyValue {
	return attribute.Int(AttrMatchCount, matches)
}
