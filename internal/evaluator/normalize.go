package evaluator

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// normalize converts a column value into one of the native types the
// expression engine understands. Integer widths collapse to int64, floats to
// float64, decimals to their nearest float64, and UUIDs to their canonical
// string form. Anything else passes through unchanged and is handled by the
// engine's dynamic typing (or rejected by it at evaluation time).
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case float32:
		return float64(x)
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.InexactFloat64()
	case uuid.UUID:
		return x.String()
	default:
		return v
	}
}
