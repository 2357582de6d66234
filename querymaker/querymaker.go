// Package querymaker provides convenience constructors for common
// predicates: equality, substring matching, set membership, and numeric
// ranges. Every factory returns an ordinary easyquery.Query built from the
// same string-expression and callable conditions callers write by hand; no
// new evaluation machinery is involved, so factory-built queries compose
// with hand-written ones through And, Or, Xor, and Not as usual.
//
// Factories panic on programmer errors such as a callable-backed factory
// receiving a column name that is not a valid identifier; whether the
// column exists in a table is, as always, checked lazily at evaluation.
package querymaker

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yymao/easyquery"
)

// Equals matches rows whose column equals value. Strings, booleans,
// numbers, decimals, and UUIDs are rendered into the expression language;
// any other value type falls back to a callable condition comparing with
// reflect.DeepEqual.
func Equals(column string, value any) easyquery.Query {
	if lit, ok := literal(value); ok {
		return easyquery.MustNew(fmt.Sprintf("%s == %s", column, lit))
	}
	return easyquery.MustNew(easyquery.Callable(func(cols ...[]any) ([]bool, error) {
		mask := make([]bool, len(cols[0]))
		for i, v := range cols[0] {
			mask[i] = valuesEqual(v, value)
		}
		return mask, nil
	}, column))
}

// Contains matches rows whose string column contains substring.
func Contains(column, substring string) easyquery.Query {
	return easyquery.MustNew(fmt.Sprintf("%s.contains(%s)", column, quote(substring)))
}

// StartsWith matches rows whose string column starts with prefix.
func StartsWith(column, prefix string) easyquery.Query {
	return easyquery.MustNew(fmt.Sprintf("%s.startsWith(%s)", column, quote(prefix)))
}

// EndsWith matches rows whose string column ends with suffix.
func EndsWith(column, suffix string) easyquery.Query {
	return easyquery.MustNew(fmt.Sprintf("%s.endsWith(%s)", column, quote(suffix)))
}

// In matches rows whose column equals any of the supplied values. Numeric
// values compare across integer and floating-point representations, so
// In("a", 3) matches a float64 column holding 3.0.
func In(column string, values ...any) easyquery.Query {
	return easyquery.MustNew(easyquery.Callable(func(cols ...[]any) ([]bool, error) {
		mask := make([]bool, len(cols[0]))
		for i, v := range cols[0] {
			for _, want := range values {
				if valuesEqual(v, want) {
					mask[i] = true
					break
				}
			}
		}
		return mask, nil
	}, column))
}

// RangeOption adjusts the bound inclusivity of InRange.
type RangeOption func(*rangeBounds)

type rangeBounds struct {
	lowInclusive  bool
	highInclusive bool
}

// ExclusiveLow makes the lower bound exclusive.
func ExclusiveLow() RangeOption {
	return func(b *rangeBounds) { b.lowInclusive = false }
}

// InclusiveHigh makes the upper bound inclusive.
func InclusiveHigh() RangeOption {
	return func(b *rangeBounds) { b.highInclusive = true }
}

// InRange matches rows whose numeric column lies between low and high. The
// default interval is half-open: low inclusive, high exclusive. Adjust with
// ExclusiveLow and InclusiveHigh.
func InRange(column string, low, high float64, opts ...RangeOption) easyquery.Query {
	bounds := rangeBounds{lowInclusive: true, highInclusive: false}
	for _, opt := range opts {
		opt(&bounds)
	}

	lowOp := ">="
	if !bounds.lowInclusive {
		lowOp = ">"
	}
	highOp := "<"
	if bounds.highInclusive {
		highOp = "<="
	}
	return easyquery.MustNew(fmt.Sprintf("%s %s %s && %s %s %s",
		column, lowOp, formatFloat(low),
		column, highOp, formatFloat(high)))
}

// literal renders value as an expression literal, if its type has one.
func literal(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return quote(v), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10) + "u", true
	case uint8:
		return strconv.FormatUint(uint64(v), 10) + "u", true
	case uint16:
		return strconv.FormatUint(uint64(v), 10) + "u", true
	case uint32:
		return strconv.FormatUint(uint64(v), 10) + "u", true
	case uint64:
		return strconv.FormatUint(v, 10) + "u", true
	case float32:
		return formatFloat(float64(v)), true
	case float64:
		return formatFloat(v), true
	case decimal.Decimal:
		return v.String(), true
	case uuid.UUID:
		return quote(v.String()), true
	default:
		return "", false
	}
}

// formatFloat renders a float with an explicit fraction or exponent so the
// expression engine reads it as a floating-point literal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quote renders a string literal. Go escaping is a compatible subset of the
// expression language's double-quoted form.
func quote(s string) string {
	return strconv.Quote(s)
}

// valuesEqual compares a column value against a wanted value, collapsing
// numeric representations first so 3, int64(3), and 3.0 all match.
func valuesEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case decimal.Decimal:
		return x.InexactFloat64(), true
	default:
		return 0, false
	}
}
