package evaluator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateComparison(t *testing.T) {
	ns := map[string][]any{
		"a": {1, 1, 3, 5},
		"b": {5, 1, 2, 5},
	}

	got, err := New().Evaluate("a > 3", ns, 4)
	require.NoError(t, err)
	assert.Equal(t, []any{false, false, false, true}, got)

	got, err = New().Evaluate("a == b", ns, 4)
	require.NoError(t, err)
	assert.Equal(t, []any{false, true, false, true}, got)
}

func TestEvaluateCrossTypeNumeric(t *testing.T) {
	ns := map[string][]any{
		"b": {5, 1, 2, 5},
		"c": {4.5, 6.2, 0.5, -3.5},
	}

	got, err := New().Evaluate("b > c", ns, 4)
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, true, true}, got)
}

func TestEvaluateArithmeticAndBoolean(t *testing.T) {
	ns := map[string][]any{
		"x": {2, 3, 4},
		"y": {1.0, 9.0, 2.0},
	}

	got, err := New().Evaluate("x * 2 >= 6 && y < 5.0", ns, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{false, false, true}, got)

	// Arithmetic expressions evaluate too; the caller decides whether a
	// non-boolean result is acceptable.
	got, err = New().Evaluate("x + 1", ns, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3), int64(4), int64(5)}, got)
}

func TestEvaluateStringFunctions(t *testing.T) {
	ns := map[string][]any{
		"name": {"alpha", "beta", "alphabet"},
	}

	got, err := New().Evaluate(`name.startsWith("alpha")`, ns, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, true}, got)

	got, err = New().Evaluate(`name.contains("bet")`, ns, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{false, true, true}, got)
}

func TestEvaluateNormalizesValues(t *testing.T) {
	ns := map[string][]any{
		"d":  {decimal.NewFromFloat(1.5), decimal.NewFromFloat(2.5)},
		"id": {uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), uuid.Nil},
		"n":  {int32(7), int32(8)},
	}

	got, err := New().Evaluate("d > 2.0", ns, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{false, true}, got)

	got, err = New().Evaluate(`id == "6ba7b810-9dad-11d1-80b4-00c04fd430c8"`, ns, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{true, false}, got)

	got, err = New().Evaluate("n % 2 == 0", ns, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{false, true}, got)
}

func TestEvaluateLazyResolution(t *testing.T) {
	// The junk column is shorter than the table and holds an unusable
	// value; it must not break an expression that never references it.
	ns := map[string][]any{
		"a":    {1, 5},
		"junk": {struct{}{}},
	}

	got, err := New().Evaluate("a > 3", ns, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{false, true}, got)
}

func TestEvaluateErrors(t *testing.T) {
	ns := map[string][]any{"a": {1}}

	_, err := New().Evaluate("a >", ns, 1)
	assert.Error(t, err)

	_, err = New().Evaluate("missing > 3", ns, 1)
	assert.Error(t, err)
}

func TestEvaluateEmptyRows(t *testing.T) {
	// Zero rows short-circuits without compiling, so even a malformed
	// expression succeeds with an empty result.
	got, err := New().Evaluate("a >", map[string][]any{}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProgramCacheReuse(t *testing.T) {
	e := New(WithCacheSize(4))
	ns := map[string][]any{"a": {1, 5}}

	first, err := e.Evaluate("a > 3", ns, 2)
	require.NoError(t, err)
	second, err := e.Evaluate("a > 3", ns, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The same expression over a different column set compiles separately.
	other := map[string][]any{"a": {1, 5}, "b": {2, 6}}
	third, err := e.Evaluate("a > 3", other, 2)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestIdentifiers(t *testing.T) {
	names, err := New().Identifiers("a > 3 && b < c || a == 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	names, err = New().Identifiers(`name.contains("b")`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, names)

	names, err = New().Identifiers("1 + 2 == 3")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = New().Identifiers("a >")
	assert.Error(t, err)
}
