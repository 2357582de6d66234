package easyquery

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioFrame builds the reference table as an Arrow record batch.
func scenarioFrame(t *testing.T) arrow.Record {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int64},
		{Name: "b", Type: arrow.PrimitiveTypes.Int64},
		{Name: "c", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 1, 3, 5}, nil)
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{5, 1, 2, 5}, nil)
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{4.5, 6.2, 0.5, -3.5}, nil)

	rec := b.NewRecord()
	t.Cleanup(func() { rec.Release() })
	return rec
}

func TestFrameMaskAndCount(t *testing.T) {
	rec := scenarioFrame(t)

	mask, err := Mask(rec, "a > 3")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true}, mask)

	count, err := Count(rec, "b > c")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Same query, same answer as the other container shapes.
	q := MustNew("a > 3").Not().And(MustNew("b > c"))
	got, err := q.Mask(rec)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, got)
}

func TestFrameFilter(t *testing.T) {
	rec := scenarioFrame(t)

	filtered, err := MustNew("a > 1").Filter(rec)
	require.NoError(t, err)

	out, ok := filtered.(arrow.Record)
	require.True(t, ok, "Filter should return an arrow.Record, got %T", filtered)
	defer out.Release()

	assert.EqualValues(t, 2, out.NumRows())
	assert.True(t, out.Schema().Equal(rec.Schema()), "schema should be preserved")

	a := out.Column(0).(*array.Int64)
	assert.Equal(t, []int64{3, 5}, a.Int64Values())

	c := out.Column(2).(*array.Float64)
	assert.Equal(t, []float64{0.5, -3.5}, c.Float64Values())

	// Input record untouched.
	assert.EqualValues(t, 4, rec.NumRows())
}

func TestFrameNullsAndMissingColumns(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "v", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).AppendValues([]float64{1.5, 0, 3.0}, []bool{true, false, true})

	rec := b.NewRecord()
	defer rec.Release()

	fn := func(cols ...[]any) ([]bool, error) {
		mask := make([]bool, len(cols[0]))
		for i, v := range cols[0] {
			mask[i] = v != nil
		}
		return mask, nil
	}
	mask, err := Mask(rec, Callable(fn, "v"))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, mask)

	_, err = Mask(rec, Callable(fn, "w"))
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestFrameEmpty(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	rec := b.NewRecord()
	defer rec.Release()

	mask, err := Mask(rec, "a > 3")
	require.NoError(t, err)
	assert.Empty(t, mask)
}
