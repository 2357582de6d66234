package easyquery

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// frameBackend adapts an Arrow record batch (the data-frame shape).
// Column extraction unboxes Arrow arrays into plain value slices; null
// entries become nil. Row selection builds a fresh record batch with the
// same schema, so the input record is never modified and the caller keeps
// ownership of it.
type frameBackend struct {
	rec arrow.Record
}

func (b frameBackend) columns() []string {
	fields := b.rec.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func (b frameBackend) column(name string) ([]any, error) {
	indices := b.rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, &ColumnNotFoundError{Column: name}
	}
	col := b.rec.Column(indices[0])

	n := col.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		if col.IsNull(i) {
			continue
		}
		v, err := arrowValue(col, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (b frameBackend) selectRows(mask []bool) (any, error) {
	n := int(b.rec.NumRows())
	if len(mask) != n {
		return nil, &ResultLengthMismatchError{Want: n, Got: len(mask)}
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, b.rec.Schema())
	defer builder.Release()

	for c := 0; c < int(b.rec.NumCols()); c++ {
		src := b.rec.Column(c)
		dst := builder.Field(c)
		for i := 0; i < n; i++ {
			if !mask[i] {
				continue
			}
			if err := appendArrowValue(dst, src, i); err != nil {
				return nil, err
			}
		}
	}
	return builder.NewRecord(), nil
}

func (b frameBackend) rowCount() int {
	return int(b.rec.NumRows())
}

// arrowValue unboxes one non-null array entry into a plain Go value.
func arrowValue(col arrow.Array, i int) (any, error) {
	switch c := col.(type) {
	case *array.Int8:
		return int64(c.Value(i)), nil
	case *array.Int16:
		return int64(c.Value(i)), nil
	case *array.Int32:
		return int64(c.Value(i)), nil
	case *array.Int64:
		return c.Value(i), nil
	case *array.Uint8:
		return uint64(c.Value(i)), nil
	case *array.Uint16:
		return uint64(c.Value(i)), nil
	case *array.Uint32:
		return uint64(c.Value(i)), nil
	case *array.Uint64:
		return c.Value(i), nil
	case *array.Float32:
		return float64(c.Value(i)), nil
	case *array.Float64:
		return c.Value(i), nil
	case *array.String:
		return c.Value(i), nil
	case *array.LargeString:
		return c.Value(i), nil
	case *array.Boolean:
		return c.Value(i), nil
	default:
		return nil, fmt.Errorf("%w: arrow column type %s", ErrUnsupportedTableType, col.DataType())
	}
}

// appendArrowValue copies entry i of src onto the matching builder.
func appendArrowValue(dst array.Builder, src arrow.Array, i int) error {
	if src.IsNull(i) {
		dst.AppendNull()
		return nil
	}
	switch s := src.(type) {
	case *array.Int8:
		dst.(*array.Int8Builder).Append(s.Value(i))
	case *array.Int16:
		dst.(*array.Int16Builder).Append(s.Value(i))
	case *array.Int32:
		dst.(*array.Int32Builder).Append(s.Value(i))
	case *array.Int64:
		dst.(*array.Int64Builder).Append(s.Value(i))
	case *array.Uint8:
		dst.(*array.Uint8Builder).Append(s.Value(i))
	case *array.Uint16:
		dst.(*array.Uint16Builder).Append(s.Value(i))
	case *array.Uint32:
		dst.(*array.Uint32Builder).Append(s.Value(i))
	case *array.Uint64:
		dst.(*array.Uint64Builder).Append(s.Value(i))
	case *array.Float32:
		dst.(*array.Float32Builder).Append(s.Value(i))
	case *array.Float64:
		dst.(*array.Float64Builder).Append(s.Value(i))
	case *array.String:
		dst.(*array.StringBuilder).Append(s.Value(i))
	case *array.LargeString:
		dst.(*array.LargeStringBuilder).Append(s.Value(i))
	case *array.Boolean:
		dst.(*array.BooleanBuilder).Append(s.Value(i))
	default:
		return fmt.Errorf("%w: arrow column type %s", ErrUnsupportedTableType, src.DataType())
	}
	return nil
}
