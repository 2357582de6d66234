package easyquery

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// backend provides uniform access to one tabular container shape, bound to a
// concrete table value. Implementations perform no caching and never mutate
// the bound table; selectRows returns a new container of the same shape.
//
// The set of shapes is closed: a records slice, a labelled columnar *Table,
// and an Arrow record batch. Dispatch happens per evaluation by inspecting
// the table's runtime type, so a single Query can be evaluated against any
// mix of shapes.
type backend interface {
	// columns returns the names of every column the table exposes.
	columns() []string

	// column returns the named column as a value slice, one entry per row.
	// Absent columns fail with a ColumnNotFoundError.
	column(name string) ([]any, error)

	// selectRows returns a new table of the same shape holding only the
	// rows where mask is true, preserving column set and row order.
	selectRows(mask []bool) (any, error)

	// rowCount returns the number of rows.
	rowCount() int
}

// bindTable selects the backend matching the table's runtime type.
func bindTable(table any) (backend, error) {
	switch t := table.(type) {
	case []Record:
		return recordsBackend{rows: t}, nil
	case []map[string]any:
		rows := make([]Record, len(t))
		for i, r := range t {
			rows[i] = Record(r)
		}
		return recordsBackend{rows: rows}, nil
	case *Table:
		return tableBackend{table: t}, nil
	case arrow.Record:
		return frameBackend{rec: t}, nil
	default:
		return nil, &UnsupportedTableTypeError{Table: table}
	}
}
