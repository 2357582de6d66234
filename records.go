package easyquery

import "sort"

// Record is a single row addressed by field name. A slice of Records is the
// simplest table shape the library accepts.
type Record map[string]any

// recordsBackend adapts a []Record row-major table. Column extraction
// materializes a value slice; rows missing the field contribute nil, but a
// column no row carries at all is reported as not found.
type recordsBackend struct {
	rows []Record
}

func (b recordsBackend) columns() []string {
	seen := make(map[string]struct{})
	for _, row := range b.rows {
		for name := range row {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b recordsBackend) column(name string) ([]any, error) {
	col := make([]any, len(b.rows))
	found := false
	for i, row := range b.rows {
		if v, ok := row[name]; ok {
			col[i] = v
			found = true
		}
	}
	if !found {
		return nil, &ColumnNotFoundError{Column: name}
	}
	return col, nil
}

func (b recordsBackend) selectRows(mask []bool) (any, error) {
	if len(mask) != len(b.rows) {
		return nil, &ResultLengthMismatchError{Want: len(b.rows), Got: len(mask)}
	}
	out := make([]Record, 0, len(b.rows))
	for i, row := range b.rows {
		if mask[i] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (b recordsBackend) rowCount() int {
	return len(b.rows)
}
