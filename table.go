package easyquery

// Table is a labelled columnar table: named columns of equal length in a
// stable order. The zero value is an empty table with no columns.
//
// Tables are cheap to filter because selection copies column slices, never
// row structures.
type Table struct {
	names []string
	cols  map[string][]any
	rows  int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{cols: make(map[string][]any)}
}

// AddColumn appends a named column. The first column fixes the table's row
// count; later columns must match it. Duplicate names and empty names are
// rejected with ErrInvalidArgument.
func (t *Table) AddColumn(name string, values []any) error {
	if name == "" {
		return invalidArgumentf("column name must not be empty")
	}
	if t.cols == nil {
		t.cols = make(map[string][]any)
	}
	if _, ok := t.cols[name]; ok {
		return invalidArgumentf("duplicate column %q", name)
	}
	if len(t.names) > 0 && len(values) != t.rows {
		return invalidArgumentf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	t.names = append(t.names, name)
	t.cols[name] = values
	t.rows = len(values)
	return nil
}

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Column returns the named column and whether it exists.
func (t *Table) Column(name string) ([]any, bool) {
	col, ok := t.cols[name]
	return col, ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// tableBackend adapts a *Table.
type tableBackend struct {
	table *Table
}

func (b tableBackend) columns() []string {
	return b.table.Names()
}

func (b tableBackend) column(name string) ([]any, error) {
	col, ok := b.table.Column(name)
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	return col, nil
}

func (b tableBackend) selectRows(mask []bool) (any, error) {
	if len(mask) != b.table.rows {
		return nil, &ResultLengthMismatchError{Want: b.table.rows, Got: len(mask)}
	}
	out := NewTable()
	for _, name := range b.table.names {
		src := b.table.cols[name]
		dst := make([]any, 0, len(src))
		for i, v := range src {
			if mask[i] {
				dst = append(dst, v)
			}
		}
		if err := out.AddColumn(name, dst); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (b tableBackend) rowCount() int {
	return b.table.rows
}
