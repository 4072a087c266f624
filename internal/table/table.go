package table

import (
	"fmt"
	"slices"
)

// Table is an ordered header plus rows of cells. Every row has exactly
// len(Columns()) cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New builds a table from a header and rows. Short rows are padded with
// missing cells; a row wider than the header is an error.
func New(columns []string, rows [][]Value) (*Table, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c)
		}
		idx[c] = i
	}
	out := make([][]Value, len(rows))
	for i, r := range rows {
		if len(r) > len(columns) {
			return nil, fmt.Errorf("table: row %d has %d cells, header has %d", i+1, len(r), len(columns))
		}
		if len(r) < len(columns) {
			padded := make([]Value, len(columns))
			copy(padded, r)
			r = padded
		}
		out[i] = r
	}
	return &Table{columns: slices.Clone(columns), index: idx, rows: out}, nil
}

// MustNew is New for fixtures whose shape is known to be valid.
func MustNew(columns []string, rows [][]Value) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool { return t.Index(col) >= 0 }

// Row returns row i. The slice is shared with the table and must not be
// modified; use Clone first when a stage needs to edit cells.
func (t *Table) Row(i int) []Value { return t.rows[i] }

// Cell returns the value at row i, column col. Unknown columns read as
// missing.
func (t *Table) Cell(i int, col string) Value {
	j := t.Index(col)
	if j < 0 {
		return Value{}
	}
	return t.rows[i][j]
}

// Column copies out every cell of col. ok is false when col is absent.
func (t *Table) Column(col string) (vals []Value, ok bool) {
	j := t.Index(col)
	if j < 0 {
		return nil, false
	}
	vals = make([]Value, len(t.rows))
	for i, r := range t.rows {
		vals[i] = r[j]
	}
	return vals, true
}

// NullCount counts missing cells in col. Absent columns count as zero.
func (t *Table) NullCount(col string) int {
	j := t.Index(col)
	if j < 0 {
		return 0
	}
	n := 0
	for _, r := range t.rows {
		if r[j].IsNull() {
			n++
		}
	}
	return n
}

// Clone deep-copies the row storage.
func (t *Table) Clone() *Table {
	rows := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		rows[i] = slices.Clone(r)
	}
	return &Table{columns: slices.Clone(t.columns), index: cloneIndex(t.index), rows: rows}
}

// Select returns a table holding the rows at the given positions, in order.
// Row storage is shared with t.
func (t *Table) Select(positions []int) *Table {
	rows := make([][]Value, len(positions))
	for i, p := range positions {
		rows[i] = t.rows[p]
	}
	return &Table{columns: slices.Clone(t.columns), index: cloneIndex(t.index), rows: rows}
}

// WithColumn returns a copy of t where col holds vals. An existing column is
// replaced in place; a new one is appended to the header.
func (t *Table) WithColumn(col string, vals []Value) (*Table, error) {
	if len(vals) != len(t.rows) {
		return nil, fmt.Errorf("table: column %q has %d values, table has %d rows", col, len(vals), len(t.rows))
	}
	out := t.Clone()
	j, exists := out.index[col]
	if !exists {
		j = len(out.columns)
		out.columns = append(out.columns, col)
		out.index[col] = j
	}
	for i := range out.rows {
		if !exists {
			out.rows[i] = append(out.rows[i], Value{})
		}
		out.rows[i][j] = vals[i]
	}
	return out, nil
}

// Set overwrites a single cell. It is meant for stages that were handed a
// clone; it panics on an unknown column.
func (t *Table) Set(i int, col string, v Value) {
	j, ok := t.index[col]
	if !ok {
		panic(fmt.Sprintf("table: unknown column %q", col))
	}
	t.rows[i][j] = v
}

// Equal reports whether both tables have the same header and cells.
func (t *Table) Equal(o *Table) bool {
	if !slices.Equal(t.columns, o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !RowsEqual(t.rows[i], o.rows[i]) {
			return false
		}
	}
	return true
}

// RowsEqual compares two rows cell by cell.
func RowsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneIndex(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
