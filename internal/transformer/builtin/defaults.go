package builtin

import (
	"sort"

	"catalogsummary/internal/table"
)

// FillDefaults replaces missing cells in each listed column with that
// column's replacement. Unlisted columns are left alone; a listed column the
// table lacks is a schema error.
type FillDefaults struct {
	Defaults map[string]string
	InPlace  bool
}

// Apply fills the defaults.
func (f FillDefaults) Apply(t *table.Table) (*table.Table, error) {
	cols := make([]string, 0, len(f.Defaults))
	for c := range f.Defaults {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	if err := requireColumns(t, cols...); err != nil {
		return nil, err
	}

	out := working(t, f.InPlace)
	for _, c := range cols {
		repl := table.Str(f.Defaults[c])
		for i := 0; i < out.Len(); i++ {
			if out.Cell(i, c).IsNull() {
				out.Set(i, c, repl)
			}
		}
	}
	return out, nil
}
