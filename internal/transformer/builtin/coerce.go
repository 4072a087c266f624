package builtin

import (
	"math"
	"sort"
	"strconv"

	"catalogsummary/internal/table"
)

// Coerce converts text columns to typed cells. Types maps a column to one
// of "int", "float", "date" or "string". A cell that does not convert
// becomes missing; "int" also rejects fractional values.
type Coerce struct {
	Types map[string]string

	// Layouts are used for "date" columns; see ParseDates.
	Layouts []string
	InPlace bool
}

// Apply converts every listed column.
func (c Coerce) Apply(t *table.Table) (*table.Table, error) {
	cols := make([]string, 0, len(c.Types))
	for col := range c.Types {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	if err := requireColumns(t, cols...); err != nil {
		return nil, err
	}
	layouts := c.Layouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	out := working(t, c.InPlace)
	for _, col := range cols {
		typ := c.Types[col]
		for i := 0; i < out.Len(); i++ {
			v := out.Cell(i, col)
			if v.IsNull() {
				continue
			}
			out.Set(i, col, coerce(v, typ, layouts))
		}
	}
	return out, nil
}

func coerce(v table.Value, typ string, layouts []string) table.Value {
	switch typ {
	case "int", "float":
		if v.Kind == table.Number {
			if typ == "int" && v.Num != math.Trunc(v.Num) {
				return table.Missing()
			}
			return v
		}
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil || math.IsInf(f, 0) {
			return table.Missing()
		}
		if typ == "int" && f != math.Trunc(f) {
			return table.Missing()
		}
		return table.Num(f)
	case "date":
		if v.Kind == table.Date {
			return v
		}
		if d, ok := ParseDate(v.String(), layouts); ok {
			return table.DateOf(d)
		}
		return table.Missing()
	default:
		if v.Kind == table.String {
			return v
		}
		return table.Str(v.String())
	}
}
