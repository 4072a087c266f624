package builtin

import (
	"time"

	"github.com/araddon/dateparse"

	"catalogsummary/internal/table"
)

// DefaultDateLayouts are tried before the tolerant fallback parser.
var DefaultDateLayouts = []string{
	"January 2, 2006",
	"2006-01-02",
	"2-Jan-06",
}

// ParseDates turns a text column into calendar dates. Each cell is tried
// against Layouts in order, then against dateparse's format detection
// (month-first for ambiguous numeric dates). A cell nothing can parse
// becomes missing; only an absent column is an error.
type ParseDates struct {
	Column  string
	Layouts []string
	InPlace bool
}

// Apply parses the column.
func (p ParseDates) Apply(t *table.Table) (*table.Table, error) {
	if err := requireColumns(t, p.Column); err != nil {
		return nil, err
	}
	layouts := p.Layouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	out := working(t, p.InPlace)
	for i := 0; i < out.Len(); i++ {
		v := out.Cell(i, p.Column)
		if v.Kind == table.Date || v.IsNull() {
			continue
		}
		if d, ok := ParseDate(v.String(), layouts); ok {
			out.Set(i, p.Column, table.DateOf(d))
		} else {
			out.Set(i, p.Column, table.Missing())
		}
	}
	return out, nil
}

// ParseDate parses s with the given layouts, falling back to dateparse.
// Times are interpreted in UTC.
func ParseDate(s string, layouts []string) (time.Time, bool) {
	for _, l := range layouts {
		if d, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return d, true
		}
	}
	d, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
