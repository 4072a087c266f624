package schema

import (
	"time"

	"catalogsummary/internal/table"
)

// Duration units derived from the free-text Duration column.
const (
	UnitMinutes = "minutes"
	UnitSeasons = "seasons"
	UnitUnknown = "unknown"
)

// Record is the typed view of one normalised catalog row. Pointer fields are
// nil when the underlying cell is missing.
type Record struct {
	Title        string
	Type         string
	Country      string
	Rating       string
	Genre        string
	Director     string
	Cast         string
	DateAdded    *time.Time
	Duration     string
	ReleaseYear  *int
	DurationMin  *float64
	DurationUnit string
}

// Records converts every row of t. Columns absent from t leave the
// corresponding field at its zero value.
func Records(t *table.Table) []Record {
	out := make([]Record, t.Len())
	for i := range out {
		r := &out[i]
		r.Title = t.Cell(i, Title).String()
		r.Type = t.Cell(i, Type).String()
		r.Country = t.Cell(i, Country).String()
		r.Rating = t.Cell(i, Rating).String()
		r.Genre = t.Cell(i, Genre).String()
		r.Director = t.Cell(i, Director).String()
		r.Cast = t.Cell(i, Cast).String()
		r.Duration = t.Cell(i, Duration).String()
		r.DurationUnit = t.Cell(i, DurationUnit).String()

		if v := t.Cell(i, DateAdded); v.Kind == table.Date {
			d := v.Time
			r.DateAdded = &d
		}
		if v := t.Cell(i, ReleaseYear); v.Kind == table.Number {
			y := int(v.Num)
			r.ReleaseYear = &y
		}
		if v := t.Cell(i, DurationMin); v.Kind == table.Number {
			m := v.Num
			r.DurationMin = &m
		}
	}
	return out
}
