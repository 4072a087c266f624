// Package builtin contains the cleaning and normalisation stages.
//
// Every stage returns a new table and leaves its input untouched. The
// cell-rewriting stages (FillDefaults, Normalize, ParseDates, Coerce) accept
// InPlace=true to edit the caller's table directly instead; the returned
// table is then the input itself.
package builtin

import (
	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

// working returns the table a stage should write to.
func working(t *table.Table, inPlace bool) *table.Table {
	if inPlace {
		return t
	}
	return t.Clone()
}

// requireColumns fails with a *schema.SchemaError naming any absent column.
func requireColumns(t *table.Table, cols ...string) error {
	return schema.Check(t.Columns(), cols)
}
