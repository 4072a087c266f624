// Package transformer defines the table-to-table stage contract used by the
// cleaning and normalisation steps.
package transformer

import (
	"fmt"

	"catalogsummary/internal/table"
)

// Transformer turns one table into another. Implementations never modify
// their input; a failure aborts the run.
type Transformer interface {
	Apply(t *table.Table) (*table.Table, error)
}

// Func adapts a plain function to Transformer.
type Func func(t *table.Table) (*table.Table, error)

// Apply calls f.
func (f Func) Apply(t *table.Table) (*table.Table, error) { return f(t) }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer on the output of the previous one.
func (c Chain) Apply(in *table.Table) (*table.Table, error) {
	out := in
	for i, t := range c {
		var err error
		if out, err = t.Apply(out); err != nil {
			return nil, fmt.Errorf("transform %d (%T): %w", i, t, err)
		}
	}
	return out, nil
}
