package builtin

import (
	"strings"

	"golang.org/x/text/transform"

	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

// mojibake undoes the common double-encoded no-break space and turns the
// remaining no-break spaces into plain ones.
// A CRLF pair collapses to one space.
var mojibake = strings.NewReplacer("\u00c2\u00a0", " ", "\u00c2 ", " ", "\u00a0", " ", "\r\n", " ")

// Normalize cleans text cells: NFC normalisation, the no-break-space fix,
// control whitespace turned into spaces, other control characters removed,
// and surrounding whitespace trimmed. A cell left empty
// becomes missing. Non-text cells are not touched.
type Normalize struct {
	// Columns limits the stage to these columns; empty means all.
	Columns []string
	InPlace bool
}

// Apply normalises the text cells.
func (n Normalize) Apply(t *table.Table) (*table.Table, error) {
	cols := n.Columns
	if len(cols) == 0 {
		cols = t.Columns()
	} else if err := requireColumns(t, cols...); err != nil {
		return nil, err
	}

	tr := schema.NewTextTransformer()
	out := working(t, n.InPlace)
	for _, c := range cols {
		for i := 0; i < out.Len(); i++ {
			v := out.Cell(i, c)
			if v.Kind != table.String {
				continue
			}
			s := CleanText(tr, v.Str)
			switch {
			case s == "":
				out.Set(i, c, table.Missing())
			case s != v.Str:
				out.Set(i, c, table.Str(s))
			}
		}
	}
	return out, nil
}

// CleanText applies the Normalize rules to one string using tr, which must
// be a fresh or reset transformer.
func CleanText(tr transform.Transformer, s string) string {
	s = mojibake.Replace(s)
	if clean, _, err := transform.String(tr, s); err == nil {
		s = clean
	}
	return strings.TrimSpace(s)
}
