// Package csv parses delimited catalog text into a table. The whole input is
// read into memory; header cells are canonicalised so that BOMs, stray
// whitespace and configured aliases do not hide required columns.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"catalogsummary/internal/config"
	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

// Options configures the parser. Zero values select the defaults.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing whitespace from each cell.
	TrimSpace bool

	// LazyQuotes relaxes quote handling (csv.Reader.LazyQuotes).
	LazyQuotes bool

	// HeaderMap maps source header names to column names.
	HeaderMap map[string]string
}

// OptionsFrom decodes parser options from the free-form config map.
//
//   - comma (string; first rune used; default ',')
//   - trim_space (bool; default false)
//   - lazy_quotes (bool; default false)
//   - header_map (object: source header -> column name)
func OptionsFrom(o config.Options) Options {
	return Options{
		Comma:      o.Rune("comma", ','),
		TrimSpace:  o.Bool("trim_space", false),
		LazyQuotes: o.Bool("lazy_quotes", false),
		HeaderMap:  o.StringMap("header_map"),
	}
}

// ParseError reports the input line a parse failure happened on. Line 1 is
// the header.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNoHeader is returned for input with no header line.
var ErrNoHeader = errors.New("csv: input has no header line")

// Parser parses delimited text according to Options.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes r and returns the table. Empty cells are missing. Rows
// shorter than the header are padded with missing cells; a wider row or a
// malformed quote fails the whole parse.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	// Width is enforced against the header below, not by encoding/csv.
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}
	headers := schema.CanonicalHeaders(h, p.opt.HeaderMap)

	var rows [][]table.Value
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			return nil, &ParseError{Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		if len(rec) > len(headers) {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("row has %d fields, header has %d", len(rec), len(headers)),
			}
		}
		row := make([]table.Value, len(headers))
		for i, val := range rec {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			if val != "" {
				row[i] = table.Str(val)
			}
		}
		rows = append(rows, row)
	}

	return table.New(headers, rows)
}
