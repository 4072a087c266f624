// Package schema describes the catalog dataset: its column names, the
// sentinel defaults used during cleaning, the required-column contract, and a
// typed record view over a normalised table.
package schema

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Source columns.
const (
	Title       = "Title"
	Type        = "Type"
	Country     = "Country"
	Rating      = "Rating"
	Genre       = "Genre"
	Director    = "Director"
	Cast        = "Cast"
	DateAdded   = "Date_Added"
	Duration    = "Duration"
	ReleaseYear = "Release_Year"
)

// Derived columns.
const (
	DurationMin  = "Duration_Min"
	DurationUnit = "Duration_Unit"
)

// Content types.
const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// Required lists the columns the loader insists on, in header order.
var Required = []string{
	Title, Type, Country, Rating, Genre, Director, Cast, DateAdded, Duration, ReleaseYear,
}

// Defaults returns the sentinel used for each nullable text column.
func Defaults() map[string]string {
	return map[string]string{
		Country:  "Unknown",
		Rating:   "Not Rated",
		Genre:    "Unknown",
		Director: "Not Given",
		Cast:     "Not Given",
	}
}

// SchemaError reports required columns that are absent from a table.
type SchemaError struct {
	Missing []string
	Source  string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("schema: missing required column(s): %s", strings.Join(e.Missing, ", "))
	if e.Source != "" {
		msg += " in " + e.Source
	}
	return msg
}

// Check verifies that every name in required appears in columns.
func Check(columns, required []string) error {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := have[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

const utf8BOM = "\uFEFF"

// CanonicalHeaders rewrites raw header cells into column names: the BOM and
// control characters are dropped, text is NFC-normalised and trimmed, aliases
// are resolved through aliases, and a name that matches a known column
// ignoring case and space/underscore differences is rewritten to that column.
func CanonicalHeaders(raw []string, aliases map[string]string) []string {
	known := make(map[string]string, len(Required)+2)
	for _, c := range Required {
		known[foldKey(c)] = c
	}
	known[foldKey(DurationMin)] = DurationMin
	known[foldKey(DurationUnit)] = DurationUnit
	out := make([]string, len(raw))
	for i, h := range raw {
		c := cleanHeader(h)
		if a, ok := aliases[c]; ok {
			c = a
		} else if k, ok := known[foldKey(c)]; ok {
			c = k
		}
		out[i] = c
	}
	return out
}

// NewTextTransformer returns the transformer applied to header names and,
// when enabled, to text cells: NFC normalisation, control whitespace (tab,
// newline, carriage return) turned into a plain space, and every other
// control character removed.
func NewTextTransformer() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Map(func(r rune) rune {
			if unicode.Is(unicode.Cc, r) && unicode.IsSpace(r) {
				return ' '
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return unicode.Is(unicode.Cc, r) && !unicode.IsSpace(r)
		})),
	)
}

func cleanHeader(s string) string {
	s = strings.TrimPrefix(s, utf8BOM)
	if clean, _, err := transform.String(NewTextTransformer(), s); err == nil {
		s = clean
	}
	return strings.TrimSpace(s)
}

func foldKey(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
