// Package table holds the in-memory tabular model shared by every pipeline
// stage. A Table is a header plus rows of tagged cells; stages receive a table
// and hand back a new one, so a caller's reference is never mutated behind its
// back.
package table

import (
	"math"
	"strconv"
	"time"
)

// Kind tags the dynamic type of a Value.
type Kind uint8

const (
	// Null is the explicit missing marker. It is the zero Kind so a zero Value
	// is missing.
	Null Kind = iota
	String
	Number
	Date
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Date:
		return "date"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// DateLayout is used when a Date cell is rendered as text.
const DateLayout = "2006-01-02"

// Value is one cell. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Str returns a String cell.
func Str(s string) Value { return Value{Kind: String, Str: s} }

// Num returns a Number cell. NaN is stored as missing.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{Kind: Number, Num: f}
}

// DateOf returns a Date cell holding the calendar date of t in UTC.
func DateOf(t time.Time) Value {
	y, m, d := t.UTC().Date()
	return Value{Kind: Date, Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Text converts a possibly-nil source cell: nil becomes missing.
func Text(s *string) Value {
	if s == nil {
		return Value{}
	}
	return Str(*s)
}

// IsNull reports whether v is the missing marker.
func (v Value) IsNull() bool { return v.Kind == Null }

// String renders the cell for display and grouping. Missing renders as "".
// Integral numbers render without a fractional part ("2020", not "2020.0").
func (v Value) String() string {
	switch v.Kind {
	case String:
		return v.Str
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case Date:
		return v.Time.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports exact equality, including kind.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case String:
		return v.Str == o.Str
	case Number:
		return v.Num == o.Num
	case Date:
		return v.Time.Equal(o.Time)
	default:
		return true
	}
}

// Less orders two cells: missing first, numbers and dates by magnitude, and
// anything else by its text. Mixed kinds fall back to text ordering.
func (v Value) Less(o Value) bool {
	switch {
	case v.Kind == Null:
		return o.Kind != Null
	case o.Kind == Null:
		return false
	case v.Kind == Number && o.Kind == Number:
		return v.Num < o.Num
	case v.Kind == Date && o.Kind == Date:
		return v.Time.Before(o.Time)
	default:
		return v.String() < o.String()
	}
}

// AppendKey appends an unambiguous binary encoding of v to b. Two cells
// produce the same key exactly when Equal reports true.
func (v Value) AppendKey(b []byte) []byte {
	b = append(b, byte(v.Kind))
	switch v.Kind {
	case String:
		b = strconv.AppendInt(b, int64(len(v.Str)), 10)
		b = append(b, ':')
		b = append(b, v.Str...)
	case Number:
		n := v.Num
		if n == 0 {
			n = 0 // fold -0
		}
		b = strconv.AppendUint(b, math.Float64bits(n), 16)
	case Date:
		b = strconv.AppendInt(b, v.Time.Unix(), 10)
	}
	return append(b, 0x1f)
}
