package builtin

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

func s(v string) table.Value { return table.Str(v) }

var null = table.Missing()

func catalog() *table.Table {
	cols := []string{"Title", "Country", "Rating", "Genre", "Director", "Cast"}
	return table.MustNew(cols, [][]table.Value{
		{s("A"), s("India"), null, s("Dramas"), null, s("X")},
		{s("B"), null, s("TV-MA"), null, s("Y"), null},
		{s("A"), s("India"), null, s("Dramas"), null, s("X")},
		{s("C"), null, null, null, null, null},
	})
}

func TestDedup(t *testing.T) {
	in := catalog()
	once, err := Dedup{}.Apply(in)
	if err != nil {
		t.Fatalf("Dedup: %v", err)
	}
	if once.Len() != 3 {
		t.Fatalf("rows=%d; want 3", once.Len())
	}
	for i, want := range []string{"A", "B", "C"} {
		if got := once.Cell(i, "Title").Str; got != want {
			t.Fatalf("row %d title=%q; want %q (first occurrence order)", i, got, want)
		}
	}
	twice, err := Dedup{}.Apply(once)
	if err != nil {
		t.Fatalf("Dedup: %v", err)
	}
	if !twice.Equal(once) {
		t.Fatalf("dedup not idempotent")
	}
	if in.Len() != 4 {
		t.Fatalf("input mutated")
	}
}

func TestDedupDistinguishesKinds(t *testing.T) {
	in := table.MustNew([]string{"v"}, [][]table.Value{
		{s("2020")}, {table.Num(2020)}, {null}, {s("")}, {table.Num(2020)},
	})
	out, err := Dedup{}.Apply(in)
	if err != nil {
		t.Fatalf("Dedup: %v", err)
	}
	if out.Len() != 4 {
		t.Fatalf("rows=%d; want 4", out.Len())
	}
}

func TestDedupKeys(t *testing.T) {
	out, err := Dedup{Keys: []string{"Country"}}.Apply(catalog())
	if err != nil {
		t.Fatalf("Dedup: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("rows=%d; want 2 (India, missing)", out.Len())
	}
	if _, err := (Dedup{Keys: []string{"Studio"}}).Apply(catalog()); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestFillDefaults(t *testing.T) {
	in := catalog()
	out, err := FillDefaults{Defaults: schema.Defaults()}.Apply(in)
	if err != nil {
		t.Fatalf("FillDefaults: %v", err)
	}
	for col, want := range schema.Defaults() {
		if n := out.NullCount(col); n != 0 {
			t.Fatalf("%s has %d nulls", col, n)
		}
		if got := out.Cell(3, col).Str; got != want {
			t.Fatalf("%s=%q; want %q", col, got, want)
		}
	}
	if got := out.Cell(0, "Country").Str; got != "India" {
		t.Fatalf("present value overwritten: %q", got)
	}
	if in.NullCount("Country") != 2 {
		t.Fatalf("input mutated")
	}
}

func TestFillDefaultsLeavesUnlistedColumns(t *testing.T) {
	out, err := FillDefaults{Defaults: map[string]string{"Country": "Unknown"}}.Apply(catalog())
	if err != nil {
		t.Fatalf("FillDefaults: %v", err)
	}
	if out.NullCount("Rating") != 3 {
		t.Fatalf("Rating should keep its nulls")
	}
}

func TestFillDefaultsMissingColumn(t *testing.T) {
	in := table.MustNew([]string{"Title"}, nil)
	_, err := FillDefaults{Defaults: map[string]string{"Country": "Unknown"}}.Apply(in)
	var se *schema.SchemaError
	if !errors.As(err, &se) || se.Missing[0] != "Country" {
		t.Fatalf("err=%v; want SchemaError naming Country", err)
	}
}

func TestFillDefaultsInPlace(t *testing.T) {
	in := catalog()
	out, err := FillDefaults{Defaults: schema.Defaults(), InPlace: true}.Apply(in)
	if err != nil {
		t.Fatalf("FillDefaults: %v", err)
	}
	if out != in || in.NullCount("Cast") != 0 {
		t.Fatalf("InPlace should edit the input")
	}
}

func TestNormalize(t *testing.T) {
	in := table.MustNew([]string{"Title", "Year"}, [][]table.Value{
		{s("  Kota\u00c2\u00a0Factory "), table.Num(2019)},
		{s("Cafe\u0301"), null},
		{s(" \t "), null},
		{s("Line\x00Break"), null},
		{s("Actor One\nActor Two"), null},
		{s("Actor One\r\nActor Two\tTrio"), null},
	})
	out, err := Normalize{}.Apply(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []table.Value{
		s("Kota Factory"), s("Caf\u00e9"), null, s("LineBreak"),
		s("Actor One Actor Two"), s("Actor One Actor Two Trio"),
	}
	for i, w := range want {
		if got := out.Cell(i, "Title"); !got.Equal(w) {
			t.Fatalf("row %d: got %#v; want %#v", i, got, w)
		}
	}
	if !out.Cell(0, "Year").Equal(table.Num(2019)) {
		t.Fatalf("number cell changed")
	}
}

func TestParseDates(t *testing.T) {
	in := table.MustNew([]string{"Date_Added"}, [][]table.Value{
		{s("September 25, 2021")},
		{s("2019-04-01")},
		{s("12/31/2018")},
		{s("not a date")},
		{null},
	})
	out, err := ParseDates{Column: "Date_Added"}.Apply(in)
	if err != nil {
		t.Fatalf("ParseDates: %v", err)
	}
	day := func(y int, m time.Month, d int) table.Value {
		return table.DateOf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	want := []table.Value{day(2021, 9, 25), day(2019, 4, 1), day(2018, 12, 31), null, null}
	for i, w := range want {
		if got := out.Cell(i, "Date_Added"); !got.Equal(w) {
			t.Fatalf("row %d: got %v (%s); want %v", i, got, got.Kind, w)
		}
	}

	if _, err := (ParseDates{Column: "Nope"}).Apply(in); err == nil {
		t.Fatalf("expected error for absent column")
	}
}

func TestExtractDuration(t *testing.T) {
	cases := []struct {
		in   table.Value
		want table.Value
		unit table.Value
	}{
		{in: s("90 min"), want: table.Num(90), unit: s(schema.UnitMinutes)},
		{in: s("3 Seasons"), want: table.Num(3), unit: s(schema.UnitSeasons)},
		{in: s("1 Season"), want: table.Num(1), unit: s(schema.UnitSeasons)},
		{in: s(""), want: null, unit: null},
		{in: null, want: null, unit: null},
		{in: s("N/A"), want: null, unit: null},
		{in: s("approx 45-50 min"), want: table.Num(45), unit: s(schema.UnitUnknown)},
		{in: s(strings.Repeat("9", 400) + " min"), want: table.Num(math.Inf(1)), unit: s(schema.UnitMinutes)},
	}
	rows := make([][]table.Value, len(cases))
	for i, tc := range cases {
		rows[i] = []table.Value{tc.in}
	}
	in := table.MustNew([]string{"Duration"}, rows)

	out, err := ExtractDuration{Source: "Duration", Target: "Duration_Min", UnitTarget: "Duration_Unit"}.Apply(in)
	if err != nil {
		t.Fatalf("ExtractDuration: %v", err)
	}
	for i, tc := range cases {
		if got := out.Cell(i, "Duration_Min"); !got.Equal(tc.want) {
			t.Fatalf("%q: Duration_Min=%v; want %v", tc.in.String(), got, tc.want)
		}
		if got := out.Cell(i, "Duration_Unit"); !got.Equal(tc.unit) {
			t.Fatalf("%q: Duration_Unit=%v; want %v", tc.in.String(), got, tc.unit)
		}
	}
	if in.Has("Duration_Min") {
		t.Fatalf("input gained a column")
	}
}

func TestCoerce(t *testing.T) {
	in := table.MustNew([]string{"Release_Year", "Score", "Added"}, [][]table.Value{
		{s("2020"), s("7.5"), s("2021-09-25")},
		{s("2020.5"), s("x"), s("someday")},
		{s("abc"), null, null},
	})
	out, err := Coerce{Types: map[string]string{"Release_Year": "int", "Score": "float", "Added": "date"}}.Apply(in)
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	if got := out.Cell(0, "Release_Year"); !got.Equal(table.Num(2020)) {
		t.Fatalf("Release_Year=%v", got)
	}
	if !out.Cell(1, "Release_Year").IsNull() || !out.Cell(2, "Release_Year").IsNull() {
		t.Fatalf("bad years should be missing")
	}
	if got := out.Cell(0, "Score"); !got.Equal(table.Num(7.5)) {
		t.Fatalf("Score=%v", got)
	}
	if out.Cell(0, "Added").Kind != table.Date || !out.Cell(1, "Added").IsNull() {
		t.Fatalf("Added=%v/%v", out.Cell(0, "Added"), out.Cell(1, "Added"))
	}
}
