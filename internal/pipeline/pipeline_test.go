package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"catalogsummary/internal/aggregate"
	"catalogsummary/internal/config"
	"catalogsummary/internal/datasource"
	"catalogsummary/internal/report"
	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

const fixtureCSV = `Show_Id,Type,Title,Director,Cast,Country,Date_Added,Release_Year,Rating,Duration,Genre
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries
s2,TV Show,Blood & Water,,Ama Qamata,South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,International TV Shows
s3,Movie,My Little Pony: A New Generation,Robert Cullen,Vanessa Hudgens,,"September 24, 2021",2021,PG,91 min,Children & Family Movies
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries
s4,Movie,Sankofa,Haile Gerima,Kofi Ghanaba,United States,not a date,1993,TV-MA,125 min,Dramas
`

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fixtureConfig(t *testing.T, body string) config.Pipeline {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netflix_data.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg := config.Default()
	cfg.Source.File.Path = path
	cfg.Report.Backend = "none"
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := fixtureConfig(t, fixtureCSV)
	rec := &report.Recorder{}
	var stats bytes.Buffer

	res, err := Run(context.Background(), cfg, Options{Backend: rec, Stats: &stats, Log: quietLog()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RenderErr != nil {
		t.Fatalf("RenderErr: %v", res.RenderErr)
	}

	if res.Loaded != 5 || res.Duplicates != 1 || res.Table.Len() != 4 {
		t.Fatalf("loaded=%d duplicates=%d rows=%d", res.Loaded, res.Duplicates, res.Table.Len())
	}
	for col := range schema.Defaults() {
		if n := res.Table.NullCount(col); n != 0 {
			t.Fatalf("%s has %d nulls after cleaning", col, n)
		}
	}
	recs := schema.Records(res.Table)
	if recs[2].Country != "Unknown" {
		t.Fatalf("Country=%q; want Unknown", recs[2].Country)
	}
	if recs[0].Cast != "Not Given" || recs[1].Director != "Not Given" {
		t.Fatalf("sentinels not applied: %+v %+v", recs[0], recs[1])
	}
	if recs[3].DateAdded != nil {
		t.Fatalf("unparseable date should be missing")
	}
	if recs[0].DateAdded == nil || recs[0].DateAdded.Day() != 25 {
		t.Fatalf("DateAdded=%v", recs[0].DateAdded)
	}
	if recs[1].DurationMin == nil || *recs[1].DurationMin != 2 || recs[1].DurationUnit != schema.UnitSeasons {
		t.Fatalf("season row=%+v", recs[1])
	}
	if recs[3].ReleaseYear == nil || *recs[3].ReleaseYear != 1993 {
		t.Fatalf("ReleaseYear=%v", recs[3].ReleaseYear)
	}

	if got := strings.Join(rec.Names(), ","); got != strings.Join(report.Order, ",") {
		t.Fatalf("charts=%s", got)
	}

	s := res.Summary
	if s.Types[0].Label() != "Movie" || s.Types[0].N != 3 {
		t.Fatalf("types=%+v", s.Types)
	}
	if s.Duration.N != 3 || s.Duration.Min != 90 || s.Duration.Max != 125 || s.DurationExcluded != 1 {
		t.Fatalf("duration=%+v excluded=%d", s.Duration, s.DurationExcluded)
	}
	if s.DurationHist.Total() != 3 || len(s.DurationHist.Counts) != cfg.Report.DurationBins {
		t.Fatalf("histogram=%+v", s.DurationHist)
	}

	out := stats.String()
	if !strings.HasPrefix(out, report.StatsHeader+"\n") || !strings.HasSuffix(out, report.StatsFooter+"\n") {
		t.Fatalf("stats block:\n%s", out)
	}
	if !strings.Contains(out, "Release Year Min: 1993\n") {
		t.Fatalf("stats block:\n%s", out)
	}
}

func TestRunFailures(t *testing.T) {
	missing := config.Default()
	missing.Source.File.Path = filepath.Join(t.TempDir(), "absent.csv")

	noYear := fixtureConfig(t, "Title,Type,Country,Rating,Genre,Director,Cast,Date_Added,Duration\nA,Movie,,,,,,,90 min\n")

	_, err := Run(context.Background(), missing, Options{Backend: &report.Recorder{}, Log: quietLog()})
	var dse *datasource.DataSourceError
	if !errors.As(err, &dse) || dse.Path != missing.Source.File.Path {
		t.Fatalf("err=%v; want DataSourceError naming the path", err)
	}

	_, err = Run(context.Background(), noYear, Options{Backend: &report.Recorder{}, Log: quietLog()})
	var se *schema.SchemaError
	if !errors.As(err, &se) || se.Missing[0] != schema.ReleaseYear {
		t.Fatalf("err=%v; want SchemaError naming Release_Year", err)
	}
}

func TestRunReportsChartFailures(t *testing.T) {
	cfg := fixtureConfig(t, fixtureCSV)
	boom := errors.New("boom")
	rec := &report.Recorder{Fail: map[string]error{report.ChartGenres: boom}}

	res, err := Run(context.Background(), cfg, Options{Backend: rec, Stats: io.Discard, Log: quietLog()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(res.RenderErr, boom) {
		t.Fatalf("RenderErr=%v", res.RenderErr)
	}
	if len(rec.Names()) != len(report.Order)-1 {
		t.Fatalf("later charts not rendered: %v", rec.Names())
	}
}

func TestRunJSONBackend(t *testing.T) {
	cfg := fixtureConfig(t, fixtureCSV)
	cfg.Report.Backend = "json"
	cfg.Report.OutputDir = t.TempDir()

	if _, err := Run(context.Background(), cfg, Options{Stats: io.Discard, Log: quietLog()}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Report.OutputDir, "charts.json")); err != nil {
		t.Fatalf("charts.json not written: %v", err)
	}
}

const whitespaceCSV = `Show_Id,Type,Title,Director,Cast,Country,Date_Added,Release_Year,Rating,Duration,Genre
s1,Movie,Kota,Raj,Mayur,India,"September 25, 2021",2020,PG-13,90 min,Dramas
s1,Movie,Kota,Raj,Mayur,India ,"September 25, 2021",2020,PG-13,90 min,Dramas
s2,Movie,Sankofa,Haile,Kofi, ,"September 25, 2021",1993,TV-MA,95 min,Dramas
s2,Movie,Sankofa,Haile,Kofi, ,"September 25, 2021",1993,TV-MA,95 min,Dramas
`

func TestRunKeepsRowsDifferingInWhitespace(t *testing.T) {
	cfg := fixtureConfig(t, whitespaceCSV)

	res, err := Run(context.Background(), cfg, Options{Backend: &report.Recorder{}, Stats: io.Discard, Log: quietLog()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Loaded != 4 || res.Duplicates != 1 || res.Table.Len() != 3 {
		t.Fatalf("loaded=%d duplicates=%d rows=%d", res.Loaded, res.Duplicates, res.Table.Len())
	}
	want := []string{"India", "India ", " "}
	for i, w := range want {
		if got := res.Table.Cell(i, schema.Country).String(); got != w {
			t.Fatalf("row %d Country=%q; want %q", i, got, w)
		}
	}
}

func TestCleanNormalizeTextAfterDedup(t *testing.T) {
	cols := []string{schema.Title, schema.Country, schema.Cast}
	in := table.MustNew(cols, [][]table.Value{
		{table.Str("Kota"), table.Str("India"), table.Str("Mayur")},
		{table.Str("Kota"), table.Str("India "), table.Str("Mayur")},
		{table.Str("Sankofa"), table.Str(" "), table.Str("Actor One\nActor Two")},
	})
	cc := config.Clean{Dedup: true, NormalizeText: true, Defaults: map[string]string{schema.Country: "Unknown"}}

	out, st, err := Clean(in, cc)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if st.Duplicates != 0 || out.Len() != 3 {
		t.Fatalf("duplicates=%d rows=%d; want 0 and 3", st.Duplicates, out.Len())
	}
	if got := out.Cell(1, schema.Country).String(); got != "India" {
		t.Fatalf("Country=%q; want trimmed", got)
	}
	if got := out.Cell(2, schema.Country).String(); got != "Unknown" || st.NullsFilled != 1 {
		t.Fatalf("blank Country=%q filled=%d", got, st.NullsFilled)
	}
	if got := out.Cell(2, schema.Cast).String(); got != "Actor One Actor Two" {
		t.Fatalf("Cast=%q", got)
	}
}

func normalised(t *testing.T, rows [][]table.Value) *table.Table {
	t.Helper()
	cols := []string{schema.Type, schema.Rating, schema.Country, schema.Genre, schema.ReleaseYear, schema.DurationMin, schema.DurationUnit}
	return table.MustNew(cols, rows)
}

func TestSummarizeDurationUnits(t *testing.T) {
	row := func(typ string, year, dur float64, unit string) []table.Value {
		return []table.Value{table.Str(typ), table.Str("TV-MA"), table.Str("India"), table.Str("Dramas"),
			table.Num(year), table.Num(dur), table.Str(unit)}
	}
	tb := normalised(t, [][]table.Value{
		row("Movie", 2020, 90, schema.UnitMinutes),
		row("Movie", 2021, 100, schema.UnitMinutes),
		row("TV Show", 2021, 3, schema.UnitSeasons),
	})

	cfg := config.Default()
	s, err := Summarize(tb, cfg)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Duration.Min != 90 || s.DurationExcluded != 1 {
		t.Fatalf("minutes: %+v excluded=%d", s.Duration, s.DurationExcluded)
	}
	if len(s.DurationDensity) != cfg.Report.DurationBins {
		t.Fatalf("density len=%d", len(s.DurationDensity))
	}

	cfg.Report.DurationUnits = "all"
	s, err = Summarize(tb, cfg)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Duration.Min != 3 || s.DurationExcluded != 0 {
		t.Fatalf("all: %+v excluded=%d", s.Duration, s.DurationExcluded)
	}
}

func TestSummarizeNoMinutes(t *testing.T) {
	tb := normalised(t, [][]table.Value{
		{table.Str("TV Show"), table.Str("TV-MA"), table.Str("India"), table.Str("Dramas"),
			table.Num(2021), table.Num(2), table.Str(schema.UnitSeasons)},
	})
	s, err := Summarize(tb, config.Default())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Duration != nil || s.DurationHist != nil || s.DurationExcluded != 1 {
		t.Fatalf("duration=%+v hist=%+v excluded=%d", s.Duration, s.DurationHist, s.DurationExcluded)
	}
}

func TestSummarizeNoDurations(t *testing.T) {
	tb := normalised(t, [][]table.Value{
		{table.Str("Movie"), table.Str("TV-MA"), table.Str("India"), table.Str("Dramas"),
			table.Num(2021), table.Missing(), table.Missing()},
	})
	_, err := Summarize(tb, config.Default())
	var ee *aggregate.EmptyInputError
	if !errors.As(err, &ee) || ee.What != schema.DurationMin {
		t.Fatalf("err=%v; want EmptyInputError for Duration_Min", err)
	}
}

const showsOnlyCSV = `Show_Id,Type,Title,Director,Cast,Country,Date_Added,Release_Year,Rating,Duration,Genre
s1,TV Show,Kota Factory,,Mayur More,India,"September 24, 2021",2021,TV-MA,2 Seasons,TV Comedies
s2,TV Show,Blood & Water,,Ama Qamata,South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,International TV Shows
`

func TestRunShowsOnlyCatalog(t *testing.T) {
	cfg := fixtureConfig(t, showsOnlyCSV)
	rec := &report.Recorder{}
	var stats bytes.Buffer

	res, err := Run(context.Background(), cfg, Options{Backend: rec, Stats: &stats, Log: quietLog()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RenderErr != nil {
		t.Fatalf("RenderErr: %v", res.RenderErr)
	}
	if len(rec.Names()) != len(report.Order)-1 {
		t.Fatalf("charts=%v", rec.Names())
	}
	if !strings.Contains(stats.String(), "Duration: no data\n") {
		t.Fatalf("stats block:\n%s", stats.String())
	}
}
