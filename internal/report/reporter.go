package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"catalogsummary/internal/aggregate"
	"catalogsummary/internal/metrics"
)

// Chart names, in render order.
const (
	ChartTypes      = "type_distribution"
	ChartRatings    = "top_ratings"
	ChartCountries  = "top_countries"
	ChartGenres     = "top_genres"
	ChartYears      = "titles_by_year"
	ChartDuration   = "duration_histogram"
	ChartTypeByYear = "type_by_year"
)

// Order is the fixed chart sequence.
var Order = []string{
	ChartTypes, ChartRatings, ChartCountries, ChartGenres, ChartYears, ChartDuration, ChartTypeByYear,
}

// errSkipped marks a chart left out on purpose; it is not a failure.
var errSkipped = errors.New("report: chart skipped")

// ChartError ties a render failure to its chart.
type ChartError struct {
	Chart string
	Err   error
}

func (e *ChartError) Error() string { return fmt.Sprintf("chart %s: %v", e.Chart, e.Err) }

func (e *ChartError) Unwrap() error { return e.Err }

// Reporter renders a summary through a Backend.
type Reporter struct {
	Backend Backend
	Job     string
	Log     logrus.FieldLogger
}

// Render draws every chart in Order. A failing chart is logged and
// collected and the remaining charts still render; the result joins every
// *ChartError, or is nil. A Flusher backend is flushed at the end.
func (r *Reporter) Render(s *aggregate.Summary) error {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	steps := []struct {
		name string
		draw func() error
	}{
		{ChartTypes, func() error { return r.pie(ChartTypes, "Netflix Content Type Distribution", s.Types) }},
		{ChartRatings, func() error {
			return r.bar(ChartRatings, "Top Content Ratings on Netflix", "#2ecc71", s.Ratings)
		}},
		{ChartCountries, func() error {
			return r.bar(ChartCountries, "Top Content Producing Countries", "#3498db", s.Countries)
		}},
		{ChartGenres, func() error {
			return r.bar(ChartGenres, "Most Popular Genres on Netflix", "#e74c3c", s.Genres)
		}},
		{ChartYears, func() error { return r.line(ChartYears, "Titles Released per Year", s.Years) }},
		{ChartDuration, func() error { return r.histogram(ChartDuration, "Duration Distribution (minutes)", s) }},
		{ChartTypeByYear, func() error {
			return r.heatmap(ChartTypeByYear, "Movies vs TV Shows by Release Year", s.TypeByYear)
		}},
	}

	var errs []error
	for _, st := range steps {
		start := time.Now()
		err := st.draw()
		if errors.Is(err, errSkipped) {
			log.WithField("chart", st.name).Warn("chart skipped: no rows in the selected duration unit")
			continue
		}
		metrics.RecordChart(r.Job, st.name, err)
		entry := log.WithFields(logrus.Fields{"chart": st.name, "elapsed": time.Since(start).Truncate(time.Microsecond)})
		if err != nil {
			entry.WithError(err).Warn("chart not rendered")
			errs = append(errs, &ChartError{Chart: st.name, Err: err})
			continue
		}
		entry.Debug("chart rendered")
	}

	if f, ok := r.Backend.(Flusher); ok {
		if err := f.Flush(); err != nil {
			errs = append(errs, &ChartError{Chart: "flush", Err: err})
		}
	}
	return errors.Join(errs...)
}

func (r *Reporter) pie(name, title string, cs []aggregate.Count) error {
	if len(cs) == 0 {
		return ErrNoData
	}
	p := Pie{Name: name, Title: title, Slices: make([]Slice, len(cs))}
	for i, c := range cs {
		p.Slices[i] = Slice{Label: c.Label(), Value: c.N}
	}
	return r.Backend.RenderPie(p)
}

func (r *Reporter) bar(name, title, color string, cs []aggregate.Count) error {
	if len(cs) == 0 {
		return ErrNoData
	}
	b := Bar{Name: name, Title: title, Color: color}
	for _, c := range cs {
		b.Categories = append(b.Categories, c.Label())
		b.Values = append(b.Values, c.N)
	}
	return r.Backend.RenderBar(b)
}

func (r *Reporter) line(name, title string, cs []aggregate.Count) error {
	if len(cs) == 0 {
		return ErrNoData
	}
	l := Line{Name: name, Title: title, XLabel: "Release Year", YLabel: "Titles"}
	for _, c := range cs {
		l.X = append(l.X, c.Label())
		l.Y = append(l.Y, c.N)
	}
	return r.Backend.RenderLine(l)
}

func (r *Reporter) histogram(name, title string, s *aggregate.Summary) error {
	h := s.DurationHist
	if h == nil && s.DurationExcluded > 0 {
		return errSkipped
	}
	if h == nil || h.Total() == 0 {
		return ErrNoData
	}
	return r.Backend.RenderHistogram(Histogram{
		Name:    name,
		Title:   title,
		Edges:   h.Edges,
		Counts:  h.Counts,
		Density: s.DurationDensity,
	})
}

func (r *Reporter) heatmap(name, title string, ct *aggregate.CrossTab) error {
	if ct == nil || len(ct.Groups) == 0 || len(ct.Categories) == 0 {
		return ErrNoData
	}
	hm := Heatmap{Name: name, Title: title, Counts: ct.Counts}
	for _, g := range ct.Groups {
		hm.Rows = append(hm.Rows, g.String())
	}
	for _, c := range ct.Categories {
		hm.Columns = append(hm.Columns, c.String())
	}
	return r.Backend.RenderHeatmap(hm)
}

// BinLabels renders histogram edges as "lo-hi" category labels.
func BinLabels(edges []float64) []string {
	if len(edges) < 2 {
		return nil
	}
	out := make([]string, len(edges)-1)
	for i := range out {
		out[i] = strconv.FormatFloat(edges[i], 'f', 1, 64) + "-" + strconv.FormatFloat(edges[i+1], 'f', 1, 64)
	}
	return out
}
