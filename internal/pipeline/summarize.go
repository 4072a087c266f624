package pipeline

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"catalogsummary/internal/aggregate"
	"catalogsummary/internal/config"
	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

// Summarize computes every aggregate the report needs from a normalised
// table. Release-year and duration statistics over no values fail with
// *aggregate.EmptyInputError, except when the unit filter alone emptied the
// durations: then Duration and DurationHist stay nil.
func Summarize(t *table.Table, cfg config.Pipeline) (*aggregate.Summary, error) {
	rc := cfg.Report
	s := &aggregate.Summary{}
	var err error

	if s.Types, err = aggregate.ValueCounts(t, schema.Type, 0); err != nil {
		return nil, err
	}
	if s.Ratings, err = aggregate.ValueCounts(t, schema.Rating, rc.TopN.Ratings); err != nil {
		return nil, err
	}
	if s.Countries, err = aggregate.ValueCounts(t, schema.Country, rc.TopN.Countries); err != nil {
		return nil, err
	}
	if s.Genres, err = aggregate.ValueCounts(t, schema.Genre, rc.TopN.Genres); err != nil {
		return nil, err
	}
	if s.Years, err = aggregate.CountsByIndex(t, schema.ReleaseYear); err != nil {
		return nil, err
	}
	if s.TypeByYear, err = aggregate.CrossTabulate(t, schema.ReleaseYear, schema.Type); err != nil {
		return nil, err
	}

	years, err := aggregate.NumericColumn(t, schema.ReleaseYear)
	if err != nil {
		return nil, err
	}
	ys, err := aggregate.DescribeNumeric(years)
	if err != nil {
		return nil, withWhat(err, schema.ReleaseYear)
	}
	s.ReleaseYear = &ys

	durations, excluded, err := durationValues(t, cfg.Normalize.DurationTarget, rc.DurationUnits)
	if err != nil {
		return nil, err
	}
	s.DurationExcluded = excluded
	if excluded > 0 && !anyValue(durations) {
		return s, nil
	}
	ds, err := aggregate.DescribeNumeric(durations)
	if err != nil {
		return nil, withWhat(err, cfg.Normalize.DurationTarget)
	}
	s.Duration = &ds

	h, err := aggregate.NewHistogram(durations, rc.DurationBins)
	if err != nil {
		return nil, err
	}
	s.DurationHist = &h

	if rc.DurationDensity {
		pdf, err := aggregate.Density(durations, h.Centers())
		switch {
		case errors.Is(err, aggregate.ErrDegenerate):
			// no overlay for a single distinct value
		case err != nil:
			return nil, err
		default:
			floats.Scale(float64(h.Total())*h.Width(), pdf)
			s.DurationDensity = pdf
		}
	}
	return s, nil
}

// durationValues returns the numeric durations to describe. With units
// "minutes" only rows whose unit is minutes count; the others become NaN
// and are tallied in excluded.
func durationValues(t *table.Table, col, units string) (vals []float64, excluded int, err error) {
	vals, err = aggregate.NumericColumn(t, col)
	if err != nil {
		return nil, 0, err
	}
	if units == "all" || !t.Has(schema.DurationUnit) {
		return vals, 0, nil
	}
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if t.Cell(i, schema.DurationUnit).String() != schema.UnitMinutes {
			vals[i] = math.NaN()
			excluded++
		}
	}
	return vals, excluded, nil
}

func anyValue(vals []float64) bool {
	for _, v := range vals {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

func withWhat(err error, what string) error {
	var ee *aggregate.EmptyInputError
	if errors.As(err, &ee) {
		return &aggregate.EmptyInputError{What: what}
	}
	return err
}
