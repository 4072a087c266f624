// Package pipeline composes the catalog summary run: load, clean,
// normalise, summarise and report, strictly in that order.
package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"catalogsummary/internal/aggregate"
	"catalogsummary/internal/config"
	"catalogsummary/internal/loader"
	"catalogsummary/internal/logger"
	"catalogsummary/internal/metrics"
	"catalogsummary/internal/report"
	"catalogsummary/internal/report/echarts"
	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
	"catalogsummary/internal/transformer"
	"catalogsummary/internal/transformer/builtin"
)

// Stage names used in logs and metrics.
const (
	StageLoad      = "load"
	StageClean     = "clean"
	StageNormalize = "normalize"
	StageAggregate = "aggregate"
	StageReport    = "report"
)

// Options carries the run's collaborators. Zero values select the defaults.
type Options struct {
	// Backend overrides the backend named by cfg.Report.Backend.
	Backend report.Backend

	// Stats receives the statistics block; os.Stdout when nil.
	Stats io.Writer

	Log logrus.FieldLogger
}

// Result is what a run produced.
type Result struct {
	// Table is the cleaned and normalised dataset.
	Table   *table.Table
	Summary *aggregate.Summary

	Loaded     int
	Duplicates int

	// RenderErr joins every chart that failed to render. The run itself
	// still counts as complete.
	RenderErr error
}

// Run executes every stage. Load, schema, transform and statistics failures
// are returned as errors; chart failures are reported through
// Result.RenderErr.
func Run(ctx context.Context, cfg config.Pipeline, opt Options) (*Result, error) {
	log := opt.Log
	if log == nil {
		log = logger.Log
	}
	log = log.WithField("job", cfg.Job)
	r := &runner{job: cfg.Job, log: log}

	res := &Result{}
	var t *table.Table

	err := r.step(StageLoad, func() (err error) {
		t, err = loader.Load(ctx, cfg.Source, cfg.Parser)
		if err != nil {
			return err
		}
		res.Loaded = t.Len()
		metrics.RecordRow(r.job, "loaded", int64(res.Loaded))
		r.log.WithFields(logrus.Fields{"source": loader.Describe(cfg.Source), "rows": res.Loaded}).Info("dataset loaded")
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.step(StageClean, func() (err error) {
		var st CleanStats
		t, st, err = Clean(t, cfg.Clean)
		if err != nil {
			return err
		}
		res.Duplicates = st.Duplicates
		metrics.RecordRow(r.job, "duplicates_dropped", int64(st.Duplicates))
		metrics.RecordRow(r.job, "nulls_filled", int64(st.NullsFilled))
		r.log.WithFields(logrus.Fields{
			"rows":       t.Len(),
			"duplicates": st.Duplicates,
			"filled":     st.NullsFilled,
		}).Info("dataset cleaned")
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.step(StageNormalize, func() (err error) {
		var st NormalizeStats
		t, st, err = Normalize(t, cfg.Normalize)
		if err != nil {
			return err
		}
		metrics.RecordRow(r.job, "dates_unparsed", int64(st.DatesUnparsed))
		metrics.RecordRow(r.job, "durations_missing", int64(st.DurationsMissing))
		r.log.WithFields(logrus.Fields{
			"dates_unparsed":    st.DatesUnparsed,
			"durations_missing": st.DurationsMissing,
		}).Info("dataset normalised")
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Table = t

	err = r.step(StageAggregate, func() (err error) {
		res.Summary, err = Summarize(t, cfg)
		if err != nil {
			return err
		}
		if n := res.Summary.DurationExcluded; n > 0 {
			r.log.WithField("excluded", n).Warn("rows not measured in minutes left out of duration statistics")
			if res.Summary.Duration == nil {
				r.log.Warn("no durations in minutes; duration statistics and histogram skipped")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.step(StageReport, func() error {
		backend := opt.Backend
		if backend == nil {
			backend = NewBackend(cfg.Report)
		}
		rep := &report.Reporter{Backend: backend, Job: r.job, Log: r.log.WithField("stage", StageReport)}
		res.RenderErr = rep.Render(res.Summary)

		w := opt.Stats
		if w == nil {
			w = os.Stdout
		}
		return errors.Wrap(report.WriteStats(w, res.Summary), "write statistics")
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// NewBackend picks the report backend named in the config. Unknown names
// fall back to an in-memory recorder.
func NewBackend(rc config.Report) report.Backend {
	switch rc.Backend {
	case "html":
		return echarts.New(rc.OutputDir)
	case "json":
		return report.NewJSONFile(rc.OutputDir)
	default:
		return &report.Recorder{}
	}
}

type runner struct {
	job string
	log logrus.FieldLogger
}

// step times fn, records the stage metric and logs the outcome.
func (r *runner) step(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStep(r.job, stage, err, d)

	entry := r.log.WithFields(logrus.Fields{"stage": stage, "elapsed": d.Truncate(time.Microsecond)})
	if err != nil {
		entry.WithError(err).Error("stage failed")
		return errors.Wrapf(err, "%s", stage)
	}
	entry.Debug("stage complete")
	return nil
}

// CleanStats counts what cleaning changed.
type CleanStats struct {
	Duplicates  int
	NullsFilled int
}

// Clean drops exact duplicate rows, optionally normalises text, and fills
// the sentinel defaults. Duplicates are judged on the cells as parsed.
func Clean(t *table.Table, cc config.Clean) (*table.Table, CleanStats, error) {
	var st CleanStats
	var err error
	if cc.Dedup {
		before := t.Len()
		if t, err = (builtin.Dedup{}).Apply(t); err != nil {
			return nil, st, err
		}
		st.Duplicates = before - t.Len()
	}
	if cc.NormalizeText {
		if t, err = (builtin.Normalize{}).Apply(t); err != nil {
			return nil, st, err
		}
	}

	defaults := cc.Defaults
	if defaults == nil {
		defaults = schema.Defaults()
	}
	for col := range defaults {
		st.NullsFilled += t.NullCount(col)
	}
	if t, err = (builtin.FillDefaults{Defaults: defaults}).Apply(t); err != nil {
		return nil, st, err
	}
	return t, st, nil
}

// NormalizeStats counts per-row conversions that degraded to missing.
type NormalizeStats struct {
	DatesUnparsed    int
	DurationsMissing int
}

// Normalize parses the date column, derives the numeric duration and its
// unit, and makes Release_Year numeric.
func Normalize(t *table.Table, nc config.Normalize) (*table.Table, NormalizeStats, error) {
	var st NormalizeStats
	nullDates := t.NullCount(nc.DateColumn)

	chain := transformer.Chain{
		builtin.ParseDates{Column: nc.DateColumn, Layouts: nc.DateLayouts},
		builtin.ExtractDuration{
			Source:     nc.DurationSource,
			Target:     nc.DurationTarget,
			UnitTarget: schema.DurationUnit,
		},
		builtin.Coerce{Types: map[string]string{schema.ReleaseYear: "int"}},
	}
	t, err := chain.Apply(t)
	if err != nil {
		return nil, st, err
	}
	st.DatesUnparsed = t.NullCount(nc.DateColumn) - nullDates
	st.DurationsMissing = t.NullCount(nc.DurationTarget)
	return t, st, nil
}
