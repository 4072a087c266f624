// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from a catalog summary run.
//
//   - It exposes a narrow interface (Backend) focused on counters and timing
//     data (histograms).
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - Concrete metric systems (Prometheus Pushgateway, Datadog) live in
//     subpackages so the pipeline depends only on this package.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StageTotal           = "catalog_stage_total"
	StageDurationSeconds = "catalog_stage_duration_seconds"
	RowsTotal            = "catalog_rows_total"
	ChartsTotal          = "catalog_charts_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Reset restores the no-op backend.
func Reset() { backend = nopBackend{} }

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordStep measures latency and success/failure of one pipeline stage
// (load, clean, normalize, aggregate, report).
func RecordStep(job, stage string, err error, d time.Duration) {
	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status(err),
	}
	backend.IncCounter(StageTotal, 1, lbls)
	backend.ObserveHistogram(StageDurationSeconds, d.Seconds(), lbls)
}

// RecordRow increments a row-level counter for the given job and kind.
//
// Kinds used by the pipeline:
//   - "loaded"
//   - "duplicates_dropped"
//   - "nulls_filled"
//   - "dates_unparsed"
//   - "durations_missing"
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordChart counts one rendered (or failed) chart.
func RecordChart(job, chart string, err error) {
	backend.IncCounter(ChartsTotal, 1, Labels{
		"job":    job,
		"chart":  chart,
		"status": status(err),
	})
}
