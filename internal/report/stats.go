package report

import (
	"fmt"
	"io"

	"catalogsummary/internal/aggregate"
)

// Statistics block delimiters.
const (
	StatsHeader = "----- NumPy Statistics -----"
	StatsFooter = "-----------------------------"
)

// WriteStats prints the release-year and duration statistics between the
// fixed delimiter lines. A nil series is reported as having no data.
func WriteStats(w io.Writer, s *aggregate.Summary) error {
	ew := &errWriter{w: w}
	ew.println(StatsHeader)
	if y := s.ReleaseYear; y != nil {
		ew.printf("Release Year Mean: %.2f\n", y.Mean)
		ew.printf("Release Year Median: %.2f\n", y.Median)
		ew.printf("Release Year Std Dev: %.2f\n", y.StdDev)
		ew.printf("Release Year Min: %g\n", y.Min)
		ew.printf("Release Year Max: %g\n", y.Max)
	} else {
		ew.println("Release Year: no data")
	}
	if d := s.Duration; d != nil {
		ew.printf("Duration Mean: %.2f\n", d.Mean)
		ew.printf("Duration Max: %g\n", d.Max)
		ew.printf("Duration Min: %g\n", d.Min)
	} else {
		ew.println("Duration: no data")
	}
	ew.println(StatsFooter)
	return ew.err
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, a...)
	}
}

func (e *errWriter) println(s string) {
	if e.err == nil {
		_, e.err = fmt.Fprintln(e.w, s)
	}
}
