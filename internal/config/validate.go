// Package config provides configuration models and helpers for catalog
// summary runs.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "source.kind",
// "report.top_n.ratings"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// knownDefaultColumns are the columns cleaning may fill.
var knownDefaultColumns = map[string]struct{}{
	"Country": {}, "Rating": {}, "Genre": {}, "Director": {}, "Cast": {},
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateClean(p.Clean)...)
	issues = append(issues, validateNormalize(p.Normalize)...)
	issues = append(issues, validateReport(p.Report)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	issues = append(issues, validateLog(p.Log)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	switch strings.TrimSpace(s.Kind) {
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "http":
		u := strings.TrimSpace(s.HTTP.URL)
		if u == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.url",
				Message:  "http source requires a url",
			})
		} else if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.url",
				Message:  fmt.Sprintf("url %q must use http or https", u),
			})
		}
		if s.HTTP.MaxRetries < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.max_retries",
				Message:  "max_retries must not be negative",
			})
		}
		if s.HTTP.Insecure {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.http.insecure_skip_verify",
				Message:  "TLS verification is disabled",
			})
		}
	case "sql":
		if strings.TrimSpace(s.SQL.Driver) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.sql.driver",
				Message:  "sql source requires a driver (postgres, sqlite, mssql, mysql)",
			})
		}
		if strings.TrimSpace(s.SQL.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.sql.dsn",
				Message:  "sql source requires a dsn",
			})
		}
		if strings.TrimSpace(s.SQL.Query) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.sql.query",
				Message:  "sql source requires a query returning the catalog columns",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; want file, http or sql", s.Kind),
		})
	}

	return issues
}

func validateClean(c Clean) []Issue {
	var issues []Issue
	for col, repl := range c.Defaults {
		if _, ok := knownDefaultColumns[col]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "clean.defaults." + col,
				Message:  fmt.Sprintf("column %q is not one of the nullable catalog columns", col),
			})
		}
		if repl == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "clean.defaults." + col,
				Message:  "replacement must not be empty; an empty cell reads back as missing",
			})
		}
	}
	for col := range knownDefaultColumns {
		if _, ok := c.Defaults[col]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "clean.defaults",
				Message:  fmt.Sprintf("no default for %s; missing values will remain", col),
			})
		}
	}
	return issues
}

func validateNormalize(n Normalize) []Issue {
	var issues []Issue
	if strings.TrimSpace(n.DateColumn) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "normalize.date_column",
			Message:  "date_column must not be empty",
		})
	}
	if strings.TrimSpace(n.DurationSource) == "" || strings.TrimSpace(n.DurationTarget) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "normalize.duration_source",
			Message:  "duration_source and duration_target must both be set",
		})
	}
	return issues
}

func validateReport(r Report) []Issue {
	var issues []Issue

	switch r.Backend {
	case "html", "json":
		if strings.TrimSpace(r.OutputDir) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "report.output_dir",
				Message:  fmt.Sprintf("%s backend writes artifacts and needs an output_dir", r.Backend),
			})
		}
	case "none":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.backend",
			Message:  fmt.Sprintf("unknown report backend %q; want html, json or none", r.Backend),
		})
	}

	topN := map[string]int{
		"report.top_n.ratings":   r.TopN.Ratings,
		"report.top_n.countries": r.TopN.Countries,
		"report.top_n.genres":    r.TopN.Genres,
	}
	for path, n := range topN {
		if n < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "top_n must not be negative (0 keeps every value)",
			})
		}
	}
	if r.DurationBins <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.duration_bins",
			Message:  fmt.Sprintf("duration_bins=%d; need at least one bin", r.DurationBins),
		})
	}
	switch r.DurationUnits {
	case "minutes", "all":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.duration_units",
			Message:  fmt.Sprintf("unknown duration_units %q; want minutes or all", r.DurationUnits),
		})
	}
	if r.DurationUnits == "all" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "report.duration_units",
			Message:  "season counts will be mixed with minutes in duration statistics",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires a url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires a DogStatsD address",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics disabled", m.Backend),
		})
	}
	return issues
}

func validateLog(l Log) []Issue {
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return []Issue{{
		Severity: SeverityWarning,
		Path:     "log.level",
		Message:  fmt.Sprintf("unknown log level %q; using info", l.Level),
	}}
}
