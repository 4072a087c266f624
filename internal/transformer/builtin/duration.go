package builtin

import (
	"errors"
	"strconv"
	"strings"

	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

// ExtractDuration derives a number from free-text durations: the first
// maximal run of ASCII digits, read left to right ("90 min" -> 90,
// "3 Seasons" -> 3). Text without digits yields a missing number.
//
// When UnitTarget is set the word after the digits is classified into a
// second column as minutes, seasons or unknown, so that season counts can
// be told apart from running times downstream.
type ExtractDuration struct {
	Source     string
	Target     string
	UnitTarget string
}

// Apply adds (or replaces) the target columns.
func (e ExtractDuration) Apply(t *table.Table) (*table.Table, error) {
	if err := requireColumns(t, e.Source); err != nil {
		return nil, err
	}
	src, _ := t.Column(e.Source)
	nums := make([]table.Value, len(src))
	units := make([]table.Value, len(src))
	for i, v := range src {
		n, unit, ok := LeadingNumber(v.String())
		if !ok {
			continue
		}
		nums[i] = table.Num(n)
		units[i] = table.Str(unit)
	}

	out, err := t.WithColumn(e.Target, nums)
	if err != nil {
		return nil, err
	}
	if e.UnitTarget != "" {
		if out, err = out.WithColumn(e.UnitTarget, units); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LeadingNumber returns the first digit run in s as a number together with
// the unit named by the text following it. A run too long for a float64
// reads as +Inf.
func LeadingNumber(s string) (n float64, unit string, ok bool) {
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return 0, "", false
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, "", false
	}
	return n, durationUnit(s[end:]), true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func durationUnit(rest string) string {
	w := strings.ToLower(strings.TrimSpace(rest))
	switch {
	case strings.HasPrefix(w, "min"):
		return schema.UnitMinutes
	case strings.HasPrefix(w, "season"):
		return schema.UnitSeasons
	default:
		return schema.UnitUnknown
	}
}
