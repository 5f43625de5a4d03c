// Package summary filters normalized tables by date range and computes the
// dashboard metrics: totals, means, period-over-period trends and campaign
// rankings. Missing values are skipped everywhere.
package summary

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

// Filter errors.
var (
	ErrUnknownPreset = errors.New("unknown date range preset")
	ErrInvertedRange = errors.New("range start is after range end")
	ErrNoTimestamps  = errors.New("no timestamps in loaded data")
)

// Range is an inclusive time window. A zero bound leaves that side open.
type Range struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the range is unbounded on both sides.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains reports whether ts falls inside the range.
func (r Range) Contains(ts time.Time) bool {
	if !r.From.IsZero() && ts.Before(r.From) {
		return false
	}

	if !r.To.IsZero() && ts.After(r.To) {
		return false
	}

	return true
}

// String renders the range for logs and reports.
func (r Range) String() string {
	if r.IsZero() {
		return "all"
	}

	bound := func(t time.Time) string {
		if t.IsZero() {
			return "*"
		}

		return t.Format(table.TimeLayout)
	}

	return bound(r.From) + " .. " + bound(r.To)
}

// DayRange returns the range covering whole days from..to. Either argument may
// be empty to leave that side open. Dates use YYYY-MM-DD.
func DayRange(from, to string) (Range, error) {
	var r Range

	if from != "" {
		d, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start date %q: %w", from, err)
		}

		r.From = d
	}

	if to != "" {
		d, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return Range{}, fmt.Errorf("invalid end date %q: %w", to, err)
		}

		r.To = d.Add(24*time.Hour - time.Nanosecond)
	}

	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvertedRange, from, to)
	}

	return r, nil
}

// Preset is a quick-select window relative to the latest timestamp.
type Preset string

// Presets.
const (
	Last7Days  Preset = "7d"
	Last30Days Preset = "30d"
	Last90Days Preset = "90d"
	AllTime    Preset = "all"
)

var presetDays = map[Preset]int{
	Last7Days:  7,
	Last30Days: 30,
	Last90Days: 90,
}

// ParsePreset accepts 7d, 30d, 90d or all. Empty means all.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return AllTime, nil
	}

	if _, ok := presetDays[p]; ok || p == AllTime {
		return p, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// PresetRange resolves p against the data span [minTS, maxTS].
func PresetRange(p Preset, minTS, maxTS time.Time) Range {
	days, ok := presetDays[p]
	if !ok {
		return Range{From: minTS, To: maxTS}
	}

	return Range{From: maxTS.AddDate(0, 0, -days), To: maxTS}
}

// Filter returns the rows of t whose timestamp column falls inside r. Rows
// with a missing timestamp are dropped unless r is zero. A table without the
// column is returned as a copy.
func Filter(t *table.Table, timestampCol string, r Range) *table.Table {
	idx := t.Index(timestampCol)
	if idx < 0 || r.IsZero() {
		return t.Clone()
	}

	return t.Select(func(row []table.Value) bool {
		ts, ok := row[idx].Time()
		return ok && r.Contains(ts)
	})
}

// FilterAll applies r to every time-series table. Tables without a timestamp
// column, such as campaigns, are copied unchanged.
func FilterAll(tables map[dataset.Kind]*table.Table, reg *dataset.Registry, r Range) map[dataset.Kind]*table.Table {
	out := make(map[dataset.Kind]*table.Table, len(tables))

	for kind, t := range tables {
		schema, err := reg.Lookup(kind)
		if err != nil || !schema.IsTimeSeries() {
			out[kind] = t.Clone()
			continue
		}

		out[kind] = Filter(t, schema.Timestamp, r)
	}

	return out
}

// Span returns the earliest and latest timestamp across all time-series
// tables.
func Span(tables map[dataset.Kind]*table.Table, reg *dataset.Registry) (time.Time, time.Time, error) {
	var minTS, maxTS time.Time

	found := false

	for kind, t := range tables {
		schema, err := reg.Lookup(kind)
		if err != nil || !schema.IsTimeSeries() {
			continue
		}

		for _, v := range t.Column(schema.Timestamp) {
			ts, ok := v.Time()
			if !ok {
				continue
			}

			if !found || ts.Before(minTS) {
				minTS = ts
			}

			if !found || ts.After(maxTS) {
				maxTS = ts
			}

			found = true
		}
	}

	if !found {
		return time.Time{}, time.Time{}, ErrNoTimestamps
	}

	return minTS, maxTS, nil
}
