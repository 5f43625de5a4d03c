package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

// timestampLayouts are tried in order before the free-form fallback, so
// ambiguous dates like 03/04/2024 read month-first. Fractional seconds are
// accepted after any layout that ends in seconds.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006/01/02",
}

// Transformer applies the per-column coercions of a schema.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform returns a new table with the schema's coercions applied to every
// row. The input is not modified. Columns missing from t are skipped, so
// callers validate first.
func (tr *Transformer) Transform(t *table.Table, schema dataset.Schema) *table.Table {
	out := t.Clone()

	coerce := func(col string, fn func(table.Value) table.Value) {
		idx := out.Index(col)
		if idx < 0 {
			return
		}

		for _, row := range out.Rows {
			row[idx] = fn(row[idx])
		}
	}

	if schema.Timestamp != "" {
		coerce(schema.Timestamp, ParseTimestamp)
	}

	for _, col := range schema.Percentages {
		coerce(col, ParsePercentage)
	}

	for _, col := range schema.Numerics {
		coerce(col, ParseNumber)
	}

	return out
}

// ParsePercentage strips a single trailing "%" and parses the rest as a
// decimal. Numbers pass through. Anything unparseable is Missing. Values are
// not clamped: "150%" yields 150.
func ParsePercentage(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindNumber:
		return v
	case table.KindText:
		s := strings.TrimSpace(v.String())
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

		return parseFloat(s)
	default:
		return table.Missing()
	}
}

// ParseNumber parses a plain decimal cell. Numbers pass through. Anything
// unparseable is Missing.
func ParseNumber(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindNumber:
		return v
	case table.KindText:
		return parseFloat(strings.TrimSpace(v.String()))
	default:
		return table.Missing()
	}
}

func parseFloat(s string) table.Value {
	if s == "" {
		return table.Missing()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return table.Missing()
	}

	// table.Number maps NaN and Inf to Missing.
	return table.Number(f)
}

// ParseTimestamp parses a date or date-time cell, trying timestampLayouts
// first and then dateparse for the remaining common forms. Values without a
// zone are read as UTC. Times pass through. Anything unparseable is Missing.
func ParseTimestamp(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindTime:
		return v
	case table.KindText:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return table.Missing()
		}

		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return table.Time(ts)
			}
		}

		if ts, ok := parseAny(s); ok {
			return table.Time(ts)
		}

		return table.Missing()
	default:
		return table.Missing()
	}
}

// parseAny wraps dateparse.ParseIn. Some malformed inputs make dateparse
// panic; those are treated as unparseable.
func parseAny(s string) (ts time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			ts, ok = time.Time{}, false
		}
	}()

	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}
