// Package table provides the in-memory tabular structure shared by the loader,
// the normalizer and every downstream consumer.
package table

import (
	"math"
	"strconv"
	"time"
)

// ValueKind identifies what a Value holds.
type ValueKind int

// Value kinds.
const (
	KindMissing ValueKind = iota
	KindText
	KindNumber
	KindTime
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "missing"
	}
}

// Value is a single cell. The zero Value is the missing-value marker.
type Value struct {
	kind ValueKind
	text string
	num  float64
	ts   time.Time
}

// Missing returns the missing-value marker.
func Missing() Value { return Value{} }

// Text returns a raw text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric cell. NaN and infinities become Missing.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}

	return Value{kind: KindNumber, num: f}
}

// Time returns a timestamp cell.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// Kind reports what the cell holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether v is the missing-value marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric value and whether the cell is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	return v.num, true
}

// Time returns the timestamp and whether the cell is a time.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}

	return v.ts, true
}

// Equal reports whether two cells hold the same kind and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	default:
		return true
	}
}

// TimeLayout is used when a timestamp cell is rendered as text.
const TimeLayout = "2006-01-02 15:04:05"

// String renders the cell. Missing renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.ts.Format(TimeLayout)
	default:
		return ""
	}
}

// Table is a header plus rows of cells. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]Value
}

// New returns an empty table with a copy of header.
func New(header []string) *Table {
	return &Table{Header: append([]string(nil), header...)}
}

// FromStrings builds a table of text cells. Empty strings become Missing and
// short rows are padded with Missing.
func FromStrings(header []string, rows [][]string) *Table {
	t := New(header)
	for _, rec := range rows {
		row := make([]Value, len(header))

		for i := range row {
			if i < len(rec) && rec[i] != "" {
				row[i] = Text(rec[i])
			}
		}

		t.Rows = append(t.Rows, row)
	}

	return t
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}

	return -1
}

// Column returns a copy of the named column's cells, or nil if absent.
func (t *Table) Column(name string) []Value {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}

	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}

	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := New(t.Header)

	c.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		c.Rows[i] = append([]Value(nil), row...)
	}

	return c
}

// Select returns a new table holding the rows for which keep returns true.
// Row slices are copied, so the result never aliases t.
func (t *Table) Select(keep func(row []Value) bool) *Table {
	out := New(t.Header)

	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, append([]Value(nil), row...))
		}
	}

	return out
}

// Equal reports whether both tables have the same header and cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}

	if len(t.Header) != len(o.Header) || len(t.Rows) != len(o.Rows) {
		return false
	}

	for i := range t.Header {
		if t.Header[i] != o.Header[i] {
			return false
		}
	}

	for i := range t.Rows {
		if len(t.Rows[i]) != len(o.Rows[i]) {
			return false
		}

		for j := range t.Rows[i] {
			if !t.Rows[i][j].Equal(o.Rows[i][j]) {
				return false
			}
		}
	}

	return true
}
