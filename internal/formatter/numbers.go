// Package formatter renders normalized push metrics as human-readable text:
// number formatting and display-width aligned tables.
package formatter

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pushmetrics/internal/summary"
	"pushmetrics/internal/table"
)

// NotAvailable is printed for missing values.
const NotAvailable = "N/A"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatCurrency renders v as "$1,234.56". Cents round half away from zero
// on the shortest decimal form of v, so 2.675 prints as $2.68.
func FormatCurrency(v float64) string {
	if !finite(v) {
		return "$0"
	}

	d := decimal.NewFromFloat(v).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	return sign + "$" + groupThousands(d.StringFixed(2))
}

// FormatNumber renders v rounded to an integer with thousands separators.
func FormatNumber(v float64) string {
	if !finite(v) {
		return "0"
	}

	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	if strings.HasPrefix(s, "-") {
		if s == "-0" {
			return "0"
		}

		return "-" + groupThousands(s[1:])
	}

	return groupThousands(s)
}

// FormatPercentage renders v with one decimal and a percent sign.
func FormatPercentage(v float64) string {
	if !finite(v) {
		return "0%"
	}

	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// groupThousands inserts commas into the integer part of an unsigned decimal
// string.
func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return s
	}

	var sb strings.Builder

	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}

	for i := lead; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(intPart[i : i+3])
	}

	return sb.String() + frac
}

// TrendArrow returns an arrow for the direction.
func TrendArrow(d summary.Direction) string {
	switch d {
	case summary.Up:
		return "↑"
	case summary.Down:
		return "↓"
	default:
		return "→"
	}
}

// FormatTrend renders a trend as "↑ 12.5%".
func FormatTrend(t summary.Trend) string {
	return TrendArrow(t.Direction) + " " + FormatPercentage(t.Percentage)
}

// Number renders a numeric cell with FormatNumber, or N/A.
func Number(v table.Value) string {
	f, ok := v.Float()
	if !ok {
		return NotAvailable
	}

	return FormatNumber(f)
}

// Percentage renders a percentage cell with FormatPercentage, or N/A.
func Percentage(v table.Value) string {
	f, ok := v.Float()
	if !ok {
		return NotAvailable
	}

	return FormatPercentage(f)
}
