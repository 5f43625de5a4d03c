package summary

import (
	"math"
	"sort"
	"time"

	"pushmetrics/internal/table"
)

// Direction of a trend.
type Direction string

// Trend directions.
const (
	Up      Direction = "up"
	Down    Direction = "down"
	Neutral Direction = "neutral"
)

// Trend is the absolute percentage change between two periods.
type Trend struct {
	Percentage float64
	Direction  Direction
}

// CalculateTrend compares current with previous. A zero previous value yields
// 100% up when current is positive and 0% neutral otherwise.
func CalculateTrend(current, previous float64) Trend {
	if previous == 0 {
		if current > 0 {
			return Trend{Percentage: 100, Direction: Up}
		}

		return Trend{Direction: Neutral}
	}

	change := (current - previous) / previous * 100

	switch {
	case change > 0:
		return Trend{Percentage: math.Abs(change), Direction: Up}
	case change < 0:
		return Trend{Percentage: math.Abs(change), Direction: Down}
	default:
		return Trend{Direction: Neutral}
	}
}

type point struct {
	ts    time.Time
	hasTS bool
	value float64
}

// points pairs each non-missing value with its timestamp, ordered by time.
// Rows without a timestamp keep their file order after the timed rows.
func points(t *table.Table, timestampCol, valueCol string) []point {
	tsIdx, valIdx := t.Index(timestampCol), t.Index(valueCol)
	if valIdx < 0 {
		return nil
	}

	var out []point

	for _, row := range t.Rows {
		f, ok := row[valIdx].Float()
		if !ok {
			continue
		}

		p := point{value: f}
		if tsIdx >= 0 {
			p.ts, p.hasTS = row[tsIdx].Time()
		}

		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].hasTS != out[j].hasTS {
			return out[i].hasTS
		}

		return out[i].ts.Before(out[j].ts)
	})

	return out
}

func sum(ps []point) float64 {
	total := 0.0
	for _, p := range ps {
		total += p.value
	}

	return total
}

func mean(ps []point) float64 {
	if len(ps) == 0 {
		return 0
	}

	return sum(ps) / float64(len(ps))
}
