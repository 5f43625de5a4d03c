package summary

import (
	"sort"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

// Rating classifies a rate against thresholds.
type Rating string

// Ratings.
const (
	RatingHigh    Rating = "high"
	RatingNormal  Rating = "normal"
	RatingLow     Rating = "low"
	RatingUnknown Rating = "unknown"
)

// Thresholds bound the "good" and "poor" bands of CTR and delivery rate, in
// percent.
type Thresholds struct {
	CTRHigh          float64 `yaml:"ctr_high"`
	CTRLow           float64 `yaml:"ctr_low"`
	DeliveryRateHigh float64 `yaml:"delivery_rate_high"`
	DeliveryRateLow  float64 `yaml:"delivery_rate_low"`
}

// DefaultThresholds returns the stock bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CTRHigh:          5.0,
		CTRLow:           2.0,
		DeliveryRateHigh: 95.0,
		DeliveryRateLow:  80.0,
	}
}

func rate(v table.Value, high, low float64) Rating {
	f, ok := v.Float()

	switch {
	case !ok:
		return RatingUnknown
	case f > high:
		return RatingHigh
	case f < low:
		return RatingLow
	default:
		return RatingNormal
	}
}

// RateCTR classifies a click-through rate.
func (th Thresholds) RateCTR(v table.Value) Rating {
	return rate(v, th.CTRHigh, th.CTRLow)
}

// RateDelivery classifies a delivery rate.
func (th Thresholds) RateDelivery(v table.Value) Rating {
	return rate(v, th.DeliveryRateHigh, th.DeliveryRateLow)
}

// Campaign is one row of the campaign performance export.
type Campaign struct {
	Name         string
	Sent         table.Value
	Delivered    table.Value
	Clicked      table.Value
	DeliveryRate table.Value
	CTR          table.Value
}

// CampaignsFrom extracts campaigns from a normalized campaigns table. Column
// positions come from schema so renamed headers are honoured.
func CampaignsFrom(t *table.Table, schema dataset.Schema) []Campaign {
	if t == nil || len(schema.Columns) < 6 {
		return nil
	}

	get := func(row []table.Value, idx int) table.Value {
		if idx < 0 {
			return table.Missing()
		}

		return row[idx]
	}

	cols := schema.Columns
	name := t.Index(cols[0])
	sent := t.Index(cols[1])
	delivered := t.Index(cols[2])
	clicked := t.Index(cols[3])
	dr := t.Index(cols[4])
	ctr := t.Index(cols[5])

	out := make([]Campaign, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, Campaign{
			Name:         get(row, name).String(),
			Sent:         get(row, sent),
			Delivered:    get(row, delivered),
			Clicked:      get(row, clicked),
			DeliveryRate: get(row, dr),
			CTR:          get(row, ctr),
		})
	}

	return out
}

// RankByDelivered returns a copy of cs sorted by delivered messages,
// descending, truncated to n when n > 0. Campaigns with no delivered count
// sort last; ties keep input order.
func RankByDelivered(cs []Campaign, n int) []Campaign {
	out := append([]Campaign(nil), cs...)

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := out[i].Delivered.Float()
		b, bok := out[j].Delivered.Float()

		if aok != bok {
			return aok
		}

		return a > b
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}

	return out
}

// CampaignStats aggregates the campaign table.
type CampaignStats struct {
	Count          int
	TopPerforming  int
	TotalSent      float64
	TotalDelivered float64
	TotalClicked   float64
}

// SummarizeCampaigns totals the campaign counters and counts campaigns whose
// CTR is above the high threshold.
func SummarizeCampaigns(cs []Campaign, th Thresholds) CampaignStats {
	st := CampaignStats{Count: len(cs)}

	for _, c := range cs {
		if f, ok := c.Sent.Float(); ok {
			st.TotalSent += f
		}

		if f, ok := c.Delivered.Float(); ok {
			st.TotalDelivered += f
		}

		if f, ok := c.Clicked.Float(); ok {
			st.TotalClicked += f
		}

		if th.RateCTR(c.CTR) == RatingHigh {
			st.TopPerforming++
		}
	}

	return st
}
