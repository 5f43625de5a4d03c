package summary

import (
	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

// Aggregation tells how a series rolls up: counters are summed, rates and
// averages are averaged.
type Aggregation int

// Aggregations.
const (
	AggregateSum Aggregation = iota
	AggregateMean
)

var aggregations = map[dataset.Kind]Aggregation{
	dataset.Revenue:      AggregateSum,
	dataset.Purchases:    AggregateSum,
	dataset.Buyers:       AggregateSum,
	dataset.AOV:          AggregateMean,
	dataset.CTR:          AggregateMean,
	dataset.DeliveryRate: AggregateMean,
}

// SeriesStats summarises one time-series dataset.
type SeriesStats struct {
	Kind        dataset.Kind
	Aggregation Aggregation
	Rows        int
	Values      int
	Total       float64
	Mean        float64
	Trend       Trend
}

// Headline is the value shown for the series: the total for summed series
// and the mean otherwise.
func (s SeriesStats) Headline() float64 {
	if s.Aggregation == AggregateSum {
		return s.Total
	}

	return s.Mean
}

// SummarizeSeries computes totals, mean and trend of a normalized series.
// The trend splits the time-ordered values at their midpoint and compares
// the later half with the earlier one.
func SummarizeSeries(t *table.Table, schema dataset.Schema) SeriesStats {
	agg := aggregations[schema.Kind]
	ps := points(t, schema.Timestamp, schema.ValueColumn())

	st := SeriesStats{
		Kind:        schema.Kind,
		Aggregation: agg,
		Rows:        t.Len(),
		Values:      len(ps),
		Total:       sum(ps),
		Mean:        mean(ps),
		Trend:       Trend{Direction: Neutral},
	}

	if len(ps) > 1 {
		mid := len(ps) / 2
		previous, current := ps[:mid], ps[mid:]

		if agg == AggregateSum {
			st.Trend = CalculateTrend(sum(current), sum(previous))
		} else {
			st.Trend = CalculateTrend(mean(current), mean(previous))
		}
	}

	return st
}

// Report is the full dashboard summary for one date range.
type Report struct {
	Range          Range
	Series         map[dataset.Kind]SeriesStats
	Campaigns      *CampaignStats
	ConversionRate float64
	HasConversion  bool
}

// Summarize filters tables by r and computes every metric. Campaign totals are
// not date filtered because the export carries no timestamp.
func Summarize(tables map[dataset.Kind]*table.Table, reg *dataset.Registry, r Range, th Thresholds) *Report {
	filtered := FilterAll(tables, reg, r)

	rep := &Report{
		Range:  r,
		Series: make(map[dataset.Kind]SeriesStats),
	}

	for kind, t := range filtered {
		schema, err := reg.Lookup(kind)
		if err != nil {
			continue
		}

		if schema.IsTimeSeries() {
			rep.Series[kind] = SummarizeSeries(t, schema)
		}
	}

	if t, ok := filtered[dataset.Campaigns]; ok {
		if schema, err := reg.Lookup(dataset.Campaigns); err == nil {
			cs := SummarizeCampaigns(CampaignsFrom(t, schema), th)
			rep.Campaigns = &cs
		}
	}

	purchases, hasPurchases := rep.Series[dataset.Purchases]
	if hasPurchases && rep.Campaigns != nil {
		rep.HasConversion = true
		if rep.Campaigns.TotalClicked > 0 {
			rep.ConversionRate = purchases.Total / rep.Campaigns.TotalClicked * 100
		}
	}

	return rep
}
