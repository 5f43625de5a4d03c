package summary

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCalculateTrend(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              Trend
	}{
		{name: "growth", current: 150, previous: 100, want: Trend{Percentage: 50, Direction: Up}},
		{name: "decline", current: 75, previous: 100, want: Trend{Percentage: 25, Direction: Down}},
		{name: "flat", current: 100, previous: 100, want: Trend{Direction: Neutral}},
		{name: "from zero", current: 5, previous: 0, want: Trend{Percentage: 100, Direction: Up}},
		{name: "zero to zero", current: 0, previous: 0, want: Trend{Direction: Neutral}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, CalculateTrend(tt.current, tt.previous)); diff != "" {
				t.Errorf("CalculateTrend mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSummarizeSeries_SumSkipsMissing(t *testing.T) {
	schema, _ := dataset.Default().Lookup(dataset.Revenue)

	// Out of order on purpose; trend uses time order.
	rev := mustNormalize(t, dataset.Revenue, [][]string{
		{"2024-01-03", "300"},
		{"2024-01-01", "100"},
		{"2024-01-02", ""},
		{"2024-01-04", "300"},
	})

	st := SummarizeSeries(rev, schema)

	if st.Rows != 4 || st.Values != 3 {
		t.Errorf("Rows/Values = %d/%d, want 4/3", st.Rows, st.Values)
	}

	if !approx(st.Total, 700) || !approx(st.Mean, 700.0/3) {
		t.Errorf("Total/Mean = %v/%v", st.Total, st.Mean)
	}

	if st.Headline() != st.Total {
		t.Error("summed series headline should be the total")
	}

	// previous = [100], current = [300, 300]
	if st.Trend.Direction != Up || !approx(st.Trend.Percentage, 500) {
		t.Errorf("Trend = %+v, want 500%% up", st.Trend)
	}
}

func TestSummarizeSeries_MeanTrend(t *testing.T) {
	schema, _ := dataset.Default().Lookup(dataset.CTR)

	ctr := mustNormalize(t, dataset.CTR, [][]string{
		{"2024-01-01", "4%"},
		{"2024-01-02", "6%"},
		{"2024-01-03", "2%"},
		{"2024-01-04", "3%"},
	})

	st := SummarizeSeries(ctr, schema)

	if !approx(st.Headline(), 3.75) {
		t.Errorf("Headline() = %v, want 3.75", st.Headline())
	}

	if st.Trend.Direction != Down || !approx(st.Trend.Percentage, 50) {
		t.Errorf("Trend = %+v, want 50%% down", st.Trend)
	}
}

func TestSummarizeSeries_SingleValueIsNeutral(t *testing.T) {
	schema, _ := dataset.Default().Lookup(dataset.AOV)

	st := SummarizeSeries(mustNormalize(t, dataset.AOV, [][]string{{"2024-01-01", "25"}}), schema)
	if st.Trend.Direction != Neutral || st.Trend.Percentage != 0 {
		t.Errorf("Trend = %+v, want neutral", st.Trend)
	}
}

func TestCampaigns(t *testing.T) {
	schema, _ := dataset.Default().Lookup(dataset.Campaigns)

	camp := mustNormalize(t, dataset.Campaigns, [][]string{
		{"Low", "100", "50", "1", "50%", "1.5%"},
		{"Blank", "", "", "", "", ""},
		{"Top", "1000", "990", "80", "99%", "8.1%"},
		{"Mid", "500", "450", "15", "90%", "3.3%"},
	})

	cs := CampaignsFrom(camp, schema)
	if len(cs) != 4 {
		t.Fatalf("CampaignsFrom returned %d campaigns, want 4", len(cs))
	}

	ranked := RankByDelivered(cs, 0)

	var names []string
	for _, c := range ranked {
		names = append(names, c.Name)
	}

	if diff := cmp.Diff([]string{"Top", "Mid", "Low", "Blank"}, names); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}

	if top := RankByDelivered(cs, 2); len(top) != 2 || top[0].Name != "Top" {
		t.Errorf("RankByDelivered(cs, 2) = %v", top)
	}

	th := DefaultThresholds()

	st := SummarizeCampaigns(cs, th)
	want := CampaignStats{Count: 4, TopPerforming: 1, TotalSent: 1600, TotalDelivered: 1490, TotalClicked: 96}

	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("SummarizeCampaigns mismatch (-want +got):\n%s", diff)
	}

	ratings := []Rating{th.RateCTR(cs[0].CTR), th.RateCTR(cs[1].CTR), th.RateDelivery(cs[2].DeliveryRate), th.RateDelivery(cs[3].DeliveryRate)}
	if diff := cmp.Diff([]Rating{RatingLow, RatingUnknown, RatingHigh, RatingNormal}, ratings); diff != "" {
		t.Errorf("ratings mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	reg := dataset.Default()

	tables := map[dataset.Kind]*table.Table{
		dataset.Purchases: mustNormalize(t, dataset.Purchases, [][]string{
			{"2024-01-01", "10"}, {"2024-01-02", "20"}, {"2024-01-03", "30"},
		}),
		dataset.Campaigns: mustNormalize(t, dataset.Campaigns, [][]string{
			{"A", "100", "100", "100", "100%", "100%"},
		}),
	}

	rep := Summarize(tables, reg, Range{From: day(2), To: day(3)}, DefaultThresholds())

	purchases, ok := rep.Series[dataset.Purchases]
	if !ok {
		t.Fatal("purchases missing from report")
	}

	if !approx(purchases.Total, 50) {
		t.Errorf("filtered purchases total = %v, want 50", purchases.Total)
	}

	if rep.Campaigns == nil || rep.Campaigns.Count != 1 {
		t.Fatalf("Campaigns = %+v", rep.Campaigns)
	}

	if !rep.HasConversion || !approx(rep.ConversionRate, 50) {
		t.Errorf("ConversionRate = %v (%v), want 50", rep.ConversionRate, rep.HasConversion)
	}

	if tables[dataset.Purchases].Len() != 3 {
		t.Error("Summarize modified input tables")
	}
}

func TestSummarize_NoConversionWithoutCampaigns(t *testing.T) {
	tables := map[dataset.Kind]*table.Table{
		dataset.Purchases: mustNormalize(t, dataset.Purchases, [][]string{{"2024-01-01", "10"}}),
	}

	rep := Summarize(tables, dataset.Default(), Range{}, DefaultThresholds())
	if rep.HasConversion || rep.Campaigns != nil {
		t.Errorf("unexpected conversion data: %+v", rep)
	}
}
