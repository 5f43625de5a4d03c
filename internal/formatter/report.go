package formatter

import (
	"fmt"
	"strings"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/summary"
)

var seriesTitles = map[dataset.Kind]string{
	dataset.Revenue:      "Revenue from Push",
	dataset.Purchases:    "Purchases",
	dataset.Buyers:       "Buyers",
	dataset.AOV:          "Average Order Value",
	dataset.CTR:          "Click-Through Rate",
	dataset.DeliveryRate: "Delivery Rate",
}

// FormatHeadline renders the headline value of a series in its natural unit.
func FormatHeadline(st summary.SeriesStats) string {
	v := st.Headline()

	switch st.Kind {
	case dataset.Revenue, dataset.AOV:
		return FormatCurrency(v)
	case dataset.CTR, dataset.DeliveryRate:
		return FormatPercentage(v)
	default:
		return FormatNumber(v)
	}
}

// RenderSummary renders the metric cards of a report as a table, in registry
// order.
func RenderSummary(rep *summary.Report, reg *dataset.Registry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Date range: %s\n\n", rep.Range)

	var rows [][]string

	for _, kind := range reg.Kinds() {
		st, ok := rep.Series[kind]
		if !ok {
			continue
		}

		title := seriesTitles[kind]
		if title == "" {
			title = string(kind)
		}

		value := FormatHeadline(st)
		if st.Values == 0 {
			value = NotAvailable
		}

		rows = append(rows, []string{
			title,
			value,
			FormatTrend(st.Trend),
			fmt.Sprintf("%d/%d", st.Values, st.Rows),
		})
	}

	if rep.HasConversion {
		rows = append(rows, []string{"Conversion Rate", FormatPercentage(rep.ConversionRate), "", ""})
	}

	if rep.Campaigns != nil {
		rows = append(rows, []string{
			"Top Performing Campaigns",
			fmt.Sprintf("%d of %d", rep.Campaigns.TopPerforming, rep.Campaigns.Count),
			"",
			"",
		})
	}

	if len(rows) == 0 {
		sb.WriteString("No data loaded.\n")
		return sb.String()
	}

	sb.WriteString(RenderTable([]Column{
		{Title: "Metric"},
		{Title: "Value", Align: AlignRight},
		{Title: "Trend", Align: AlignRight},
		{Title: "Days", Align: AlignRight},
	}, rows))

	return sb.String()
}

// RenderCampaigns renders the campaign performance table with CTR and
// delivery-rate ratings.
func RenderCampaigns(cs []summary.Campaign, th summary.Thresholds, maxNameWidth int) string {
	rows := make([][]string, 0, len(cs))

	for _, c := range cs {
		rows = append(rows, []string{
			c.Name,
			Number(c.Sent),
			Number(c.Delivered),
			Number(c.Clicked),
			Percentage(c.DeliveryRate),
			string(th.RateDelivery(c.DeliveryRate)),
			Percentage(c.CTR),
			string(th.RateCTR(c.CTR)),
		})
	}

	return RenderTable([]Column{
		{Title: "Campaign", MaxWidth: maxNameWidth},
		{Title: "Sent", Align: AlignRight},
		{Title: "Delivered", Align: AlignRight},
		{Title: "Clicked", Align: AlignRight},
		{Title: "Delivery Rate", Align: AlignRight},
		{Title: "DR"},
		{Title: "CTR", Align: AlignRight},
		{Title: "CTR Rating"},
	}, rows)
}
