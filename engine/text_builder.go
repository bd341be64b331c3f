package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// TEXT BUILDER — human-readable KPI cards, trend and dashboard summary
// ============================================================================
// All functions operate on already-computed outputs; nothing here touches
// records except DerivePeriod.
// ============================================================================

// Growth below this magnitude (in percent) reads as unchanged.
const unchangedBand = 0.5

// BuildKpiText renders a snapshot as four cards with growth arrows.
func BuildKpiText(k KpiSnapshot, tf Timeframe) *KpiText {
	tf = tf.OrDefault()
	return &KpiText{
		Period: tf.Label(),
		Cards: []KpiCard{
			growthCard("Total Revenue", FormatLakh(k.TotalRevenue), k.TotalRevenue, k.RevenueGrowth),
			growthCard("Gross Margin", FormatPercent(k.GrossMargin), k.GrossMargin, k.MarginGrowth),
			growthCard("Avg Order Value", FormatLakh(k.AvgOrderValue), k.AvgOrderValue, k.AovGrowth),
			{
				Title:    "Pending Orders",
				Value:    FormatInt(k.PendingOrders),
				RawValue: float64(k.PendingOrders),
				Change:   FormatPercent(k.PendingOrdersPercentage) + " of orders",
			},
		},
	}
}

func growthCard(title, value string, raw, growth float64) KpiCard {
	direction := Direction(growth)
	return KpiCard{
		Title:     title,
		Value:     value,
		RawValue:  raw,
		Change:    fmt.Sprintf("%s %s vs prior period", arrow(direction), FormatPercent(math.Abs(growth))),
		Direction: direction,
	}
}

// Direction classifies a percentage change.
func Direction(changePercent float64) string {
	switch {
	case changePercent > unchangedBand:
		return "increased"
	case changePercent < -unchangedBand:
		return "decreased"
	default:
		return "unchanged"
	}
}

func arrow(direction string) string {
	switch direction {
	case "increased":
		return "↑"
	case "decreased":
		return "↓"
	default:
		return "→"
	}
}

// ============================================================================
// TREND
// ============================================================================

// TrendText describes the change between the first and last month of the
// revenue trend.
type TrendText struct {
	Value          string  `json:"value"`
	EarliestPeriod string  `json:"earliestPeriod"`
	LatestPeriod   string  `json:"latestPeriod"`
	EarliestValue  float64 `json:"earliestValue"`
	LatestValue    float64 `json:"latestValue"`
	ChangeAmount   float64 `json:"changeAmount"`
	ChangePercent  float64 `json:"changePercent"`
	Direction      string  `json:"direction"` // "increased", "decreased", "unchanged", "insufficient data"
}

// BuildTrendText compares the earliest and latest months of a chronological
// revenue trend. Fewer than two months yields "insufficient data".
func BuildTrendText(points []RevenuePoint) *TrendText {
	if len(points) < 2 {
		t := &TrendText{Value: "→ Not enough history", Direction: "insufficient data"}
		if len(points) == 1 {
			t.EarliestPeriod, t.LatestPeriod = points[0].Date, points[0].Date
			t.EarliestValue, t.LatestValue = points[0].Revenue, points[0].Revenue
		}
		return t
	}

	earliest, latest := points[0], points[len(points)-1]
	change := latest.Revenue - earliest.Revenue
	pct := percentage(change, earliest.Revenue)
	direction := Direction(pct)

	value := "→ No change"
	if direction != "unchanged" {
		value = fmt.Sprintf("%s %s", arrow(direction), FormatPercent(math.Abs(pct)))
	}

	return &TrendText{
		Value:          value,
		EarliestPeriod: earliest.Date,
		LatestPeriod:   latest.Date,
		EarliestValue:  earliest.Revenue,
		LatestValue:    latest.Revenue,
		ChangeAmount:   round2(change),
		ChangePercent:  round2(pct),
		Direction:      direction,
	}
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a human-readable period string ("1/2025 – 3/2025") from
// the order months present in a view.
func DerivePeriod(view RecordView) string {
	if view.Len() == 0 {
		return "No data"
	}

	var earliest, latest string
	var earliestOrder, latestOrder int
	for i := 0; i < view.Len(); i++ {
		m := view.Dimension(i, DimMonth)
		if m == "" {
			continue
		}
		order := ParseMonthOrder(m)
		if earliest == "" || order < earliestOrder {
			earliest, earliestOrder = m, order
		}
		if latest == "" || order > latestOrder {
			latest, latestOrder = m, order
		}
	}

	switch {
	case earliest == "":
		return "All time"
	case earliest == latest:
		return earliest
	default:
		return fmt.Sprintf("%s – %s", earliest, latest)
	}
}

// ============================================================================
// DASHBOARD SUMMARY
// ============================================================================

// RenderText renders a dashboard as a plain-text report.
func RenderText(d *Dashboard) string {
	if d == nil {
		return ""
	}
	var b strings.Builder

	kpi := BuildKpiText(d.Kpis, d.Timeframe)
	fmt.Fprintf(&b, "%s (%s), as of %s\n", kpi.Period, d.Current, d.AsOf.Format("2006-01-02"))
	fmt.Fprintf(&b, "Records: %s (%s undated)\n\n", FormatInt(d.RecordCount), FormatInt(d.UndatedCount))
	for _, c := range kpi.Cards {
		fmt.Fprintf(&b, "  %-16s %s  %s\n", c.Title, c.Value, c.Change)
	}

	trend := BuildTrendText(d.RevenueTrend)
	fmt.Fprintf(&b, "\nRevenue trend: %s", trend.Value)
	if trend.EarliestPeriod != "" {
		fmt.Fprintf(&b, " (%s – %s)", trend.EarliestPeriod, trend.LatestPeriod)
	}
	b.WriteString("\n")

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s\n", title)
		for _, l := range lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}

	var lines []string
	for _, r := range d.Regions {
		lines = append(lines, fmt.Sprintf("%-20s %s", r.Region, FormatLakh(r.Revenue)))
	}
	section("Revenue by region", lines)

	lines = lines[:0]
	for _, c := range d.TopCustomers {
		lines = append(lines, fmt.Sprintf("%-20s %s", c.Customer, FormatLakh(c.Revenue)))
	}
	section("Top customers", lines)

	lines = lines[:0]
	for _, a := range d.PendingInvoices {
		lines = append(lines, fmt.Sprintf("%-20s %s", a.AgeGroup, FormatLakh(a.Amount)))
	}
	section("Pending invoices", lines)

	lines = lines[:0]
	for _, p := range d.Forecast {
		if !p.IsProjected {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %s  [%s, %s]", p.Date.Format("2006-01"),
			FormatLakh(p.Value), FormatAmount(*p.ConfidenceLow), FormatAmount(*p.ConfidenceHigh)))
	}
	section("Forecast", lines)

	lines = lines[:0]
	for _, r := range d.RealizationSummary {
		lines = append(lines, fmt.Sprintf("%-8s %s (%d invoices)", titleCase(string(r.Probability)), FormatLakh(r.Amount), r.Count))
	}
	section("Expected payment realization", lines)

	return b.String()
}
