package engine

import (
	"strings"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from aggregate rows
// ============================================================================
// One series per measure. Labels come from the row keys; values are already
// rounded by the aggregation pipeline.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Realization tier colors: high, medium, low.
var tierColors = map[Probability]string{
	ProbabilityHigh:   "#10b981",
	ProbabilityMedium: "#f59e0b",
	ProbabilityLow:    "#ef4444",
}

// BuildChart produces a ChartConfig with one series per measure. Returns nil
// when there are no rows.
func BuildChart(chartType, title, xAxis, yAxis string, rows []AggregateRow, measures ...string) *ChartConfig {
	if len(rows) == 0 || len(measures) == 0 {
		return nil
	}
	if chartType == "" {
		chartType = "bar"
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		ShowLegend: len(measures) > 1 || chartType == "pie",
		ShowGrid:   chartType != "pie",
	}

	for i, m := range measures {
		points := make([]ChartPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, ChartPoint{Label: r.Key, Value: RoundTo2(r.Value(m))})
		}
		config.Series = append(config.Series, ChartSeries{
			Name:  LabelForDimension(m),
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildForecastChart splits forecast points into Historical, Projected and the
// two confidence bound series. Labels are "2006-01-02".
func BuildForecastChart(points []ForecastPoint) *ChartConfig {
	if len(points) == 0 {
		return nil
	}

	var historical, projected, low, high []ChartPoint
	for _, p := range points {
		label := p.Date.Format("2006-01-02")
		if !p.IsProjected {
			historical = append(historical, ChartPoint{Label: label, Value: RoundTo2(p.Value)})
			continue
		}
		projected = append(projected, ChartPoint{Label: label, Value: RoundTo2(p.Value)})
		if p.ConfidenceLow != nil {
			low = append(low, ChartPoint{Label: label, Value: RoundTo2(*p.ConfidenceLow)})
		}
		if p.ConfidenceHigh != nil {
			high = append(high, ChartPoint{Label: label, Value: RoundTo2(*p.ConfidenceHigh)})
		}
	}

	config := &ChartConfig{
		ChartType:  "line",
		Title:      "Revenue Forecast",
		XAxis:      "Date",
		YAxis:      "Revenue (₹ L)",
		ShowLegend: true,
		ShowGrid:   true,
	}
	for _, s := range []ChartSeries{
		{Name: "Historical", Data: historical},
		{Name: "Projected", Data: projected},
		{Name: "Confidence Low", Data: low},
		{Name: "Confidence High", Data: high},
	} {
		if len(s.Data) == 0 {
			continue
		}
		s.Color = defaultColors[len(config.Series)%len(defaultColors)]
		config.Series = append(config.Series, s)
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildRealizationChart plots the expected realization amount per tier.
func BuildRealizationChart(buckets []RealizationBucket) *ChartConfig {
	if len(buckets) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(buckets))
	colors := make([]string, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, ChartPoint{Label: titleCase(string(b.Probability)), Value: RoundTo2(b.Amount)})
		colors = append(colors, tierColors[b.Probability])
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     "Expected Payment Realization",
		XAxis:     "Payment Probability",
		YAxis:     "Amount (₹ L)",
		Series:    []ChartSeries{{Name: "Amount", Data: points}},
		Colors:    colors,
		ShowGrid:  true,
	}
}

// DashboardCharts renders every chart section of a dashboard, in display
// order. Sections without data are omitted.
func DashboardCharts(d *Dashboard) []ChartConfig {
	if d == nil {
		return nil
	}

	candidates := []*ChartConfig{
		BuildChart("line", "Revenue Trend", "Month", "Amount (₹ L)", revenueTrendRows(d.RevenueTrend), colRevenue, colProfit),
		BuildChart("pie", "Revenue by Region", "Region", "Revenue (₹ L)", regionRows(d.Regions), colRevenue),
		BuildChart("bar", "Top Customers", "Customer", "Revenue (₹ L)", customerRows(d.TopCustomers), colRevenue),
		BuildChart("bar", "Product Performance", "Product", "Revenue (₹ L)", productRows(d.Products), colValue),
		BuildChart("bar", "Sales Rep Performance", "Sales Rep", "Revenue (₹ L)", salesRepRows(d.SalesReps), colRevenue),
		BuildChart("bar", "Order Pipeline", "Delivery Status", "Orders", stageRows(d.OrderPipeline), colCount),
		BuildChart("bar", "Pending Invoices", "Age", "Amount (₹ L)", agingRows(d.PendingInvoices), colAmount),
		BuildForecastChart(d.Forecast),
		BuildRealizationChart(d.RealizationSummary),
	}

	charts := make([]ChartConfig, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			charts = append(charts, *c)
		}
	}
	return charts
}

// ============================================================================
// ROW ADAPTERS — typed chart slices back to AggregateRow
// ============================================================================

func row(key string, measures ...Measure) AggregateRow {
	return AggregateRow{Key: key, Measures: measures}
}

func revenueTrendRows(points []RevenuePoint) []AggregateRow {
	rows := make([]AggregateRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, row(p.Date, Measure{colRevenue, p.Revenue}, Measure{colProfit, p.Profit}))
	}
	return rows
}

func regionRows(regions []RegionRevenue) []AggregateRow {
	rows := make([]AggregateRow, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, row(r.Region, Measure{colRevenue, r.Revenue}))
	}
	return rows
}

func customerRows(customers []CustomerRevenue) []AggregateRow {
	rows := make([]AggregateRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, row(c.Customer, Measure{colRevenue, c.Revenue}))
	}
	return rows
}

func productRows(products []ProductValue) []AggregateRow {
	rows := make([]AggregateRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, row(p.Name, Measure{colValue, p.Value}))
	}
	return rows
}

func salesRepRows(reps []SalesRepRevenue) []AggregateRow {
	rows := make([]AggregateRow, 0, len(reps))
	for _, r := range reps {
		rows = append(rows, row(r.Name, Measure{colRevenue, r.Revenue}))
	}
	return rows
}

func stageRows(stages []StageCount) []AggregateRow {
	rows := make([]AggregateRow, 0, len(stages))
	for _, s := range stages {
		rows = append(rows, row(s.Stage, Measure{colCount, float64(s.Count)}))
	}
	return rows
}

func agingRows(buckets []AgingBucket) []AggregateRow {
	rows := make([]AggregateRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, row(b.AgeGroup, Measure{colAmount, b.Amount}))
	}
	return rows
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
