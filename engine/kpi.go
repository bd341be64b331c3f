package engine

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ============================================================================
// KPI CALCULATOR
// ============================================================================
// Current set = records in CurrentWindow, prior set = records in PriorWindow.
// Every ratio and growth figure is 0 when its denominator is 0. Figures are
// rounded to 2 decimals on the way out.
// ============================================================================

// periodTotals are the sums the KPI cards are derived from.
type periodTotals struct {
	revenue float64
	profit  float64
	orders  int // distinct order ids
	lines   int
}

func totalsOf(view RecordView) periodTotals {
	return periodTotals{
		revenue: SumMeasure(view, MeasRevenue),
		profit:  SumMeasure(view, MeasProfit),
		orders:  len(UniqueValues(view, DimOrderID)),
		lines:   view.Len(),
	}
}

func (t periodTotals) margin() float64 { return percentage(t.profit, t.revenue) }

func (t periodTotals) avgOrderValue() float64 { return ratio(t.revenue, float64(t.orders)) }

// CalculateKpis computes the headline metrics for the timeframe containing
// the configured now. Empty input yields the zero snapshot.
func CalculateKpis(records []SalesRecord, tf Timeframe, opts ...Option) KpiSnapshot {
	cfg := applyOptions(opts)
	if len(records) == 0 {
		return KpiSnapshot{}
	}
	return CalculateKpisView(ApplyFilters(SalesView(records), cfg.Filters), tf, cfg.Now)
}

// CalculateKpisView is CalculateKpis over an existing view.
func CalculateKpisView(view RecordView, tf Timeframe, now time.Time) KpiSnapshot {
	if view.Len() == 0 {
		return KpiSnapshot{}
	}

	curWin, prevWin := CurrentWindow(tf, now), PriorWindow(tf, now)
	current := FilterWindow(view, curWin)
	previous := FilterWindow(view, prevWin)

	cur, prev := totalsOf(current), totalsOf(previous)

	pending := 0
	for i := 0; i < current.Len(); i++ {
		switch current.Dimension(i, DimDeliveryStatus) {
		case DeliveryPending, DeliveryProcessing:
			pending++
		}
	}

	log.Debug().
		Str("timeframe", string(tf)).
		Stringer("current", curWin).
		Stringer("prior", prevWin).
		Int("current_records", cur.lines).
		Int("prior_records", prev.lines).
		Msg("kpi windows")

	return KpiSnapshot{
		TotalRevenue:            round2(cur.revenue),
		RevenueGrowth:           round2(growthPercent(cur.revenue, prev.revenue)),
		GrossMargin:             round2(cur.margin()),
		MarginGrowth:            round2(growthPercent(cur.margin(), prev.margin())),
		AvgOrderValue:           round2(cur.avgOrderValue()),
		AovGrowth:               round2(growthPercent(cur.avgOrderValue(), prev.avgOrderValue())),
		PendingOrders:           pending,
		PendingOrdersPercentage: round2(percentage(float64(pending), float64(cur.lines))),
	}
}
