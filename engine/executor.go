package engine

import (
	"github.com/rs/zerolog/log"
)

// ============================================================================
// EXECUTOR — one record set in, one Dashboard out
// ============================================================================
// Entry point: Execute(records, timeframe, opts...)
//
// Pipeline:
//   1. Normalize records once → SalesView
//   2. Apply dimension filters → SubView
//   3. KPIs over the current/prior windows
//   4. Chart data over the whole filtered view
//   5. Forecast (history = every record, pipeline = not Paid)
//   6. Payment realization entries + tier totals
//
// Never returns an error: malformed records degrade to zero values.
// ============================================================================

// Execute computes every dashboard section from records.
//
// Options:
//   - WithNow(t): reference time for windows, aging and realization
//   - WithForecastPeriods(n), WithRealizationDays(n)
//   - WithFilters(f): restricts every section to matching records
func Execute(records []SalesRecord, tf Timeframe, opts ...Option) *Dashboard {
	cfg := applyOptions(opts)
	tf = tf.OrDefault()
	return executeView(ApplyFilters(SalesView(records), cfg.Filters), tf, cfg)
}

// ExecuteView runs the dashboard pipeline over an existing view exposing the
// sales keys.
func ExecuteView(view RecordView, tf Timeframe, opts ...Option) *Dashboard {
	cfg := applyOptions(opts)
	return executeView(ApplyFilters(view, cfg.Filters), tf.OrDefault(), cfg)
}

func executeView(view RecordView, tf Timeframe, cfg *config) *Dashboard {
	now := cfg.Now

	d := &Dashboard{
		Timeframe:    tf,
		AsOf:         now,
		Current:      CurrentWindow(tf, now),
		Prior:        PriorWindow(tf, now),
		RecordCount:  view.Len(),
		UndatedCount: countUndated(view),
	}

	log.Debug().
		Int("records", d.RecordCount).
		Int("undated", d.UndatedCount).
		Str("timeframe", string(tf)).
		Str("filters", cfg.Filters.Label()).
		Msg("executing dashboard")

	d.Kpis = CalculateKpisView(view, tf, now)

	d.RevenueTrend = RevenueByMonth(view)
	d.Regions = RevenueByRegion(view)
	d.TopCustomers = RevenueByCustomer(view)
	d.Products = ValueByProduct(view)
	d.SalesReps = RevenueBySalesRep(view)
	d.OrderPipeline = CountByDeliveryStatus(view)
	d.PendingInvoices = PendingInvoiceAging(view, now)
	d.Retention = CustomerRetention(view)

	historical := ProcessedFromView(view, false)
	pipeline := ProcessedFromView(PipelineView(view), true)
	d.Forecast = CalculateRevenueForecast(historical, pipeline,
		WithNow(now), WithForecastPeriods(cfg.ForecastPeriods))
	d.Realization = CalculatePaymentRealization(pipeline,
		WithNow(now), WithRealizationDays(cfg.RealizationDays))
	d.RealizationSummary = SummarizeRealization(d.Realization)

	return d
}
