// Package salescope turns a flat list of sales records into dashboard numbers.
// KPIs with period-over-period growth, grouped chart data, a short revenue
// forecast with 95% bands and a payment-realization view of open invoices.
//
// Usage:
//
//	import "github.com/spektr-org/salescope/engine"
//
//	dashboard := engine.Execute(records, engine.QuarterToDate,
//	    engine.WithNow(time.Now()),
//	    engine.WithForecastPeriods(3),
//	    engine.WithFilters(engine.Filters{}.Add(engine.DimRegion, "North")),
//	)
//
// Loading CSV/JSON exports is handled by the helpers package.
// The engine never does I/O. All computation is local and pure.
package salescope

// Version is reported by the CLI and stamped on report envelopes.
const Version = "0.3.0"
