package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ============================================================================
// NORMALIZER — SalesRecord → canonical rows
// ============================================================================
// Fail soft: a bad number becomes 0, a bad date marks the row undated. No
// single record can make a computation fail.
// ============================================================================

// dateLayouts are tried in order. Naive layouts are interpreted as UTC.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"02-01-2006",
	"02-Jan-2006",
}

// ParseDate parses a source date string. The bool is false for empty or
// unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// finite maps NaN and ±Inf to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// salesRow is a SalesRecord with its dates parsed once.
type salesRow struct {
	rec         SalesRecord
	orderDate   time.Time
	billingDate time.Time
	dueDate     time.Time
}

func newSalesRow(r SalesRecord) salesRow {
	row := salesRow{rec: r}
	row.rec.Quantity = finite(r.Quantity)
	row.rec.UnitPrice = finite(r.UnitPrice)
	row.rec.Revenue = finite(r.Revenue)
	row.rec.CostPerUnit = finite(r.CostPerUnit)
	row.rec.Cost = finite(r.Cost)
	row.rec.Profit = finite(r.Profit)
	row.rec.MarginPct = finite(r.MarginPct)
	row.rec.DiscountPct = finite(r.DiscountPct)
	row.rec.FinalInvoiceValue = finite(r.FinalInvoiceValue)

	row.orderDate, _ = ParseDate(r.OrderDate)
	row.billingDate, _ = ParseDate(r.BillingDate)
	row.dueDate, _ = ParseDate(r.InvoiceDueDate)
	return row
}

func dated(t time.Time) (time.Time, bool) { return t, !t.IsZero() }

// MonthKey formats a date as the "M/YYYY" label used by the revenue trend.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Year())
}

var salesAdapter = NewDomainAdapter[salesRow]().
	Dimension(DimOrderID, func(r salesRow) string { return r.rec.OrderID }).
	Dimension(DimCustomer, func(r salesRow) string { return r.rec.CustomerName }).
	Dimension(DimCustomerCode, func(r salesRow) string { return r.rec.CustomerCode }).
	Dimension(DimCustomerKey, func(r salesRow) string {
		if r.rec.CustomerCode != "" {
			return r.rec.CustomerCode
		}
		return r.rec.CustomerName
	}).
	Dimension(DimCustomerCategory, func(r salesRow) string { return r.rec.CustomerCategory }).
	Dimension(DimSalesOrganization, func(r salesRow) string { return r.rec.SalesOrganization }).
	Dimension(DimProduct, func(r salesRow) string { return r.rec.ProductName }).
	Dimension(DimProductCode, func(r salesRow) string { return r.rec.ProductCode }).
	Dimension(DimSalesRep, func(r salesRow) string { return r.rec.SalesRep }).
	Dimension(DimRegion, func(r salesRow) string { return r.rec.Region }).
	Dimension(DimPaymentStatus, func(r salesRow) string { return r.rec.PaymentStatus }).
	Dimension(DimPaymentTerms, func(r salesRow) string { return r.rec.PaymentTerms }).
	Dimension(DimPriority, func(r salesRow) string { return r.rec.Priority }).
	Dimension(DimDeliveryStatus, func(r salesRow) string { return r.rec.DeliveryStatus }).
	Dimension(DimMonth, func(r salesRow) string {
		if r.orderDate.IsZero() {
			return ""
		}
		return MonthKey(r.orderDate)
	}).
	Measure(MeasQuantity, func(r salesRow) float64 { return r.rec.Quantity }).
	Measure(MeasUnitPrice, func(r salesRow) float64 { return r.rec.UnitPrice }).
	Measure(MeasRevenue, func(r salesRow) float64 { return r.rec.Revenue }).
	Measure(MeasCostPerUnit, func(r salesRow) float64 { return r.rec.CostPerUnit }).
	Measure(MeasCost, func(r salesRow) float64 { return r.rec.Cost }).
	Measure(MeasProfit, func(r salesRow) float64 { return r.rec.Profit }).
	Measure(MeasMarginPct, func(r salesRow) float64 { return r.rec.MarginPct }).
	Measure(MeasDiscountPct, func(r salesRow) float64 { return r.rec.DiscountPct }).
	Measure(MeasFinalInvoiceValue, func(r salesRow) float64 { return r.rec.FinalInvoiceValue }).
	Date(DateOrder, func(r salesRow) (time.Time, bool) { return dated(r.orderDate) }).
	Date(DateBilling, func(r salesRow) (time.Time, bool) { return dated(r.billingDate) }).
	Date(DateInvoiceDue, func(r salesRow) (time.Time, bool) { return dated(r.dueDate) })

// SalesView normalizes records and binds them as a RecordView.
func SalesView(records []SalesRecord) RecordView {
	rows := make([]salesRow, len(records))
	undated := 0
	for i, r := range records {
		rows[i] = newSalesRow(r)
		if rows[i].orderDate.IsZero() {
			undated++
		}
	}
	if undated > 0 {
		log.Debug().
			Int("records", len(records)).
			Int("undated", undated).
			Msg("normalized sales records with unparseable order dates")
	}
	return salesAdapter.Bind(rows)
}

// Normalize maps every record to a ProcessedRecord (the historical series).
func Normalize(records []SalesRecord) []ProcessedRecord {
	return ProcessedFromView(SalesView(records), false)
}

// NormalizePipeline maps the open (not yet Paid) records to ProcessedRecords
// carrying their invoice due date as the expected close date.
func NormalizePipeline(records []SalesRecord) []ProcessedRecord {
	return ProcessedFromView(PipelineView(SalesView(records)), true)
}

// PipelineView keeps the records whose payment status is not Paid.
func PipelineView(view RecordView) RecordView {
	return FilterView(view, func(v RecordView, i int) bool {
		return v.Dimension(i, DimPaymentStatus) != PaymentPaid
	})
}

// ProcessedFromView builds ProcessedRecords from any RecordView exposing the
// sales keys. withCloseDate copies the invoice due date into ExpectedCloseDate.
func ProcessedFromView(view RecordView, withCloseDate bool) []ProcessedRecord {
	out := make([]ProcessedRecord, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		p := ProcessedRecord{
			ID:       view.Dimension(i, DimOrderID),
			Amount:   view.Measure(i, MeasFinalInvoiceValue),
			Customer: view.Dimension(i, DimCustomer),
			Product:  view.Dimension(i, DimProduct),
			Region:   view.Dimension(i, DimRegion),
			SalesRep: view.Dimension(i, DimSalesRep),
			Stage:    view.Dimension(i, DimPaymentStatus),
		}
		if d, ok := view.Date(i, DateOrder); ok {
			p.Date = d
		}
		if withCloseDate {
			if d, ok := view.Date(i, DateInvoiceDue); ok {
				closeDate := d
				p.ExpectedCloseDate = &closeDate
			}
		}
		out = append(out, p)
	}
	return out
}

// countUndated returns how many records of view lack an order date.
func countUndated(view RecordView) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if _, ok := view.Date(i, DateOrder); !ok {
			n++
		}
	}
	return n
}
