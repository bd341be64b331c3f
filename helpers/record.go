package helpers

import (
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/schema"
)

// ============================================================================
// FIELD ASSIGNMENT — one resolved cell onto a SalesRecord
// ============================================================================

var textFields = map[string]func(*engine.SalesRecord) *string{
	engine.DimOrderID:           func(r *engine.SalesRecord) *string { return &r.OrderID },
	engine.DateOrder:            func(r *engine.SalesRecord) *string { return &r.OrderDate },
	engine.DimCustomer:          func(r *engine.SalesRecord) *string { return &r.CustomerName },
	engine.DimCustomerCode:      func(r *engine.SalesRecord) *string { return &r.CustomerCode },
	engine.DimCustomerCategory:  func(r *engine.SalesRecord) *string { return &r.CustomerCategory },
	engine.DimSalesOrganization: func(r *engine.SalesRecord) *string { return &r.SalesOrganization },
	schema.KeyBillingDocument:   func(r *engine.SalesRecord) *string { return &r.BillingDocument },
	engine.DateBilling:          func(r *engine.SalesRecord) *string { return &r.BillingDate },
	engine.DateInvoiceDue:       func(r *engine.SalesRecord) *string { return &r.InvoiceDueDate },
	engine.DimProductCode:       func(r *engine.SalesRecord) *string { return &r.ProductCode },
	engine.DimProduct:           func(r *engine.SalesRecord) *string { return &r.ProductName },
	engine.DimPaymentStatus:     func(r *engine.SalesRecord) *string { return &r.PaymentStatus },
	engine.DimPaymentTerms:      func(r *engine.SalesRecord) *string { return &r.PaymentTerms },
	engine.DimPriority:          func(r *engine.SalesRecord) *string { return &r.Priority },
	engine.DimSalesRep:          func(r *engine.SalesRecord) *string { return &r.SalesRep },
	engine.DimRegion:            func(r *engine.SalesRecord) *string { return &r.Region },
	engine.DimDeliveryStatus:    func(r *engine.SalesRecord) *string { return &r.DeliveryStatus },
}

var numberFields = map[string]func(*engine.SalesRecord) *float64{
	engine.MeasQuantity:          func(r *engine.SalesRecord) *float64 { return &r.Quantity },
	engine.MeasUnitPrice:         func(r *engine.SalesRecord) *float64 { return &r.UnitPrice },
	engine.MeasRevenue:           func(r *engine.SalesRecord) *float64 { return &r.Revenue },
	engine.MeasCostPerUnit:       func(r *engine.SalesRecord) *float64 { return &r.CostPerUnit },
	engine.MeasCost:              func(r *engine.SalesRecord) *float64 { return &r.Cost },
	engine.MeasProfit:            func(r *engine.SalesRecord) *float64 { return &r.Profit },
	engine.MeasMarginPct:         func(r *engine.SalesRecord) *float64 { return &r.MarginPct },
	engine.MeasDiscountPct:       func(r *engine.SalesRecord) *float64 { return &r.DiscountPct },
	engine.MeasFinalInvoiceValue: func(r *engine.SalesRecord) *float64 { return &r.FinalInvoiceValue },
}

// assignString stores a raw cell on rec according to the column kind.
func assignString(rec *engine.SalesRecord, col schema.Column, val string) {
	val = strings.TrimSpace(val)
	if col.Kind == schema.KindNumber {
		if f, ok := numberFields[col.Key]; ok {
			*f(rec) = parseNumber(val)
		}
		return
	}
	if f, ok := textFields[col.Key]; ok {
		*f(rec) = val
	}
}

// assignNumber stores an already numeric value on a measure column.
func assignNumber(rec *engine.SalesRecord, col schema.Column, v float64) {
	if f, ok := numberFields[col.Key]; ok {
		*f(rec) = finite(v)
	}
}

// parseNumber accepts "1,234.5", "₹ 12", "18%". Anything else is 0.
func parseNumber(s string) float64 {
	s = strings.NewReplacer(",", "", "₹", "", "%", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// cell renders one field of rec as CSV text.
func cell(rec *engine.SalesRecord, col schema.Column) string {
	if f, ok := numberFields[col.Key]; ok {
		return strconv.FormatFloat(*f(rec), 'f', -1, 64)
	}
	if f, ok := textFields[col.Key]; ok {
		return *f(rec)
	}
	return ""
}
