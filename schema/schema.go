package schema

import (
	"strings"
	"unicode"

	"github.com/spektr-org/salescope/engine"
)

// ============================================================================
// SCHEMA — Describes the sales dataset for loaders and the CLI
// ============================================================================
// The upstream export uses human headers ("Total Revenue (₹ Lakh)"). Loaders
// resolve each header through the column catalogue below; the same catalogue
// feeds Config, which `salescope --describe` prints.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
	Dates      []DateMeta      `json:"dates"`

	Currency *CurrencyConfig `json:"currency,omitempty"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"displayName"`
	Header      string   `json:"header,omitempty"`
	Description string   `json:"description,omitempty"`
	Groupable   bool     `json:"groupable"`
	Filterable  bool     `json:"filterable"`
	DerivedFrom string   `json:"derivedFrom,omitempty"` // Source column if computed
	Values      []string `json:"values,omitempty"`      // Values the engine reacts to
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Header             string   `json:"header,omitempty"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "lakh", "inr", "units", "percent"
	IsCurrency         bool     `json:"isCurrency,omitempty"`
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
	Format             string   `json:"format,omitempty"` // "#,##0.00", "0.0%"
}

// DateMeta describes a calendar field.
type DateMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Header      string `json:"header"`
	Description string `json:"description,omitempty"`
}

// CurrencyConfig names the currency monetary measures are expressed in.
type CurrencyConfig struct {
	Code  string  `json:"code"`
	Unit  string  `json:"unit"`  // "lakh"
	Scale float64 `json:"scale"` // Rupees per unit
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Groupable:   true,
		Filterable:  true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Aggregations:       []string{"sum", "avg", "min", "max", "count"},
		DefaultAggregation: "sum",
		Format:             "#,##0.00",
	}
}

// GetDefaultMeasure returns the first measure's key, or revenue as fallback.
func (c Config) GetDefaultMeasure() string {
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return engine.MeasRevenue
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// ============================================================================
// COLUMN CATALOGUE
// ============================================================================

// Kind tells a loader how to coerce a raw cell.
type Kind string

const (
	KindText   Kind = "text"
	KindID     Kind = "id" // text, but JSON sources deliver numbers
	KindDate   Kind = "date"
	KindNumber Kind = "number"
)

// KeyBillingDocument is carried on SalesRecord but never aggregated.
const KeyBillingDocument = "billing_document"

// Column maps one upstream column onto a SalesRecord field.
type Column struct {
	Key      string
	Header   string
	Aliases  []string
	Kind     Kind
	Unit     string
	Required bool
}

// Columns is the sales export in its upstream order.
var Columns = []Column{
	{Key: engine.DimOrderID, Header: "Sales Document No.", Aliases: []string{"orderId", "sales_document"}, Kind: KindID, Required: true},
	{Key: engine.DateOrder, Header: "Sales Order Date", Aliases: []string{"orderDate", "date"}, Kind: KindDate, Required: true},
	{Key: engine.DimCustomer, Header: "Customer Name", Aliases: []string{"customerName"}, Kind: KindText},
	{Key: engine.DimCustomerCode, Header: "Customer Code", Aliases: []string{"customerCode"}, Kind: KindText},
	{Key: engine.DimCustomerCategory, Header: "Customer Category", Aliases: []string{"customerCategory", "category"}, Kind: KindText},
	{Key: engine.DimSalesOrganization, Header: "Sales Organization", Aliases: []string{"salesOrganization", "sales_org"}, Kind: KindText},
	{Key: KeyBillingDocument, Header: "Billing Document", Aliases: []string{"billingDocument"}, Kind: KindID},
	{Key: engine.DateBilling, Header: "Billing Date", Aliases: []string{"billingDate"}, Kind: KindDate},
	{Key: engine.DateInvoiceDue, Header: "Invoice Due Date", Aliases: []string{"invoiceDueDate", "due_date"}, Kind: KindDate},
	{Key: engine.DimProductCode, Header: "Product Code", Aliases: []string{"productCode"}, Kind: KindText},
	{Key: engine.DimProduct, Header: "Product Name", Aliases: []string{"productName"}, Kind: KindText},
	{Key: engine.MeasQuantity, Header: "Quantity Sold", Aliases: []string{"quantity", "qty"}, Kind: KindNumber, Unit: "units"},
	{Key: engine.MeasUnitPrice, Header: "Unit Price (₹)", Aliases: []string{"unitPrice"}, Kind: KindNumber, Unit: "inr"},
	{Key: engine.MeasRevenue, Header: "Total Revenue (₹ Lakh)", Aliases: []string{"revenue", "total_revenue"}, Kind: KindNumber, Unit: "lakh", Required: true},
	{Key: engine.MeasCostPerUnit, Header: "Cost Price per Unit (₹)", Aliases: []string{"costPerUnit"}, Kind: KindNumber, Unit: "inr"},
	{Key: engine.MeasCost, Header: "Total Cost (₹ Lakh)", Aliases: []string{"cost", "total_cost"}, Kind: KindNumber, Unit: "lakh"},
	{Key: engine.MeasProfit, Header: "Profit (₹ Lakh)", Aliases: []string{"profit"}, Kind: KindNumber, Unit: "lakh"},
	{Key: engine.MeasMarginPct, Header: "Gross Margin %", Aliases: []string{"marginPct", "gross_margin"}, Kind: KindNumber, Unit: "percent"},
	{Key: engine.MeasDiscountPct, Header: "Discount (%)", Aliases: []string{"discountPct", "discount"}, Kind: KindNumber, Unit: "percent"},
	{Key: engine.MeasFinalInvoiceValue, Header: "Final Invoice Value (₹ Lakh)", Aliases: []string{"finalInvoiceValue", "invoice_value"}, Kind: KindNumber, Unit: "lakh"},
	{Key: engine.DimPaymentStatus, Header: "Payment Status", Aliases: []string{"paymentStatus"}, Kind: KindText},
	{Key: engine.DimPaymentTerms, Header: "Payment Terms", Aliases: []string{"paymentTerms"}, Kind: KindText},
	{Key: engine.DimPriority, Header: "Order Priority", Aliases: []string{"priority"}, Kind: KindText},
	{Key: engine.DimSalesRep, Header: "Sales Rep Name", Aliases: []string{"salesRep", "sales_rep_name"}, Kind: KindText},
	{Key: engine.DimRegion, Header: "Region", Kind: KindText},
	{Key: engine.DimDeliveryStatus, Header: "Delivery Status", Aliases: []string{"deliveryStatus"}, Kind: KindText},
}

var index = buildIndex()

func buildIndex() map[string]Column {
	idx := make(map[string]Column, len(Columns)*3)
	for _, c := range Columns {
		idx[normalizeHeader(c.Key)] = c
		idx[normalizeHeader(c.Header)] = c
		for _, a := range c.Aliases {
			idx[normalizeHeader(a)] = c
		}
	}
	return idx
}

// Resolve finds the catalogue column for a raw header. Matching ignores
// case, spacing, punctuation and currency symbols, so "Total Revenue (₹ Lakh)",
// "total_revenue_lakh" and "totalRevenueLakh" all land on revenue.
func Resolve(header string) (Column, bool) {
	c, ok := index[normalizeHeader(header)]
	return c, ok
}

// Missing returns the headers of required columns absent from headers.
func Missing(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if c, ok := Resolve(h); ok {
			seen[c.Key] = true
		}
	}
	var missing []string
	for _, c := range Columns {
		if c.Required && !seen[c.Key] {
			missing = append(missing, c.Header)
		}
	}
	return missing
}

func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ============================================================================
// SALES CONFIG
// ============================================================================

var displayNames = map[string]string{
	engine.DimOrderID:            "Order",
	engine.DimCustomer:           "Customer",
	engine.DimCustomerCode:       "Customer Code",
	engine.DimCustomerKey:        "Customer (code or name)",
	engine.DimCustomerCategory:   "Customer Category",
	engine.DimSalesOrganization:  "Sales Organization",
	engine.DimProduct:            "Product",
	engine.DimProductCode:        "Product Code",
	engine.DimSalesRep:           "Sales Rep",
	engine.DimRegion:             "Region",
	engine.DimPaymentStatus:      "Payment Status",
	engine.DimPaymentTerms:       "Payment Terms",
	engine.DimPriority:           "Priority",
	engine.DimDeliveryStatus:     "Delivery Status",
	engine.DimMonth:              "Month",
	engine.MeasQuantity:          "Quantity",
	engine.MeasUnitPrice:         "Unit Price",
	engine.MeasRevenue:           "Revenue",
	engine.MeasCostPerUnit:       "Cost per Unit",
	engine.MeasCost:              "Cost",
	engine.MeasProfit:            "Profit",
	engine.MeasMarginPct:         "Gross Margin",
	engine.MeasDiscountPct:       "Discount",
	engine.MeasFinalInvoiceValue: "Final Invoice Value",
	engine.DateOrder:             "Order Date",
	engine.DateBilling:           "Billing Date",
	engine.DateInvoiceDue:        "Invoice Due Date",
}

// Sales returns the Config of the sales export, measures first by revenue.
func Sales() Config {
	cfg := Config{
		Name:        "sales",
		Version:     "1",
		Description: "Order lines with invoicing, payment and delivery state. Monetary totals in lakh.",
		Currency:    &CurrencyConfig{Code: "INR", Unit: "lakh", Scale: 100000},
	}

	for _, c := range Columns {
		switch c.Kind {
		case KindNumber:
			m := DefaultMeasure(c.Key, displayNames[c.Key])
			m.Header = c.Header
			m.Unit = c.Unit
			m.IsCurrency = c.Unit == "lakh" || c.Unit == "inr"
			if c.Unit == "percent" {
				m.Aggregations = []string{"avg", "min", "max"}
				m.DefaultAggregation = "avg"
				m.Format = "0.0%"
			}
			cfg.Measures = append(cfg.Measures, m)
		case KindDate:
			cfg.Dates = append(cfg.Dates, DateMeta{Key: c.Key, DisplayName: displayNames[c.Key], Header: c.Header})
		default:
			if c.Key == KeyBillingDocument {
				continue
			}
			d := DefaultDimension(c.Key, displayNames[c.Key])
			d.Header = c.Header
			switch c.Key {
			case engine.DimPaymentStatus:
				d.Values = []string{engine.PaymentPaid, engine.PaymentUnpaid, engine.PaymentPending, engine.PaymentProcessing, engine.PaymentApproved}
			case engine.DimDeliveryStatus:
				d.Values = []string{engine.DeliveryPending, engine.DeliveryProcessing}
			}
			cfg.Dimensions = append(cfg.Dimensions, d)
		}
	}

	key := DefaultDimension(engine.DimCustomerKey, displayNames[engine.DimCustomerKey])
	key.DerivedFrom = engine.DimCustomerCode
	key.Filterable = false
	month := DefaultDimension(engine.DimMonth, displayNames[engine.DimMonth])
	month.DerivedFrom = engine.DateOrder
	month.Description = "M/YYYY of the order date"
	cfg.Dimensions = append(cfg.Dimensions, key, month)

	// Revenue leads so GetDefaultMeasure picks it.
	for i, m := range cfg.Measures {
		if m.Key == engine.MeasRevenue {
			cfg.Measures[0], cfg.Measures[i] = cfg.Measures[i], cfg.Measures[0]
			break
		}
	}
	return cfg
}
