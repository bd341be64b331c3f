package engine

import "time"

// ============================================================================
// SALESCOPE ENGINE TYPES
// ============================================================================
// Input:  SalesRecord (one per order line / invoice), strictly typed.
// Output: plain JSON-ready structs. No behavior, safe to hand to a renderer
//         or to serialize across a process boundary.
//
// Monetary fields are in lakh (100,000) throughout.
// ============================================================================

// ============================================================================
// FIELD KEYS — names used by RecordView accessors and the schema catalogue
// ============================================================================

// Dimension keys.
const (
	DimOrderID           = "order_id"
	DimCustomer          = "customer"
	DimCustomerCode      = "customer_code"
	DimCustomerKey       = "customer_key" // code, falling back to name
	DimCustomerCategory  = "customer_category"
	DimSalesOrganization = "sales_organization"
	DimProduct           = "product"
	DimProductCode       = "product_code"
	DimSalesRep          = "sales_rep"
	DimRegion            = "region"
	DimPaymentStatus     = "payment_status"
	DimPaymentTerms      = "payment_terms"
	DimPriority          = "priority"
	DimDeliveryStatus    = "delivery_status"
	DimMonth             = "month" // "M/YYYY" derived from the order date
)

// Measure keys.
const (
	MeasQuantity          = "quantity"
	MeasUnitPrice         = "unit_price"
	MeasRevenue           = "revenue"
	MeasCostPerUnit       = "cost_per_unit"
	MeasCost              = "cost"
	MeasProfit            = "profit"
	MeasMarginPct         = "margin_pct"
	MeasDiscountPct       = "discount_pct"
	MeasFinalInvoiceValue = "final_invoice_value"
)

// Date keys.
const (
	DateOrder      = "order_date"
	DateBilling    = "billing_date"
	DateInvoiceDue = "invoice_due_date"
)

// Categorical values the engine reacts to. Matching is exact and case-sensitive.
const (
	PaymentPaid       = "Paid"
	PaymentUnpaid     = "Unpaid"
	PaymentPending    = "Pending"
	PaymentProcessing = "Processing"
	PaymentApproved   = "Approved"

	DeliveryPending    = "Pending"
	DeliveryProcessing = "Processing"

	UnknownRegion = "Unknown"
)

// ============================================================================
// INPUT
// ============================================================================

// SalesRecord is one order line / invoice of the upstream dataset.
// Dates stay as the raw strings the source delivered; they are parsed once
// by the normalizer. Numeric fields that were missing upstream are 0.
type SalesRecord struct {
	OrderID           string  `json:"orderId" msgpack:"orderId"`
	OrderDate         string  `json:"orderDate" msgpack:"orderDate"`
	CustomerName      string  `json:"customerName" msgpack:"customerName"`
	CustomerCode      string  `json:"customerCode" msgpack:"customerCode"`
	CustomerCategory  string  `json:"customerCategory" msgpack:"customerCategory"`
	SalesOrganization string  `json:"salesOrganization,omitempty" msgpack:"salesOrganization"`
	BillingDocument   string  `json:"billingDocument,omitempty" msgpack:"billingDocument"`
	BillingDate       string  `json:"billingDate,omitempty" msgpack:"billingDate"`
	InvoiceDueDate    string  `json:"invoiceDueDate,omitempty" msgpack:"invoiceDueDate"`
	ProductCode       string  `json:"productCode,omitempty" msgpack:"productCode"`
	ProductName       string  `json:"productName" msgpack:"productName"`
	Quantity          float64 `json:"quantity" msgpack:"quantity"`
	UnitPrice         float64 `json:"unitPrice" msgpack:"unitPrice"`
	Revenue           float64 `json:"revenue" msgpack:"revenue"`
	CostPerUnit       float64 `json:"costPerUnit" msgpack:"costPerUnit"`
	Cost              float64 `json:"cost" msgpack:"cost"`
	Profit            float64 `json:"profit" msgpack:"profit"`
	MarginPct         float64 `json:"marginPct" msgpack:"marginPct"`
	DiscountPct       float64 `json:"discountPct" msgpack:"discountPct"`
	FinalInvoiceValue float64 `json:"finalInvoiceValue" msgpack:"finalInvoiceValue"`
	PaymentStatus     string  `json:"paymentStatus" msgpack:"paymentStatus"`
	PaymentTerms      string  `json:"paymentTerms,omitempty" msgpack:"paymentTerms"`
	Priority          string  `json:"priority,omitempty" msgpack:"priority"`
	SalesRep          string  `json:"salesRep" msgpack:"salesRep"`
	Region            string  `json:"region" msgpack:"region"`
	DeliveryStatus    string  `json:"deliveryStatus" msgpack:"deliveryStatus"`
}

// ProcessedRecord is the canonical shape consumed by the forecast engine and
// the realization classifier. A zero Date means the source date did not parse.
type ProcessedRecord struct {
	ID                string     `json:"id"`
	Date              time.Time  `json:"date"`
	Amount            float64    `json:"amount"`
	Customer          string     `json:"customer"`
	Product           string     `json:"product"`
	Region            string     `json:"region"`
	SalesRep          string     `json:"salesRep"`
	Stage             string     `json:"stage"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
}

// Dated reports whether the record carries a usable order date.
func (p ProcessedRecord) Dated() bool { return !p.Date.IsZero() }

// ============================================================================
// KPI
// ============================================================================

// KpiSnapshot holds headline metrics for the current period and growth
// against the prior period. Growth figures are percentages.
type KpiSnapshot struct {
	TotalRevenue            float64 `json:"totalRevenue"`
	RevenueGrowth           float64 `json:"revenueGrowth"`
	GrossMargin             float64 `json:"grossMargin"`
	MarginGrowth            float64 `json:"marginGrowth"`
	AvgOrderValue           float64 `json:"avgOrderValue"`
	AovGrowth               float64 `json:"aovGrowth"`
	PendingOrders           int     `json:"pendingOrders"`
	PendingOrdersPercentage float64 `json:"pendingOrdersPercentage"`
}

// ============================================================================
// AGGREGATES
// ============================================================================

// Measure is one named numeric column of an AggregateRow.
type Measure struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AggregateRow is a grouping key plus its measures, in a column order fixed
// by the GroupSpec that produced it.
type AggregateRow struct {
	Key      string    `json:"key"`
	Measures []Measure `json:"measures"`
}

// Value returns the named measure, or 0 when the row does not carry it.
func (r AggregateRow) Value(name string) float64 {
	for _, m := range r.Measures {
		if m.Name == name {
			return m.Value
		}
	}
	return 0
}

// RevenuePoint is one month of the revenue trend.
type RevenuePoint struct {
	Date    string  `json:"date"` // "M/YYYY"
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// RegionRevenue is revenue per region.
type RegionRevenue struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
}

// CustomerRevenue is revenue per customer.
type CustomerRevenue struct {
	Customer string  `json:"customer"`
	Revenue  float64 `json:"revenue"`
}

// ProductValue is revenue per product.
type ProductValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SalesRepRevenue is revenue per sales rep.
type SalesRepRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// StageCount is the number of order lines in one delivery stage.
type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// AgingBucket is the unpaid invoice value falling into one age group.
type AgingBucket struct {
	AgeGroup string  `json:"ageGroup"`
	Amount   float64 `json:"amount"`
}

// CategoryRetention summarizes repeat business per customer category.
type CategoryRetention struct {
	Category      string  `json:"category"`
	Customers     int     `json:"customers"`
	Orders        int     `json:"orders"`
	Revenue       float64 `json:"revenue"`
	RetentionRate float64 `json:"retentionRate"`
}

// ============================================================================
// FORECAST
// ============================================================================

// ForecastPoint is a historical observation or a projected value.
// Confidence bounds are set only on projected points.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	Value          float64   `json:"value"`
	IsProjected    bool      `json:"isProjected"`
	ConfidenceLow  *float64  `json:"confidenceLow,omitempty"`
	ConfidenceHigh *float64  `json:"confidenceHigh,omitempty"`
}

// Probability is the qualitative likelihood that a pipeline amount is realized.
type Probability string

const (
	ProbabilityHigh   Probability = "high"
	ProbabilityMedium Probability = "medium"
	ProbabilityLow    Probability = "low"
)

// RealizationEntry classifies one pipeline record.
type RealizationEntry struct {
	Amount      float64     `json:"amount"`
	Probability Probability `json:"probability"`
}

// RealizationBucket totals the pipeline amount expected per probability tier.
type RealizationBucket struct {
	Probability Probability `json:"probability"`
	Amount      float64     `json:"amount"`
	Count       int         `json:"count"`
}

// ============================================================================
// DASHBOARD — everything one screen needs, computed from one input
// ============================================================================

// Dashboard bundles the KPI snapshot, chart data, forecast and realization
// for one record set. Charts cover the whole (optionally filtered) record set;
// only the KPIs are windowed by the timeframe.
type Dashboard struct {
	Timeframe    Timeframe `json:"timeframe"`
	AsOf         time.Time `json:"asOf"`
	Current      Window    `json:"currentWindow"`
	Prior        Window    `json:"priorWindow"`
	RecordCount  int       `json:"recordCount"`
	UndatedCount int       `json:"undatedCount"`

	Kpis KpiSnapshot `json:"kpis"`

	RevenueTrend    []RevenuePoint      `json:"revenueTrend"`
	Regions         []RegionRevenue     `json:"regions"`
	TopCustomers    []CustomerRevenue   `json:"topCustomers"`
	Products        []ProductValue      `json:"products"`
	SalesReps       []SalesRepRevenue   `json:"salesReps"`
	OrderPipeline   []StageCount        `json:"orderPipeline"`
	PendingInvoices []AgingBucket       `json:"pendingInvoices"`
	Retention       []CategoryRetention `json:"retention"`

	Forecast           []ForecastPoint     `json:"forecast"`
	Realization        []RealizationEntry  `json:"realization"`
	RealizationSummary []RealizationBucket `json:"realizationSummary"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// KpiText is the human-readable rendering of a KpiSnapshot.
type KpiText struct {
	Period string    `json:"period"`
	Cards  []KpiCard `json:"cards"`
}

// KpiCard is one headline metric with its change against the prior period.
type KpiCard struct {
	Title     string  `json:"title"`
	Value     string  `json:"value"`
	RawValue  float64 `json:"rawValue"`
	Change    string  `json:"change,omitempty"`
	Direction string  `json:"direction,omitempty"` // "increased", "decreased", "unchanged"
}
