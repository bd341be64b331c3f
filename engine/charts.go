package engine

import "time"

// ============================================================================
// CHART DATA — concrete GroupSpec instantiations
// ============================================================================
// Every function takes a RecordView (usually SalesView(records)) over the
// full record set. Timeframe windowing applies to KPIs only.
// ============================================================================

// Top-N limits.
const (
	TopCustomers = 10
	TopProducts  = 8
	TopSalesReps = 10
)

// Aging bucket labels, in output order.
const (
	Age0To30  = "0-30 days"
	Age31To60 = "31-60 days"
	Age61To90 = "61-90 days"
	Age90Plus = "90+ days"
)

// AgingBuckets lists the fixed pending-invoice age groups in output order.
var AgingBuckets = []string{Age0To30, Age31To60, Age61To90, Age90Plus}

// UnknownCategory labels records without a customer category.
const UnknownCategory = "Unknown"

// placeholderRegions is emitted with zero revenue when there is no data at all.
var placeholderRegions = []string{"North", "South", "East", "West"}

// Measure names used in aggregate rows.
const (
	colRevenue   = "revenue"
	colProfit    = "profit"
	colValue     = "value"
	colCount     = "count"
	colAmount    = "amount"
	colCustomers = "customers"
	colOrders    = "orders"
	colRepeat    = "repeat_customers"
	colRetention = "retention_rate"
)

// RevenueByMonth groups dated records by order month ("M/YYYY") and returns
// revenue and profit in chronological order.
func RevenueByMonth(view RecordView) []RevenuePoint {
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimMonth,
		SkipEmpty: true,
		Reducers:  []Reducer{Sum(colRevenue, MeasRevenue), Sum(colProfit, MeasProfit)},
		Sort:      SortChronological,
	})
	out := make([]RevenuePoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, RevenuePoint{Date: r.Key, Revenue: r.Value(colRevenue), Profit: r.Value(colProfit)})
	}
	return out
}

// RevenueByRegion sums revenue per region, highest first. An empty region is
// reported as "Unknown". With no records at all the four cardinal regions are
// returned with zero revenue.
func RevenueByRegion(view RecordView) []RegionRevenue {
	if view.Len() == 0 {
		out := make([]RegionRevenue, 0, len(placeholderRegions))
		for _, r := range placeholderRegions {
			out = append(out, RegionRevenue{Region: r})
		}
		return out
	}
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimRegion,
		EmptyKey:  UnknownRegion,
		Reducers:  []Reducer{Sum(colRevenue, MeasRevenue)},
		Sort:      SortValueDesc,
	})
	out := make([]RegionRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, RegionRevenue{Region: r.Key, Revenue: r.Value(colRevenue)})
	}
	return out
}

// RevenueByCustomer returns the top customers by revenue.
func RevenueByCustomer(view RecordView) []CustomerRevenue {
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimCustomer,
		Reducers:  []Reducer{Sum(colRevenue, MeasRevenue)},
		Sort:      SortValueDesc,
		Limit:     TopCustomers,
	})
	out := make([]CustomerRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerRevenue{Customer: r.Key, Revenue: r.Value(colRevenue)})
	}
	return out
}

// ValueByProduct returns the top products by revenue.
func ValueByProduct(view RecordView) []ProductValue {
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimProduct,
		Reducers:  []Reducer{Sum(colValue, MeasRevenue)},
		Sort:      SortValueDesc,
		Limit:     TopProducts,
	})
	out := make([]ProductValue, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductValue{Name: r.Key, Value: r.Value(colValue)})
	}
	return out
}

// RevenueBySalesRep returns the top sales reps by revenue.
func RevenueBySalesRep(view RecordView) []SalesRepRevenue {
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimSalesRep,
		Reducers:  []Reducer{Sum(colRevenue, MeasRevenue)},
		Sort:      SortValueDesc,
		Limit:     TopSalesReps,
	})
	out := make([]SalesRepRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, SalesRepRevenue{Name: r.Key, Revenue: r.Value(colRevenue)})
	}
	return out
}

// CountByDeliveryStatus counts order lines per delivery status in order of
// first appearance.
func CountByDeliveryStatus(view RecordView) []StageCount {
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimDeliveryStatus,
		Reducers:  []Reducer{Count(colCount)},
	})
	out := make([]StageCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, StageCount{Stage: r.Key, Count: int(r.Value(colCount))})
	}
	return out
}

// AgeBucket maps an age in days to its aging bucket label.
func AgeBucket(days int) string {
	switch {
	case days <= 30:
		return Age0To30
	case days <= 60:
		return Age31To60
	case days <= 90:
		return Age61To90
	default:
		return Age90Plus
	}
}

// PendingInvoiceAging sums the final invoice value of Unpaid records by how
// many days their invoice due date lies before now. All four buckets are
// always returned, in fixed order. Records without a parseable due date are
// skipped.
func PendingInvoiceAging(view RecordView, now time.Time) []AgingBucket {
	unpaid := FilterView(view, func(v RecordView, i int) bool {
		if v.Dimension(i, DimPaymentStatus) != PaymentUnpaid {
			return false
		}
		_, ok := v.Date(i, DateInvoiceDue)
		return ok
	})
	rows := GroupAndAggregate(unpaid, GroupSpec{
		KeyFunc: func(v RecordView, i int) string {
			due, _ := v.Date(i, DateInvoiceDue)
			return AgeBucket(DaysBetween(due, now))
		},
		FixedKeys: AgingBuckets,
		Reducers:  []Reducer{Sum(colAmount, MeasFinalInvoiceValue)},
	})
	out := make([]AgingBucket, 0, len(rows))
	for _, r := range rows {
		out = append(out, AgingBucket{AgeGroup: r.Key, Amount: r.Value(colAmount)})
	}
	return out
}

// CustomerRetention reports, per customer category in order of first
// appearance, the distinct customers, order lines, revenue and the share of
// customers with more than one order line in that category.
func CustomerRetention(view RecordView) []CategoryRetention {
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimCustomerCategory,
		EmptyKey:  UnknownCategory,
		Reducers: []Reducer{
			DistinctCount(colCustomers, DimCustomerKey),
			Count(colOrders),
			Sum(colRevenue, MeasRevenue),
			Hide(RepeatCount(colRepeat, DimCustomerKey)),
		},
		Derived: []Derived{{
			Name: colRetention,
			Compute: func(r AggregateRow) float64 {
				return percentage(r.Value(colRepeat), r.Value(colCustomers))
			},
		}},
	})
	out := make([]CategoryRetention, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryRetention{
			Category:      r.Key,
			Customers:     int(r.Value(colCustomers)),
			Orders:        int(r.Value(colOrders)),
			Revenue:       r.Value(colRevenue),
			RetentionRate: r.Value(colRetention),
		})
	}
	return out
}
