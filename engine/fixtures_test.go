package engine

import "time"

// ── Test Data ─────────────────────────────────────────────────────────────────

var refNow = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrTime(t time.Time) *time.Time { return &t }

// sale builds a record with the fields most tests care about.
func sale(id, date string, revenue float64) SalesRecord {
	return SalesRecord{
		OrderID:           id,
		OrderDate:         date,
		Revenue:           revenue,
		FinalInvoiceValue: revenue,
	}
}

// dashboardFixture spans Feb and Mar 2025 with one undated and one January
// record, a mix of payment and delivery states.
func dashboardFixture() []SalesRecord {
	return []SalesRecord{
		{OrderID: "1001", OrderDate: "2025-03-02", CustomerName: "Acme", CustomerCode: "C1", CustomerCategory: "Retail",
			ProductName: "Widget", Revenue: 100, Profit: 20, FinalInvoiceValue: 110, PaymentStatus: "Unpaid",
			InvoiceDueDate: "2025-01-29", SalesRep: "Asha", Region: "North", DeliveryStatus: "Pending"},
		{OrderID: "1001", OrderDate: "2025-03-02", CustomerName: "Acme", CustomerCode: "C1", CustomerCategory: "Retail",
			ProductName: "Gadget", Revenue: 50, Profit: 10, FinalInvoiceValue: 55, PaymentStatus: "Approved",
			InvoiceDueDate: "2025-03-20", SalesRep: "Asha", Region: "North", DeliveryStatus: "Delivered"},
		{OrderID: "1002", OrderDate: "2025-03-10", CustomerName: "Bharat Traders", CustomerCode: "C2", CustomerCategory: "Wholesale",
			ProductName: "Widget", Revenue: 50, Profit: 20, FinalInvoiceValue: 52, PaymentStatus: "Processing",
			InvoiceDueDate: "2025-04-05", SalesRep: "Vikram", Region: "South", DeliveryStatus: "Processing"},
		{OrderID: "0990", OrderDate: "2025-02-11", CustomerName: "Acme", CustomerCode: "C1", CustomerCategory: "Retail",
			ProductName: "Widget", Revenue: 100, Profit: 25, FinalInvoiceValue: 100, PaymentStatus: "Paid",
			InvoiceDueDate: "2025-03-13", SalesRep: "Asha", Region: "North", DeliveryStatus: "Delivered"},
		{OrderID: "0950", OrderDate: "2025-01-20", CustomerName: "Chola Mart", CustomerCode: "C3", CustomerCategory: "Retail",
			ProductName: "Sprocket", Revenue: 40, Profit: 8, FinalInvoiceValue: 40, PaymentStatus: "Pending",
			InvoiceDueDate: "2025-06-01", SalesRep: "Vikram", Region: "", DeliveryStatus: "Shipped"},
		{OrderID: "0900", OrderDate: "not a date", CustomerName: "Chola Mart", CustomerCode: "C3", CustomerCategory: "Retail",
			ProductName: "Sprocket", Revenue: 10, Profit: 2, FinalInvoiceValue: 10, PaymentStatus: "Paid",
			SalesRep: "Vikram", Region: "East", DeliveryStatus: "Delivered"},
	}
}
