package helpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/spektr-org/salescope/engine"
)

const exportCSV = "\ufeffSales Document No.,Sales Order Date,Customer Name,Customer Code,Customer Category,Total Revenue (₹ Lakh),Profit (₹ Lakh),Final Invoice Value (₹ Lakh),Payment Status,Region,Warehouse Bin,Invoice Due Date\n" +
	"1001,2025-03-02,Acme Traders,C-01,Retail,\"1,250.50\",310.25,1200,Unpaid,North,B7,2025-04-01\n" +
	"1002,2025-03-05,Bolt Ltd,C-02,Wholesale,n/a,12,\"₹ 80\",Paid,South,B1,\n" +
	"1003,2025-03-06,too,few\n" +
	"1004,03/07/2025,Crest,C-03,Retail,NaN,5%,10,Approved,East,B2,2025-03-20\n"

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV([]byte(exportCSV))
	require.NoError(t, err)
	require.Len(t, records, 3, "ragged row is skipped")

	first := records[0]
	assert.Equal(t, "1001", first.OrderID)
	assert.Equal(t, "2025-03-02", first.OrderDate)
	assert.Equal(t, "Acme Traders", first.CustomerName)
	assert.Equal(t, "C-01", first.CustomerCode)
	assert.Equal(t, 1250.5, first.Revenue)
	assert.Equal(t, 310.25, first.Profit)
	assert.Equal(t, 1200.0, first.FinalInvoiceValue)
	assert.Equal(t, "Unpaid", first.PaymentStatus)
	assert.Equal(t, "2025-04-01", first.InvoiceDueDate)

	assert.Equal(t, 0.0, records[1].Revenue, "non-numeric becomes 0")
	assert.Equal(t, 80.0, records[1].FinalInvoiceValue)
	assert.Empty(t, records[1].InvoiceDueDate)

	assert.Equal(t, 0.0, records[2].Revenue, "NaN becomes 0")
	assert.Equal(t, 5.0, records[2].Profit)
	assert.Equal(t, "03/07/2025", records[2].OrderDate)
}

func TestParseCSVHeaderErrors(t *testing.T) {
	_, err := ParseCSV(nil)
	assert.Error(t, err)

	_, err = ParseCSV([]byte("Warehouse,Bin\nA,1\n"))
	assert.ErrorContains(t, err, "no sales columns")
}

func TestParseCSVAliases(t *testing.T) {
	records, err := ParseCSV([]byte("order_id,order_date,revenue,sales_rep,delivery_status\nA1,2025-01-01,3.5,Asha,Pending\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, engine.SalesRecord{
		OrderID:        "A1",
		OrderDate:      "2025-01-01",
		Revenue:        3.5,
		SalesRep:       "Asha",
		DeliveryStatus: "Pending",
	}, records[0])
}

func TestWriteCSVRoundTrip(t *testing.T) {
	in := []engine.SalesRecord{{
		OrderID:           "1001",
		OrderDate:         "2025-03-02",
		CustomerName:      "Acme, Traders",
		Revenue:           12.75,
		FinalInvoiceValue: 11,
		PaymentStatus:     "Paid",
		Region:            "North",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))
	assert.Contains(t, buf.String(), "Total Revenue (₹ Lakh)")

	out, err := ParseCSV(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`[
		{"Sales Document No.": 1001, "Sales Order Date": "2025-03-02", "Total Revenue (₹ Lakh)": 12.5,
		 "Quantity Sold": "7", "Billing Document": 90000123, "Payment Status": "Unpaid", "Notes": "x"},
		{"orderId": "1002", "revenue": "oops", "profit": null, "region": true, "finalInvoiceValue": 1e400}
	]`)

	records, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1001", records[0].OrderID)
	assert.Equal(t, "90000123", records[0].BillingDocument)
	assert.Equal(t, 12.5, records[0].Revenue)
	assert.Equal(t, 7.0, records[0].Quantity)
	assert.Equal(t, "Unpaid", records[0].PaymentStatus)

	assert.Equal(t, "1002", records[1].OrderID)
	assert.Equal(t, 0.0, records[1].Revenue)
	assert.Equal(t, 0.0, records[1].Profit)
	assert.Empty(t, records[1].Region)
	assert.Equal(t, 0.0, records[1].FinalInvoiceValue)
}

func TestParseJSONRejectsNonArray(t *testing.T) {
	_, err := ParseJSON([]byte(`{"records": []}`))
	assert.ErrorContains(t, err, "array of objects")

	records, err := ParseJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseAndLoadFile(t *testing.T) {
	want := []engine.SalesRecord{{OrderID: "7", Revenue: 2, Region: "West"}}
	packed, err := msgpack.Marshal(want)
	require.NoError(t, err)

	got, err := Parse("msgpack", packed)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Parse("xlsx", nil)
	assert.ErrorContains(t, err, "unsupported input format")

	dir := t.TempDir()
	path := filepath.Join(dir, "sales.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"orderId": 7, "revenue": 2, "region": "West"}]`), 0o600))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
