package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salescope/engine"
)

func TestResolveHeaders(t *testing.T) {
	cases := map[string]string{
		"Total Revenue (₹ Lakh)":       engine.MeasRevenue,
		"total_revenue":                engine.MeasRevenue,
		"revenue":                      engine.MeasRevenue,
		"Final Invoice Value (₹ Lakh)": engine.MeasFinalInvoiceValue,
		"finalInvoiceValue":            engine.MeasFinalInvoiceValue,
		"Sales Document No.":           engine.DimOrderID,
		"order_id":                     engine.DimOrderID,
		"  SALES ORDER DATE ":          engine.DateOrder,
		"Gross Margin %":               engine.MeasMarginPct,
		"Discount (%)":                 engine.MeasDiscountPct,
		"Cost Price per Unit (₹)":      engine.MeasCostPerUnit,
		"Billing Document":             KeyBillingDocument,
		"Sales Rep Name":               engine.DimSalesRep,
	}
	for header, want := range cases {
		c, ok := Resolve(header)
		require.True(t, ok, header)
		assert.Equal(t, want, c.Key, header)
	}

	_, ok := Resolve("Warehouse Bin")
	assert.False(t, ok)
}

func TestCatalogueHasNoAmbiguousNames(t *testing.T) {
	owner := map[string]string{}
	for _, c := range Columns {
		names := append([]string{c.Key, c.Header}, c.Aliases...)
		for _, n := range names {
			norm := normalizeHeader(n)
			if prev, ok := owner[norm]; ok {
				assert.Equal(t, prev, c.Key, "%q resolves to two columns", n)
			}
			owner[norm] = c.Key
		}
	}
}

func TestMissing(t *testing.T) {
	assert.Empty(t, Missing([]string{"Sales Document No.", "Sales Order Date", "Total Revenue (₹ Lakh)"}))
	assert.Equal(t, []string{"Sales Order Date", "Total Revenue (₹ Lakh)"}, Missing([]string{"orderId", "Region"}))
}

func TestSalesConfig(t *testing.T) {
	cfg := Sales()

	assert.Equal(t, engine.MeasRevenue, cfg.GetDefaultMeasure())
	assert.Len(t, cfg.Measures, 9)
	assert.Len(t, cfg.Dates, 3)
	assert.Contains(t, cfg.DimensionKeys(), engine.DimMonth)
	assert.Contains(t, cfg.DimensionKeys(), engine.DimCustomerKey)
	assert.NotContains(t, cfg.DimensionKeys(), KeyBillingDocument)
	assert.Contains(t, cfg.MeasureKeys(), engine.MeasFinalInvoiceValue)

	for _, m := range cfg.Measures {
		if m.Key == engine.MeasMarginPct {
			assert.Equal(t, "avg", m.DefaultAggregation)
			assert.False(t, m.IsCurrency)
		}
		if m.Key == engine.MeasProfit {
			assert.True(t, m.IsCurrency)
			assert.Equal(t, "Profit (₹ Lakh)", m.Header)
		}
	}
	require.NotNil(t, cfg.Currency)
	assert.Equal(t, "INR", cfg.Currency.Code)

	assert.Equal(t, engine.MeasRevenue, Config{}.GetDefaultMeasure())
}
