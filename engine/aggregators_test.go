package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(rows []AggregateRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Key)
	}
	return out
}

func TestGroupAndAggregateInsertionOrder(t *testing.T) {
	view := SalesView([]SalesRecord{
		{Region: "West", Revenue: 1},
		{Region: "North", Revenue: 2},
		{Region: "West", Revenue: 3},
		{Region: "East", Revenue: 4},
	})
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimRegion,
		Reducers:  []Reducer{Sum("revenue", MeasRevenue), Count("n")},
	})
	assert.Equal(t, []string{"West", "North", "East"}, keys(rows))
	assert.Equal(t, 4.0, rows[0].Value("revenue"))
	assert.Equal(t, 2.0, rows[0].Value("n"))
	assert.Equal(t, []string{"revenue", "n"}, []string{rows[0].Measures[0].Name, rows[0].Measures[1].Name})
}

func TestGroupAndAggregateStableTies(t *testing.T) {
	view := SalesView([]SalesRecord{
		{ProductName: "B", Revenue: 5},
		{ProductName: "A", Revenue: 5},
		{ProductName: "C", Revenue: 9},
		{ProductName: "D", Revenue: 5},
	})
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimProduct,
		Reducers:  []Reducer{Sum("v", MeasRevenue)},
		Sort:      SortValueDesc,
		Limit:     3,
	})
	assert.Equal(t, []string{"C", "B", "A"}, keys(rows))
}

func TestGroupAndAggregateEmptyKeys(t *testing.T) {
	view := SalesView([]SalesRecord{{Region: ""}, {Region: "North"}})

	skipped := GroupAndAggregate(view, GroupSpec{Dimension: DimRegion, SkipEmpty: true, Reducers: []Reducer{Count("n")}})
	assert.Equal(t, []string{"North"}, keys(skipped))

	named := GroupAndAggregate(view, GroupSpec{Dimension: DimRegion, EmptyKey: "Unknown", Reducers: []Reducer{Count("n")}})
	assert.Equal(t, []string{"Unknown", "North"}, keys(named))

	assert.Nil(t, GroupAndAggregate(SalesView(nil), GroupSpec{Dimension: DimRegion, Reducers: []Reducer{Count("n")}}))
}

func TestGroupAndAggregateFixedKeys(t *testing.T) {
	view := SalesView([]SalesRecord{{Region: "South", Revenue: 2}, {Region: "Mars", Revenue: 7}})
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimRegion,
		FixedKeys: []string{"North", "South"},
		Reducers:  []Reducer{Sum("revenue", MeasRevenue)},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "North", rows[0].Key)
	assert.Equal(t, 0.0, rows[0].Value("revenue"))
	assert.Equal(t, 2.0, rows[1].Value("revenue"))
}

func TestGroupAndAggregateHiddenAndDerived(t *testing.T) {
	view := SalesView([]SalesRecord{
		{CustomerCategory: "Retail", CustomerCode: "C1"},
		{CustomerCategory: "Retail", CustomerCode: "C1"},
		{CustomerCategory: "Retail", CustomerCode: "C2"},
	})
	rows := GroupAndAggregate(view, GroupSpec{
		Dimension: DimCustomerCategory,
		Reducers: []Reducer{
			DistinctCount("customers", DimCustomerKey),
			Hide(RepeatCount("repeat", DimCustomerKey)),
		},
		Derived: []Derived{{Name: "share", Compute: func(r AggregateRow) float64 {
			return percentage(r.Value("repeat"), r.Value("customers"))
		}}},
	})
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Measures, 2)
	assert.Equal(t, 2.0, rows[0].Value("customers"))
	assert.Equal(t, 50.0, rows[0].Value("share"))
	assert.Equal(t, 0.0, rows[0].Value("repeat"))
}

func TestSortRowsChronological(t *testing.T) {
	rows := []AggregateRow{{Key: "2/2025"}, {Key: "11/2024"}, {Key: "1/2025"}, {Key: "9/2024"}}
	SortRows(rows, SortChronological, "")
	assert.Equal(t, []string{"9/2024", "11/2024", "1/2025", "2/2025"}, keys(rows))
	assert.Equal(t, 202503, ParseMonthOrder("3/2025"))
	assert.Equal(t, 0, ParseMonthOrder("March"))
}

func TestRatiosNeverDivideByZero(t *testing.T) {
	assert.Equal(t, 0.0, ratio(5, 0))
	assert.Equal(t, 0.0, percentage(5, 0))
	assert.Equal(t, 0.0, growthPercent(10, 0))
	assert.Equal(t, 50.0, growthPercent(15, 10))
	assert.Equal(t, -100.0, growthPercent(0, 10))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, round2(1.005))
	assert.Equal(t, -2.35, round2(-2.345))
	assert.Equal(t, 33.33, round2(100.0/3))
	assert.Equal(t, 0.0, round2(math.NaN()))
	assert.Equal(t, 0.0, round2(math.Inf(1)))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567.89", FormatAmount(1234567.891))
	assert.Equal(t, "999.00", FormatAmount(999))
	assert.Equal(t, "₹ -1,500.00 L", FormatLakh(-1500))
	assert.Equal(t, "33.3%", FormatPercent(33.333))
	assert.Equal(t, "1,234,567", FormatInt(1234567))
	assert.Equal(t, "-1,000", FormatInt(-1000))
	assert.Equal(t, "Sales Rep", LabelForDimension("sales_rep"))
}

func TestViewHelpers(t *testing.T) {
	view := SalesView(dashboardFixture())

	assert.Equal(t, 350.0, SumMeasure(view, MeasRevenue))
	assert.Equal(t, []string{"North", "South", "East"}, UniqueValues(view, DimRegion))
	assert.Equal(t, map[string]int{"1001": 2, "1002": 1, "0990": 1, "0950": 1, "0900": 1}, CountValues(view, DimOrderID))
}

func TestSortRowsModes(t *testing.T) {
	rows := func() []AggregateRow {
		return []AggregateRow{
			row("beta", Measure{"v", 2}),
			row("Alpha", Measure{"v", 3}),
			row("gamma", Measure{"v", 1}),
		}
	}
	keys := func(rs []AggregateRow) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Key
		}
		return out
	}

	asc := rows()
	SortRows(asc, SortValueAsc, "v")
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, keys(asc))

	byLabel := rows()
	SortRows(byLabel, SortLabelAsc, "")
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, keys(byLabel))

	kept := rows()
	SortRows(kept, SortInsertion, "v")
	assert.Equal(t, []string{"beta", "Alpha", "gamma"}, keys(kept))
}
