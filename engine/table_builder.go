package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from aggregate rows
// ============================================================================
// Cells are pre-formatted strings; the Summary carries column totals.
// ============================================================================

// BuildTable produces a generic table: the group key column followed by one
// number column per measure, with totals in the summary.
func BuildTable(title, groupLabel string, rows []AggregateRow, measures ...string) *TableData {
	if len(rows) == 0 {
		return &TableData{
			Title:   title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}
	if groupLabel == "" {
		groupLabel = "Group"
	}

	columns := make([]Column, 0, len(measures)+1)
	columns = append(columns, Column{Key: "group", Label: groupLabel, Type: "text", Align: "left"})
	for _, m := range measures {
		columns = append(columns, Column{Key: m, Label: LabelForDimension(m), Type: "number", Align: "right"})
	}

	totals := make([]float64, len(measures))
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, 0, len(columns))
		cells = append(cells, r.Key)
		for i, m := range measures {
			v := r.Value(m)
			cells = append(cells, FormatAmount(v))
			totals[i] += v
		}
		out = append(out, cells)
	}

	summary := &Summary{Label: "Total", Values: make(map[string]string, len(measures))}
	for i, m := range measures {
		summary.Values[m] = FormatAmount(totals[i])
	}

	return &TableData{Title: title, Columns: columns, Rows: out, Summary: summary}
}

// BuildRetentionTable renders customer retention per category. The summary
// retention rate is recomputed over all categories weighted by customers.
func BuildRetentionTable(rows []CategoryRetention) *TableData {
	table := &TableData{
		Title: "Customer Retention",
		Columns: []Column{
			{Key: "category", Label: "Category", Type: "text", Align: "left"},
			{Key: "customers", Label: "Customers", Type: "number", Align: "right"},
			{Key: "orders", Label: "Orders", Type: "number", Align: "right"},
			{Key: "revenue", Label: "Revenue", Type: "currency", Align: "right"},
			{Key: "retention_rate", Label: "Retention Rate", Type: "percent", Align: "right"},
		},
		Rows: make([][]string, 0, len(rows)),
	}
	if len(rows) == 0 {
		return table
	}

	var customers, orders int
	var revenue, repeat float64
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Category,
			FormatInt(r.Customers),
			FormatInt(r.Orders),
			FormatLakh(r.Revenue),
			FormatPercent(r.RetentionRate),
		})
		customers += r.Customers
		orders += r.Orders
		revenue += r.Revenue
		repeat += r.RetentionRate * float64(r.Customers) / 100
	}

	table.Summary = &Summary{
		Label: fmt.Sprintf("Total (%d categories)", len(rows)),
		Values: map[string]string{
			"customers":      FormatInt(customers),
			"orders":         FormatInt(orders),
			"revenue":        FormatLakh(revenue),
			"retention_rate": FormatPercent(percentage(repeat, float64(customers))),
		},
	}
	return table
}
