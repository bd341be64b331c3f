package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// AGGREGATORS — Grouping, Reduction and Sorting via RecordView
// ============================================================================
// Pipeline: group → reduce → derive → sort → limit → round.
//
// Groups keep first-occurrence order; every sort is stable, so ties resolve
// to that order. Rounding to 2 decimals happens once, on the way out.
// ============================================================================

// Sort modes for GroupSpec.Sort.
const (
	SortInsertion     = ""
	SortValueDesc     = "value_desc"
	SortValueAsc      = "value_asc"
	SortChronological = "chronological" // keys are "M/YYYY"
	SortLabelAsc      = "label_asc"
)

// Reducer folds the records of one group into a single measure.
// Reducers must not depend on record order.
type Reducer struct {
	Name   string
	Hidden bool // used by Derived measures, dropped from the output row
	Reduce func(view RecordView) float64
}

// Derived computes a measure from the reduced values of a row.
type Derived struct {
	Name    string
	Compute func(row AggregateRow) float64
}

// GroupSpec parameterizes GroupAndAggregate.
type GroupSpec struct {
	Dimension string
	KeyFunc   func(view RecordView, i int) string // overrides Dimension when set

	EmptyKey  string // substituted for an empty key
	SkipEmpty bool   // drop records with an empty key (after EmptyKey substitution)
	FixedKeys []string

	Reducers []Reducer
	Derived  []Derived

	Sort   string
	SortBy string // measure used by value sorts; defaults to the first reducer
	Limit  int    // 0 = all
}

type group struct {
	key     string
	indices []int
}

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Keys are unique within the result. FixedKeys, when set, define the complete
// key set and output order; records with other keys are dropped.
func GroupAndAggregate(view RecordView, spec GroupSpec) []AggregateRow {
	groups := groupRecords(view, spec)
	if len(groups) == 0 {
		return nil
	}

	rows := make([]AggregateRow, 0, len(groups))
	for _, g := range groups {
		sub := newSubView(view, g.indices)
		row := AggregateRow{Key: g.key, Measures: make([]Measure, 0, len(spec.Reducers)+len(spec.Derived))}
		for _, r := range spec.Reducers {
			row.Measures = append(row.Measures, Measure{Name: r.Name, Value: r.Reduce(sub)})
		}
		for _, d := range spec.Derived {
			row.Measures = append(row.Measures, Measure{Name: d.Name, Value: d.Compute(row)})
		}
		rows = append(rows, row)
	}

	sortBy := spec.SortBy
	if sortBy == "" && len(spec.Reducers) > 0 {
		sortBy = spec.Reducers[0].Name
	}
	SortRows(rows, spec.Sort, sortBy)

	if spec.Limit > 0 && len(rows) > spec.Limit {
		rows = rows[:spec.Limit]
	}

	hidden := make(map[string]bool)
	for _, r := range spec.Reducers {
		if r.Hidden {
			hidden[r.Name] = true
		}
	}
	for i := range rows {
		kept := rows[i].Measures[:0]
		for _, m := range rows[i].Measures {
			if hidden[m.Name] {
				continue
			}
			m.Value = round2(m.Value)
			kept = append(kept, m)
		}
		rows[i].Measures = kept
	}

	return rows
}

// ============================================================================
// GROUPING
// ============================================================================

func groupRecords(view RecordView, spec GroupSpec) []group {
	index := make(map[string]int)
	groups := make([]group, 0)

	fixed := len(spec.FixedKeys) > 0
	for _, k := range spec.FixedKeys {
		if _, exists := index[k]; exists {
			continue
		}
		index[k] = len(groups)
		groups = append(groups, group{key: k})
	}

	for i := 0; i < view.Len(); i++ {
		var key string
		if spec.KeyFunc != nil {
			key = spec.KeyFunc(view, i)
		} else {
			key = view.Dimension(i, spec.Dimension)
		}
		if key == "" && spec.EmptyKey != "" {
			key = spec.EmptyKey
		}
		if key == "" && spec.SkipEmpty {
			continue
		}

		pos, exists := index[key]
		if !exists {
			if fixed {
				continue
			}
			pos = len(groups)
			index[key] = pos
			groups = append(groups, group{key: key})
		}
		groups[pos].indices = append(groups[pos].indices, i)
	}
	return groups
}

// ============================================================================
// REDUCERS
// ============================================================================

// Sum adds up a measure.
func Sum(name, measure string) Reducer {
	return Reducer{Name: name, Reduce: func(v RecordView) float64 { return SumMeasure(v, measure) }}
}

// Count counts records.
func Count(name string) Reducer {
	return Reducer{Name: name, Reduce: func(v RecordView) float64 { return float64(v.Len()) }}
}

// DistinctCount counts distinct non-empty values of a dimension.
func DistinctCount(name, dimension string) Reducer {
	return Reducer{Name: name, Reduce: func(v RecordView) float64 { return float64(len(UniqueValues(v, dimension))) }}
}

// RepeatCount counts distinct dimension values that occur on more than one record.
func RepeatCount(name, dimension string) Reducer {
	return Reducer{Name: name, Reduce: func(v RecordView) float64 {
		counts := CountValues(v, dimension)
		repeats := 0
		for _, c := range counts {
			if c > 1 {
				repeats++
			}
		}
		return float64(repeats)
	}}
}

// Hide marks a reducer as an intermediate value.
func Hide(r Reducer) Reducer {
	r.Hidden = true
	return r
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// UniqueValues returns distinct non-empty values for a dimension, in
// first-occurrence order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// CountValues counts records per non-empty dimension value.
func CountValues(view RecordView, dimension string) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		if val := view.Dimension(i, dimension); val != "" {
			counts[val]++
		}
	}
	return counts
}

// ============================================================================
// SORTING
// ============================================================================

// SortRows sorts aggregate rows in place by the given mode. Stable.
func SortRows(rows []AggregateRow, mode, measure string) {
	switch mode {
	case SortValueDesc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value(measure) > rows[j].Value(measure) })
	case SortValueAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value(measure) < rows[j].Value(measure) })
	case SortChronological:
		sort.SliceStable(rows, func(i, j int) bool { return ParseMonthOrder(rows[i].Key) < ParseMonthOrder(rows[j].Key) })
	case SortLabelAsc:
		sort.SliceStable(rows, func(i, j int) bool { return strings.ToLower(rows[i].Key) < strings.ToLower(rows[j].Key) })
	default:
		// preserve grouping order
	}
}

// ParseMonthOrder converts "3/2025" to a sortable int (202503); 0 when the
// key is not a month label.
func ParseMonthOrder(monthStr string) int {
	t, err := time.Parse("1/2006", monthStr)
	if err != nil {
		return 0
	}
	return t.Year()*100 + int(t.Month())
}

// ============================================================================
// RATIOS & ROUNDING
// ============================================================================

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}

// percentage returns 100*num/den, or 0 when den is 0.
func percentage(num, den float64) float64 {
	return ratio(num, den) * 100
}

// growthPercent is (current - previous) / previous * 100, 0 from a zero base.
func growthPercent(current, previous float64) float64 {
	return percentage(current-previous, previous)
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	v = finite(v)
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return round2(v)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatLakh formats an amount in lakh with comma separators: "₹ 1,234.50 L".
func FormatLakh(amount float64) string {
	return "₹ " + FormatAmount(amount) + " L"
}

// FormatAmount formats a number with 2 decimals and comma separators.
func FormatAmount(amount float64) string {
	d := decimal.NewFromFloat(finite(amount)).Round(2)
	negative := d.IsNegative()
	if negative {
		d = d.Neg()
	}

	s := d.StringFixed(2)
	intStr, decStr, _ := strings.Cut(s, ".")
	if len(intStr) > 3 {
		var parts []string
		for len(intStr) > 3 {
			parts = append([]string{intStr[len(intStr)-3:]}, parts...)
			intStr = intStr[:len(intStr)-3]
		}
		parts = append([]string{intStr}, parts...)
		intStr = strings.Join(parts, ",")
	}

	result := intStr + "." + decStr
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", finite(v))
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// LabelForDimension returns a display label for a field key ("sales_rep" → "Sales Rep").
func LabelForDimension(key string) string {
	if key == "" {
		return ""
	}
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
