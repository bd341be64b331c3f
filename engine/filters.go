package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// FILTERS — Generic Dimension-Based Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per record in one loop.
// Returns a SubView (index list into parent), zero data copy.
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
//
//	Filters{Dimensions: {"region": ["North"], "customer_category": ["Retail", "Wholesale"]}}
type Filters struct {
	Dimensions map[string][]string `json:"dimensions,omitempty" msgpack:"dimensions"`
}

// IsEmpty returns true if no dimension has allowed values.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	return len(f.Dimensions[dimension]) > 0
}

// Add returns a copy of the filters with values allowed for dimension.
// The receiver is left untouched.
func (f Filters) Add(dimension string, values ...string) Filters {
	dims := make(map[string][]string, len(f.Dimensions)+1)
	for dim, vals := range f.Dimensions {
		dims[dim] = append([]string(nil), vals...)
	}
	dims[dimension] = append(dims[dimension], values...)
	return Filters{Dimensions: dims}
}

// Label creates a human-readable label: "region=North; sales_rep=A, B".
// Dimensions are listed alphabetically.
func (f Filters) Label() string {
	if f.IsEmpty() {
		return "All records"
	}
	dims := make([]string, 0, len(f.Dimensions))
	for dim, vals := range f.Dimensions {
		if len(vals) > 0 {
			dims = append(dims, dim)
		}
	}
	sort.Strings(dims)

	parts := make([]string, 0, len(dims))
	for _, dim := range dims {
		parts = append(parts, dim+"="+strings.Join(f.Dimensions[dim], ", "))
	}
	return strings.Join(parts, "; ")
}

// ApplyFilters returns a view of records matching all dimension filters.
// Matching is case-insensitive.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	return FilterView(view, func(v RecordView, i int) bool {
		for dim, set := range sets {
			if !set[strings.ToLower(v.Dimension(i, dim))] {
				return false
			}
		}
		return true
	})
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = true
	}
	return set
}
