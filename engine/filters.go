package engine

import (
	"strings"
)

// ============================================================================
// FILTERS -- Dimension allowed-value filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per record in one loop.
// Returns a SubView (index list into parent); zero data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined and
// compared case-insensitively. Empty filter = no restriction.
// Filtering on a dimension the view does not have fails with ErrUnknownField.
func ApplyFilters(view RecordView, filters Filters) (RecordView, error) {
	if filters.IsEmpty() {
		return view, nil
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if !filters.HasFilter(dim) {
			continue
		}
		if !hasKey(view.DimensionKeys(), dim) {
			return nil, &FieldError{Field: dim, Kind: "dimension"}
		}
		sets[dim] = toLowerSet(allowed)
	}

	// Single pass; record passes if it matches ALL dimension filters
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[strings.ToLower(view.Dimension(i, dim))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices), nil
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
