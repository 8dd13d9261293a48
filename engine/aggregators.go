package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS -- Grouping, Aggregation, and Sorting
// ============================================================================
// Two entry points share one ordering contract: groups come out in the order
// their key is first seen in the (possibly flattened) input.
//
//   GroupAndAggregate  -- typed: key/value selectors over any slice
//   AggregateView      -- named: dimension/measure names over a RecordView
// ============================================================================

// GroupAndAggregate groups items by key (exact equality) and computes count,
// sum and average of value per group.
func GroupAndAggregate[T any, K comparable](items []T, key func(T) K, value func(T) float64) Groups[K] {
	index := make(map[K]int)
	groups := Groups[K]{}

	for _, item := range items {
		k := key(item)
		i, exists := index[k]
		if !exists {
			i = len(groups)
			index[k] = i
			groups = append(groups, Aggregate[K]{Key: k})
		}
		groups[i].Count++
		groups[i].Sum += value(item)
	}

	for i := range groups {
		groups[i].Average = groups[i].Sum / float64(groups[i].Count)
	}
	return groups
}

// FlattenCourses expands each student into one row per course, in roster
// order then course order. Students without courses contribute no rows.
func FlattenCourses(students []Student) []CourseRow {
	rows := make([]CourseRow, 0, len(students)*2)
	for _, s := range students {
		for _, c := range s.Courses {
			rows = append(rows, CourseRow{Student: s, Course: c})
		}
	}
	return rows
}

// ============================================================================
// ROSTER AGGREGATES
// ============================================================================

// AverageGPAByMajor returns one entry per distinct major with its mean GPA.
func AverageGPAByMajor(students []Student) Groups[string] {
	return GroupAndAggregate(students,
		func(s Student) string { return s.Major },
		func(s Student) float64 { return s.GPA })
}

// CountByCity groups students by address city. Students without an
// address fall into the "" group.
func CountByCity(students []Student) Groups[string] {
	return GroupAndAggregate(students,
		func(s Student) string { return addressOf(s).City },
		func(s Student) float64 { return 1 })
}

// CourseLoadBySemester counts course enrollments per {major, semester}.
// Average is the mean course grade of the group.
func CourseLoadBySemester(students []Student) Groups[MajorSemester] {
	return GroupAndAggregate(FlattenCourses(students),
		func(r CourseRow) MajorSemester {
			return MajorSemester{Major: r.Student.Major, Semester: r.Course.Semester}
		},
		func(r CourseRow) float64 { return r.Course.Grade })
}

// GradesByInstructor groups courses by instructor with mean grade and count.
func GradesByInstructor(students []Student) Groups[string] {
	return GroupAndAggregate(FlattenCourses(students),
		func(r CourseRow) string { return r.Course.Instructor },
		func(r CourseRow) float64 { return r.Course.Grade })
}

// GPADistributionByMajor pivots students into Low (<3.5), Mid (3.5-3.8)
// and High (>=3.8) GPA bands per major.
func GPADistributionByMajor(students []Student) []GPABands {
	index := make(map[string]int)
	var bands []GPABands
	for _, s := range students {
		i, ok := index[s.Major]
		if !ok {
			i = len(bands)
			index[s.Major] = i
			bands = append(bands, GPABands{Major: s.Major})
		}
		switch {
		case s.GPA < 3.5:
			bands[i].Low++
		case s.GPA < 3.8:
			bands[i].Mid++
		default:
			bands[i].High++
		}
	}
	return bands
}

// ============================================================================
// NAMED-FIELD PIPELINE
// ============================================================================

// aggregations accepted by AggregateView.
var aggregations = map[string]bool{
	"sum": true, "count": true, "avg": true, "max": true, "min": true,
}

// AggregateView is the named-field pipeline: group -> aggregate -> sort -> limit.
// groupBy names dimensions of the view; an empty groupBy yields one "Total" group.
// Multiple names form a composite key compared field by field.
func AggregateView(view RecordView, groupBy []string, measure, aggregation, sortBy string, limit int) ([]Group, error) {
	if aggregation == "" {
		aggregation = "avg"
	}
	if !aggregations[aggregation] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAggregation, aggregation)
	}
	for _, dim := range groupBy {
		if !hasKey(view.DimensionKeys(), dim) {
			return nil, &FieldError{Field: dim, Kind: "dimension"}
		}
	}
	if aggregation != "count" && !hasKey(view.MeasureKeys(), measure) {
		return nil, &FieldError{Field: measure, Kind: "measure"}
	}

	if view.Len() == 0 {
		return []Group{}, nil
	}

	// 1. Group
	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{Key: "all", Label: "Total", View: view}}
	} else {
		groups = groupByFields(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

// compositeKey encodes a tuple as length-prefixed parts, so two tuples share
// a key only when every part is equal.
func compositeKey(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

func groupByFields(view RecordView, dimensions []string) []Group {
	grouped := make(map[string][]int)
	values := make(map[string][]string)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		parts := make([]string, len(dimensions))
		for d, dim := range dimensions {
			parts[d] = view.Dimension(i, dim)
		}
		key := compositeKey(parts)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
			values[key] = parts
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:    key,
			Label:  strings.Join(values[key], " / "),
			Values: values[key],
			View:   newSubView(view, grouped[key]),
		})
	}
	return groups
}

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case "sum":
		group.Value = SumMeasure(group.View, measure)
	case "count":
		group.Value = float64(group.Count)
	case "avg":
		group.Value = AvgMeasure(group.View, measure)
	case "max":
		group.Value = MaxMeasure(group.View, measure)
	case "min":
		group.Value = MinMeasure(group.View, measure)
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes the average of a named measure.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	if view.Len() == 0 {
		return 0
	}
	m := math.Inf(-1)
	for i := 0; i < view.Len(); i++ {
		m = math.Max(m, view.Measure(i, measure))
	}
	return m
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	if view.Len() == 0 {
		return 0
	}
	m := math.Inf(1)
	for i := 0; i < view.Len(); i++ {
		m = math.Min(m, view.Measure(i, measure))
	}
	return m
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts groups by the specified sort mode. Unknown or empty modes
// keep first-seen order. Sorts are stable.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "label_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label) })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Label) > strings.ToLower(groups[j].Label) })
	default:
		// preserve grouping order
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

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

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case "sum":
		return "Total"
	case "count":
		return "Count"
	case "avg", "":
		return "Average"
	case "max":
		return "Maximum"
	case "min":
		return "Minimum"
	default:
		return "Value"
	}
}
