package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER -- single-value answers and plain-text reports
// ============================================================================

// BuildText computes one aggregate over the whole view.
func BuildText(spec QuerySpec, view RecordView, measure string) *TextData {
	if view.Len() == 0 {
		return &TextData{Value: "0", Measure: measure}
	}

	var value float64
	switch spec.Aggregation {
	case "sum":
		value = SumMeasure(view, measure)
	case "count":
		value = float64(view.Len())
	case "max":
		value = MaxMeasure(view, measure)
	case "min":
		value = MinMeasure(view, measure)
	default:
		value = AvgMeasure(view, measure)
	}

	return &TextData{
		Value:    formatValue(value, spec.Aggregation),
		RawValue: value,
		Measure:  measure,
		Count:    view.Len(),
	}
}

// BuildStatisticsText renders statistics as a short multi-line summary.
func BuildStatisticsText(stats StudentStatistics, count int) string {
	if count == 0 {
		return "No students to analyze."
	}

	outliers := "none"
	if len(stats.OutlierIDs) > 0 {
		ids := make([]string, len(stats.OutlierIDs))
		for i, id := range stats.OutlierIDs {
			ids[i] = fmt.Sprintf("%d", id)
		}
		outliers = strings.Join(ids, ", ")
	}

	return fmt.Sprintf(
		"Students: %s\nMean GPA: %.2f\nMedian GPA: %.2f\nStandard Deviation: %.2f\nAge-GPA Correlation: %.2f\nOutliers (Student IDs): %s",
		FormatInt(count), stats.MeanGPA, stats.MedianGPA, stats.StandardDeviation,
		stats.AgeGPACorrelation, outliers)
}

// BuildGradeReport renders one student's transcript.
func BuildGradeReport(s Student) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s (ID: %d)\n", s.Name, s.ID)
	fmt.Fprintf(&b, "Major: %s\n", s.Major)
	fmt.Fprintf(&b, "GPA: %.2f\n", s.GPA)
	b.WriteString("Courses:")
	for _, c := range s.Courses {
		fmt.Fprintf(&b, "\n  %s - %s: %.2f (%s)", c.Code, c.Name, c.Grade, c.Semester)
	}
	return b.String()
}
