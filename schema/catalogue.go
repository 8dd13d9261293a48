package schema

import (
	"github.com/spektr-org/scholar/engine"
)

// ============================================================================
// CATALOGUE -- registry-backed schemas
// ============================================================================
// Pipeline:
//   1. FromRegistry: one DimensionMeta / MeasureMeta per registered name,
//      in registration order, with units and descriptions for known fields
//   2. Describe: sample values + cardinality hints from a bound view
// ============================================================================

// maxSamples caps SampleValues per dimension.
const maxSamples = 10

var measureUnits = map[string]string{
	"GPA":         "points",
	"Grade":       "points",
	"Age":         "years",
	"Credits":     "credits",
	"CourseCount": "courses",
	"Id":          "id",
	"StudentId":   "id",
}

var fieldDescriptions = map[string]string{
	"GPA":            "Grade point average on a 4.0 scale",
	"Grade":          "Grade earned in one course",
	"Age":            "Age in whole years",
	"Credits":        "Credit hours",
	"CourseCount":    "Number of courses taken",
	"EnrollmentYear": "Calendar year of enrollment",
	"Semester":       "Term the course was taken, e.g. Fall 2022",
}

// temporal dimensions keep their natural order when charted.
var temporalDimensions = map[string]bool{
	"EnrollmentYear": true,
	"Semester":       true,
}

// FromRegistry builds a schema listing every field of reg.
func FromRegistry[T any](name string, reg *engine.FieldRegistry[T]) Config {
	cfg := Config{
		Name:       name,
		Dimensions: make([]DimensionMeta, 0, len(reg.DimensionNames())),
		Measures:   make([]MeasureMeta, 0, len(reg.MeasureNames())),
	}

	for _, key := range reg.DimensionNames() {
		d := DefaultDimension(key, engine.LabelForField(key))
		d.Description = fieldDescriptions[key]
		d.IsTemporal = temporalDimensions[key]
		cfg.Dimensions = append(cfg.Dimensions, d)
	}

	for _, key := range reg.MeasureNames() {
		m := DefaultMeasure(key, engine.LabelForField(key))
		m.Description = fieldDescriptions[key]
		m.Unit = measureUnits[key]
		if m.Unit == "id" {
			// identifiers are counted, never averaged
			m.Aggregations = []string{"count"}
			m.DefaultAggregation = "count"
		}
		cfg.Measures = append(cfg.Measures, m)
	}
	return cfg
}

// Students is the catalogue of engine.StudentFields.
func Students() Config {
	cfg := FromRegistry("students", engine.StudentFields())
	cfg.Description = "One record per student"
	return cfg
}

// CourseRows is the catalogue of engine.CourseRowFields.
func CourseRows() Config {
	cfg := FromRegistry("course_rows", engine.CourseRowFields())
	cfg.Description = "One record per (student, course) enrollment"
	return cfg
}

// Describe returns a copy of cfg with sample values and cardinality hints
// taken from view. Empty values are not sampled. cfg is not mutated.
func Describe(cfg Config, view engine.RecordView) Config {
	out := cfg
	out.RecordCount = view.Len()
	out.Dimensions = make([]DimensionMeta, len(cfg.Dimensions))

	for i, d := range cfg.Dimensions {
		samples, unique := sampleDimension(view, d.Key)
		d.SampleValues = samples
		d.CardinalityHint = cardinalityHint(unique)
		out.Dimensions[i] = d
	}
	out.Measures = append([]MeasureMeta(nil), cfg.Measures...)
	return out
}

// sampleDimension returns up to maxSamples distinct values in first-seen
// order, and the total number of distinct non-empty values.
func sampleDimension(view engine.RecordView, key string) ([]string, int) {
	seen := make(map[string]bool)
	samples := []string{}
	for i := 0; i < view.Len(); i++ {
		v := view.Dimension(i, key)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		if len(samples) < maxSamples {
			samples = append(samples, v)
		}
	}
	return samples, len(seen)
}

func cardinalityHint(unique int) string {
	switch {
	case unique <= 10:
		return "low"
	case unique <= 100:
		return "medium"
	default:
		return "high"
	}
}
