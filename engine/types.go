package engine

import "time"

// ============================================================================
// SCHOLAR ENGINE TYPES
// ============================================================================
// Record model (Student, Course, Address), engine outputs (StudentStatistics,
// Group, Aggregate) and the QuerySpec contract consumed by Execute.
// ============================================================================

// ============================================================================
// RECORD MODEL
// ============================================================================

// Student is a single roster entry. Courses are owned by the student.
type Student struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Major          string    `json:"major"`
	GPA            float64   `json:"gpa"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
	Email          string    `json:"email"`
	Address        *Address  `json:"address,omitempty"`
	Courses        []Course  `json:"courses"`
}

// Course is one course taken by a student.
type Course struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Credits    int     `json:"credits"`
	Grade      float64 `json:"grade"`
	Semester   string  `json:"semester"`
	Instructor string  `json:"instructor"`
}

// Address is a plain postal address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// CourseRow is one (student, course) pair produced by FlattenCourses.
type CourseRow struct {
	Student Student
	Course  Course
}

// ============================================================================
// STATISTICS
// ============================================================================

// StudentStatistics holds descriptive statistics over a roster's GPAs.
// OutlierIDs follow the input order of the roster, not sorted order.
type StudentStatistics struct {
	MeanGPA           float64 `json:"meanGPA"`
	MedianGPA         float64 `json:"medianGPA"`
	StandardDeviation float64 `json:"standardDeviation"`
	AgeGPACorrelation float64 `json:"ageGPACorrelation"`
	OutlierIDs        []int   `json:"outlierIds"`
}

// ============================================================================
// GROUPING
// ============================================================================

// Aggregate is the per-key result of GroupAndAggregate.
type Aggregate[K comparable] struct {
	Key     K       `json:"key"`
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
}

// Groups is an ordered key -> aggregate mapping. Order is first-seen order.
type Groups[K comparable] []Aggregate[K]

// Lookup returns the aggregate for key.
func (g Groups[K]) Lookup(key K) (Aggregate[K], bool) {
	for _, a := range g {
		if a.Key == key {
			return a, true
		}
	}
	return Aggregate[K]{}, false
}

// Keys returns the group keys in iteration order.
func (g Groups[K]) Keys() []K {
	keys := make([]K, len(g))
	for i, a := range g {
		keys[i] = a.Key
	}
	return keys
}

// MajorSemester is the composite key used by CourseLoadBySemester.
type MajorSemester struct {
	Major    string `json:"major"`
	Semester string `json:"semester"`
}

// GPABands counts the students of one major per GPA band.
type GPABands struct {
	Major string `json:"major"`
	Low   int    `json:"low"`  // GPA < 3.5
	Mid   int    `json:"mid"`  // 3.5 <= GPA < 3.8
	High  int    `json:"high"` // GPA >= 3.8
}

// Group is a named-field grouping result produced by AggregateView.
// Builders convert these into ChartConfig, TableData, or TextData.
type Group struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Values []string   `json:"values"` // one value per groupBy field
	Value  float64    `json:"value"`
	Count  int        `json:"count"`
	View   RecordView `json:"-"` // records in this group (zero-copy)
}

// ============================================================================
// QUERYSPEC
// ============================================================================

// QuerySpec defines what Execute should compute.
type QuerySpec struct {
	Intent      string      `json:"intent"`             // "stats", "list", "table", "chart", "text"
	Where       []Condition `json:"where,omitempty"`    // AND-combined predicates
	AgeRange    *AgeRange   `json:"ageRange,omitempty"` // inclusive, unvalidated
	Filters     Filters     `json:"filters"`            // dimension allowed-values
	Flatten     bool        `json:"flatten"`            // one row per (student, course)
	GroupBy     []string    `json:"groupBy"`            // dimension names
	Measure     string      `json:"measure"`            // empty -> default measure
	Aggregation string      `json:"aggregation"`        // "sum", "count", "avg", "max", "min"
	SortBy      string      `json:"sortBy"`             // "value_desc", "value_asc", "label_asc", "label_desc"
	Limit       int         `json:"limit"`              // 0 = all
	Title       string      `json:"title"`
}

// Condition is a (field, operator, value) triple for BuildPredicate.
type Condition struct {
	Field    string  `json:"field"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
}

// AgeRange bounds students by age, both ends inclusive.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// RESULT
// ============================================================================

// Result is the render-ready output of Execute.
type Result struct {
	Type    string `json:"type"` // "stats", "chart", "table", "text"
	Title   string `json:"title"`
	Summary string `json:"summary"`

	// Exactly one of these is populated based on Type:
	Statistics  *StudentStatistics `json:"statistics,omitempty"`
	ChartConfig *ChartConfig       `json:"chartConfig,omitempty"`
	TableData   *TableData         `json:"tableData,omitempty"`
	TextData    *TextData          `json:"textData,omitempty"`

	Matched int        `json:"matched"` // records left after filtering
	Query   *QuerySpec `json:"query,omitempty"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	return headers
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is structured data for single-value answers.
type TextData struct {
	Value    string  `json:"value"`
	RawValue float64 `json:"rawValue"`
	Measure  string  `json:"measure"`
	Count    int     `json:"count"`
}
