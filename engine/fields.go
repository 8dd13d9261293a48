package engine

import (
	"strconv"
	"strings"
)

// ============================================================================
// FIELD REGISTRY -- name -> accessor, registered once
// ============================================================================
//
// Usage:
//
//	reg := engine.NewFieldRegistry[Student]().
//	    Dimension("Major", func(s Student) string { return s.Major }).
//	    Measure("GPA", func(s Student) float64 { return s.GPA })
//
//	gpa, err := reg.Resolve("GPA")
//	view := reg.Bind(students)
//
// Lookups are exact, case-sensitive matches. Registering a name twice
// replaces the accessor and keeps the original position.
// ============================================================================

// FieldRegistry maps field names to accessors over T.
// Declare once, resolve and bind many times.
type FieldRegistry[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewFieldRegistry creates an empty registry for type T.
func NewFieldRegistry[T any]() *FieldRegistry[T] {
	return &FieldRegistry[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a string accessor used for grouping and filtering.
func (r *FieldRegistry[T]) Dimension(name string, fn func(T) string) *FieldRegistry[T] {
	if _, exists := r.dims[name]; !exists {
		r.dimOrder = append(r.dimOrder, name)
	}
	r.dims[name] = fn
	return r
}

// Measure registers a numeric accessor used by predicates and aggregation.
func (r *FieldRegistry[T]) Measure(name string, fn func(T) float64) *FieldRegistry[T] {
	if _, exists := r.meas[name]; !exists {
		r.mesOrder = append(r.mesOrder, name)
	}
	r.meas[name] = fn
	return r
}

// Resolve returns the numeric accessor registered under name.
func (r *FieldRegistry[T]) Resolve(name string) (func(T) float64, error) {
	fn, ok := r.meas[name]
	if !ok {
		return nil, &FieldError{Field: name, Kind: "measure"}
	}
	return fn, nil
}

// ResolveDimension returns the string accessor registered under name.
func (r *FieldRegistry[T]) ResolveDimension(name string) (func(T) string, error) {
	fn, ok := r.dims[name]
	if !ok {
		return nil, &FieldError{Field: name, Kind: "dimension"}
	}
	return fn, nil
}

// MeasureNames returns measure names in registration order.
func (r *FieldRegistry[T]) MeasureNames() []string {
	return append([]string(nil), r.mesOrder...)
}

// DimensionNames returns dimension names in registration order.
func (r *FieldRegistry[T]) DimensionNames() []string {
	return append([]string(nil), r.dimOrder...)
}

// Bind creates a read-only RecordView over data. Zero-copy; holds a reference.
func (r *FieldRegistry[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     r.dims,
		meas:     r.meas,
		dimKeys:  r.dimOrder,
		measKeys: r.mesOrder,
	}
}

// ============================================================================
// BUILT-IN REGISTRIES
// ============================================================================

var (
	studentFields   = newStudentFields()
	courseRowFields = newCourseRowFields()
)

// StudentFields returns the registry of Student fields.
// Measures: Id, Age, GPA, CourseCount, Credits.
// Dimensions: Name, Major, Email, Street, City, State, ZipCode, EnrollmentYear.
func StudentFields() *FieldRegistry[Student] { return studentFields }

// CourseRowFields returns the registry of flattened (student, course) fields.
// Measures: Grade, Credits, GPA, Age, StudentId.
// Dimensions: Major, Semester, Instructor, Code, Course, Student, City.
func CourseRowFields() *FieldRegistry[CourseRow] { return courseRowFields }

func newStudentFields() *FieldRegistry[Student] {
	return NewFieldRegistry[Student]().
		Measure("Id", func(s Student) float64 { return float64(s.ID) }).
		Measure("Age", func(s Student) float64 { return float64(s.Age) }).
		Measure("GPA", func(s Student) float64 { return s.GPA }).
		Measure("CourseCount", func(s Student) float64 { return float64(len(s.Courses)) }).
		Measure("Credits", func(s Student) float64 { return float64(totalCredits(s)) }).
		Dimension("Name", func(s Student) string { return s.Name }).
		Dimension("Major", func(s Student) string { return s.Major }).
		Dimension("Email", func(s Student) string { return s.Email }).
		Dimension("Street", func(s Student) string { return addressOf(s).Street }).
		Dimension("City", func(s Student) string { return addressOf(s).City }).
		Dimension("State", func(s Student) string { return addressOf(s).State }).
		Dimension("ZipCode", func(s Student) string { return addressOf(s).ZipCode }).
		Dimension("EnrollmentYear", enrollmentYear)
}

func newCourseRowFields() *FieldRegistry[CourseRow] {
	return NewFieldRegistry[CourseRow]().
		Measure("Grade", func(r CourseRow) float64 { return r.Course.Grade }).
		Measure("Credits", func(r CourseRow) float64 { return float64(r.Course.Credits) }).
		Measure("GPA", func(r CourseRow) float64 { return r.Student.GPA }).
		Measure("Age", func(r CourseRow) float64 { return float64(r.Student.Age) }).
		Measure("StudentId", func(r CourseRow) float64 { return float64(r.Student.ID) }).
		Dimension("Major", func(r CourseRow) string { return r.Student.Major }).
		Dimension("Semester", func(r CourseRow) string { return r.Course.Semester }).
		Dimension("Instructor", func(r CourseRow) string { return r.Course.Instructor }).
		Dimension("Code", func(r CourseRow) string { return r.Course.Code }).
		Dimension("Course", func(r CourseRow) string { return r.Course.Name }).
		Dimension("Student", func(r CourseRow) string { return r.Student.Name }).
		Dimension("City", func(r CourseRow) string { return addressOf(r.Student).City })
}

var noAddress Address

// addressOf returns the student's address, or an empty one when unset.
func addressOf(s Student) *Address {
	if s.Address == nil {
		return &noAddress
	}
	return s.Address
}

func totalCredits(s Student) int {
	total := 0
	for _, c := range s.Courses {
		total += c.Credits
	}
	return total
}

func enrollmentYear(s Student) string {
	if s.EnrollmentDate.IsZero() {
		return ""
	}
	return strconv.Itoa(s.EnrollmentDate.Year())
}

// LabelForField turns a registered field name into a column label.
// "EnrollmentYear" -> "Enrollment Year", "GPA" -> "GPA".
func LabelForField(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && isUpper(r) && !isUpper(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	label := b.String()
	return strings.ToUpper(label[:1]) + label[1:]
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
