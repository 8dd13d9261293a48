package helpers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/scholar/engine"
)

// ============================================================================
// ROSTER DECODING -- tabular rows -> []engine.Student
// ============================================================================
// One row per (student, course). Rows sharing an id merge into one Student in
// first-seen order; the first row of an id supplies the student columns and
// every row may add a course. Shared by the CSV and XLSX readers.
// ============================================================================

// RosterColumns lists the recognised header names in export order.
var RosterColumns = []string{
	"id", "name", "age", "major", "gpa", "enrollment_date", "email",
	"street", "city", "state", "zip_code",
	"course_code", "course_name", "credits", "grade", "semester", "instructor",
}

// DateLayout is the enrollment_date format.
const DateLayout = "2006-01-02"

// ErrMissingColumn is returned when the header lacks the id column.
var ErrMissingColumn = errors.New("missing column")

type rosterDecoder struct {
	cols     map[string]int
	students []engine.Student
	byID     map[int]int
}

func newRosterDecoder(header []string) (*rosterDecoder, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := toSnakeCase(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("%w: id", ErrMissingColumn)
	}
	return &rosterDecoder{
		cols:     cols,
		students: []engine.Student{},
		byID:     make(map[int]int),
	}, nil
}

// cell returns the trimmed value of a named column; absent columns and
// short rows read as "".
func (d *rosterDecoder) cell(row []string, name string) string {
	i, ok := d.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// add decodes one data row. line is 1-based and only used in errors.
func (d *rosterDecoder) add(line int, row []string) error {
	if blankRow(row) {
		return nil
	}

	idText := d.cell(row, "id")
	id, err := strconv.Atoi(idText)
	if err != nil {
		return fmt.Errorf("line %d: id %q: %w", line, idText, err)
	}

	i, seen := d.byID[id]
	if !seen {
		s, err := d.student(id, row)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		i = len(d.students)
		d.byID[id] = i
		d.students = append(d.students, s)
	}

	course, ok, err := d.course(row)
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	if ok {
		d.students[i].Courses = append(d.students[i].Courses, course)
	}
	return nil
}

func (d *rosterDecoder) student(id int, row []string) (engine.Student, error) {
	s := engine.Student{
		ID:      id,
		Name:    d.cell(row, "name"),
		Major:   d.cell(row, "major"),
		Email:   d.cell(row, "email"),
		Courses: []engine.Course{},
	}

	var err error
	if s.Age, err = parseInt(d.cell(row, "age")); err != nil {
		return s, fmt.Errorf("age: %w", err)
	}
	if s.GPA, err = parseFloat(d.cell(row, "gpa")); err != nil {
		return s, fmt.Errorf("gpa: %w", err)
	}
	if v := d.cell(row, "enrollment_date"); v != "" {
		if s.EnrollmentDate, err = time.Parse(DateLayout, v); err != nil {
			return s, fmt.Errorf("enrollment_date: %w", err)
		}
	}

	addr := engine.Address{
		Street:  d.cell(row, "street"),
		City:    d.cell(row, "city"),
		State:   d.cell(row, "state"),
		ZipCode: d.cell(row, "zip_code"),
	}
	if addr != (engine.Address{}) {
		s.Address = &addr
	}
	return s, nil
}

// course decodes the course columns; ok is false when course_code is blank.
func (d *rosterDecoder) course(row []string) (engine.Course, bool, error) {
	code := d.cell(row, "course_code")
	if code == "" {
		return engine.Course{}, false, nil
	}
	c := engine.Course{
		Code:       code,
		Name:       d.cell(row, "course_name"),
		Semester:   d.cell(row, "semester"),
		Instructor: d.cell(row, "instructor"),
	}

	var err error
	if c.Credits, err = parseInt(d.cell(row, "credits")); err != nil {
		return c, false, fmt.Errorf("credits: %w", err)
	}
	if c.Grade, err = parseFloat(d.cell(row, "grade")); err != nil {
		return c, false, fmt.Errorf("grade: %w", err)
	}
	return c, true, nil
}

// parseInt reads a blank value as 0.
func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// parseFloat reads a blank value as 0.
func parseFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// rosterRows is the inverse of decoding: one row per course, or one row
// with blank course columns for a student without courses.
func rosterRows(students []engine.Student) [][]string {
	rows := make([][]string, 0, len(students)*2)
	for _, s := range students {
		base := []string{
			strconv.Itoa(s.ID), s.Name, strconv.Itoa(s.Age), s.Major,
			strconv.FormatFloat(s.GPA, 'f', -1, 64), formatDate(s.EnrollmentDate), s.Email,
		}
		if s.Address != nil {
			base = append(base, s.Address.Street, s.Address.City, s.Address.State, s.Address.ZipCode)
		} else {
			base = append(base, "", "", "", "")
		}

		if len(s.Courses) == 0 {
			rows = append(rows, append(base, "", "", "", "", "", ""))
			continue
		}
		for _, c := range s.Courses {
			row := append(append([]string(nil), base...),
				c.Code, c.Name, strconv.Itoa(c.Credits),
				strconv.FormatFloat(c.Grade, 'f', -1, 64), c.Semester, c.Instructor)
			rows = append(rows, row)
		}
	}
	return rows
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// toSnakeCase converts "Course Code" -> "course_code".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
