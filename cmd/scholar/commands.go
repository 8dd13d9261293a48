package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/scholar/engine"
	"github.com/spektr-org/scholar/helpers"
	"github.com/spektr-org/scholar/schema"
)

// ageRange reads --min-age/--max-age; nil when neither was given.
// A missing bound is open.
func ageRange(cmd *cobra.Command, minAge, maxAge int) *engine.AgeRange {
	minSet := cmd.Flags().Changed("min-age")
	maxSet := cmd.Flags().Changed("max-age")
	if !minSet && !maxSet {
		return nil
	}
	r := &engine.AgeRange{Min: 0, Max: math.MaxInt}
	if minSet {
		r.Min = minAge
	}
	if maxSet {
		r.Max = maxAge
	}
	return r
}

func addAgeFlags(cmd *cobra.Command, minAge, maxAge *int) {
	cmd.Flags().IntVar(minAge, "min-age", 0, "Minimum age, inclusive")
	cmd.Flags().IntVar(maxAge, "max-age", 0, "Maximum age, inclusive")
}

// ============================================================================
// stats
// ============================================================================

func newStatsCmd(a *app) *cobra.Command {
	var minAge, maxAge int
	var majors []string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "GPA mean, median, standard deviation, age/GPA correlation and outliers",
		Long: `Compute descriptive GPA statistics for the roster.

Standard deviation is the population form. Outliers lie strictly outside
[Q1 - 1.5*IQR, Q3 + 1.5*IQR] and are listed in roster order.

Example: scholar stats --major "Computer Science" --min-age 19`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := engine.QuerySpec{
				Intent:   "stats",
				Title:    "GPA statistics",
				AgeRange: ageRange(cmd, minAge, maxAge),
			}
			if len(majors) > 0 {
				spec.Filters.Dimensions = map[string][]string{"Major": majors}
			}

			result, err := engine.Execute(spec, a.students, a.engineOptions()...)
			if err != nil {
				return err
			}
			return a.emit(cmd, resultReport(result))
		},
	}

	addAgeFlags(cmd, &minAge, &maxAge)
	cmd.Flags().StringSliceVar(&majors, "major", nil, "Only these majors (case-insensitive, repeatable)")
	return cmd
}

// ============================================================================
// filter
// ============================================================================

func newFilterCmd(a *app) *cobra.Command {
	var (
		field, op      string
		value          float64
		minAge, maxAge int
		coursePrefix   string
		sortBy         string
		descending     bool
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List students matching a runtime-built predicate",
		Long: `Build a predicate from --field, --op and --value and list matching students.

Fields: ` + strings.Join(engine.StudentFields().MeasureNames(), ", ") + `
Operators: >, <, = (equality is exact)

Example: scholar filter --field GPA --op ">" --value 3.5 --sort-by Age`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preds := []engine.Predicate[engine.Student]{}
			if field != "" {
				p, err := engine.BuildPredicate(field, op, value)
				if err != nil {
					return err
				}
				preds = append(preds, p)
			}
			if coursePrefix != "" {
				preds = append(preds, engine.WithCoursePrefix(coursePrefix))
			}

			matched := slices.Collect(engine.Where(a.students, engine.And(preds...)))
			if r := ageRange(cmd, minAge, maxAge); r != nil {
				matched = slices.Collect(engine.FilterByAgeRange(matched, r.Min, r.Max))
			}
			if sortBy != "" {
				var err error
				if matched, err = engine.OrderBy(matched, sortBy, descending); err != nil {
					return err
				}
			}

			a.log.Debug("students filtered",
				zap.String("field", field),
				zap.String("op", op),
				zap.Float64("value", value),
				zap.Int("matched", len(matched)))

			table := engine.BuildListTable("Matching students", engine.StudentFields().Bind(matched))
			return a.emit(cmd, report{
				Text:   studentLines(matched),
				Value:  matched,
				Tables: []*engine.TableData{table},
			})
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "Numeric field to compare")
	cmd.Flags().StringVar(&op, "op", ">", "Operator: >, < or =")
	cmd.Flags().Float64Var(&value, "value", 0, "Threshold")
	addAgeFlags(cmd, &minAge, &maxAge)
	cmd.Flags().StringVar(&coursePrefix, "course-prefix", "", "Only students taking a course whose code starts with this")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Order by a numeric field")
	cmd.Flags().BoolVar(&descending, "desc", false, "Sort descending")
	return cmd
}

func studentLines(students []engine.Student) string {
	if len(students) == 0 {
		return "No students match."
	}
	var b strings.Builder
	for _, s := range students {
		fmt.Fprintf(&b, "%d  %s (%s, age %d)  GPA %.2f\n", s.ID, s.Name, s.Major, s.Age, s.GPA)
	}
	return b.String()
}

// ============================================================================
// group
// ============================================================================

func newGroupCmd(a *app) *cobra.Command {
	var (
		by          []string
		flatten     bool
		measure     string
		aggregation string
		sortBy      string
		limit       int
		chart       bool
	)

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group students (or their courses) and aggregate a measure",
		Long: `Group by one or more dimensions and aggregate a measure per group.
Groups keep the order in which their key first appears unless --sort is given.

With --flatten each (student, course) pair is one row, so course fields such
as Semester, Instructor and Grade become available.

Examples:
  scholar group --by Major
  scholar group --flatten --by Major --by Semester --measure Grade --agg count
  scholar group --flatten --by Instructor --measure Grade --sort value_desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(by) == 0 {
				return errors.New("at least one --by dimension is required")
			}
			intent := "table"
			if chart {
				intent = "chart"
			}
			spec := engine.QuerySpec{
				Intent:      intent,
				Flatten:     flatten,
				GroupBy:     by,
				Measure:     measure,
				Aggregation: aggregation,
				SortBy:      sortBy,
				Limit:       limit,
				Title:       "By " + strings.Join(by, ", "),
			}

			result, err := engine.Execute(spec, a.students, a.engineOptions()...)
			if err != nil {
				return err
			}
			return a.emit(cmd, resultReport(result))
		},
	}

	cmd.Flags().StringSliceVar(&by, "by", nil, "Dimension(s) to group by (repeatable)")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "One row per (student, course)")
	cmd.Flags().StringVar(&measure, "measure", "", "Measure to aggregate (default from SCHOLAR_DEFAULT_MEASURE)")
	cmd.Flags().StringVar(&aggregation, "agg", "avg", "Aggregation: avg, sum, count, min, max")
	cmd.Flags().StringVar(&sortBy, "sort", "", "value_desc, value_asc, label_asc or label_desc")
	cmd.Flags().IntVar(&limit, "limit", 0, "Keep only the first N groups")
	cmd.Flags().BoolVar(&chart, "chart", false, "Produce chart series instead of a table")
	return cmd
}

// ============================================================================
// pivot
// ============================================================================

var pivotKinds = []string{"major", "bands", "semester", "instructor", "city"}

func newPivotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "pivot [" + strings.Join(pivotKinds, "|") + "]...",
		ValidArgs: pivotKinds,
		Short:     "Built-in roster pivots",
		Long: `Print one or more built-in pivots (all of them when none is named):

  major       average GPA per major
  bands       Low (<3.5), Mid (3.5-3.8) and High (>=3.8) GPA counts per major
  semester    course enrollments and mean grade per {major, semester}
  instructor  courses taught and mean grade per instructor
  city        students per city`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := args
			if len(kinds) == 0 {
				kinds = pivotKinds
			}
			tables := make([]*engine.TableData, 0, len(kinds))
			for _, kind := range kinds {
				t, err := pivotTable(kind, a.students)
				if err != nil {
					return err
				}
				tables = append(tables, t)
			}
			return a.emit(cmd, report{Value: tables, Tables: tables})
		},
	}
	return cmd
}

func pivotTable(kind string, students []engine.Student) (*engine.TableData, error) {
	single := func(k string) []string { return []string{k} }

	switch kind {
	case "major":
		return engine.BuildGroupsTable("Average GPA by major", engine.AverageGPAByMajor(students),
			[]string{"Major"}, "Average GPA", single), nil
	case "bands":
		return engine.BuildBandsTable("GPA distribution by major", engine.GPADistributionByMajor(students)), nil
	case "semester":
		return engine.BuildGroupsTable("Course load by semester", engine.CourseLoadBySemester(students),
			[]string{"Major", "Semester"}, "Average Grade",
			func(k engine.MajorSemester) []string { return []string{k.Major, k.Semester} }), nil
	case "instructor":
		return engine.BuildGroupsTable("Grades by instructor", engine.GradesByInstructor(students),
			[]string{"Instructor"}, "Average Grade", single), nil
	case "city":
		groups := engine.CountByCity(students)
		table := engine.BuildGroupsTable("Students by city", groups, []string{"City"}, "Share", single)
		// Average is always 1 for counts; show the share of the roster instead.
		for i, g := range groups {
			table.Rows[i][2] = fmt.Sprintf("%.0f%%", 100*float64(g.Count)/float64(len(students)))
		}
		return table, nil
	}
	return nil, fmt.Errorf("unknown pivot %q (want one of %s)", kind, strings.Join(pivotKinds, ", "))
}

// ============================================================================
// report
// ============================================================================

func newReportCmd(a *app) *cobra.Command {
	var id int
	var byEnrollment bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Per-student grade reports",
		Long: `Print the grade report of one student (--id) or of every student.

Example: scholar report --id 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students := a.students
			if byEnrollment {
				students = engine.SortByEnrollment(students)
			}
			if cmd.Flags().Changed("id") {
				pred, err := engine.BuildPredicate("Id", "=", float64(id))
				if err != nil {
					return err
				}
				students = slices.Collect(engine.Where(students, pred))
				if len(students) == 0 {
					return fmt.Errorf("no student with id %d", id)
				}
			}

			reports := make([]string, len(students))
			tables := make([]*engine.TableData, len(students))
			for i, s := range students {
				reports[i] = engine.BuildGradeReport(s)
				tables[i] = helpers.GradeReportTable(s)
			}
			return a.emit(cmd, report{
				Text:   strings.Join(reports, "\n\n"),
				Value:  students,
				Tables: tables,
			})
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Student id")
	cmd.Flags().BoolVar(&byEnrollment, "by-enrollment", false, "Order by enrollment date, oldest first")
	return cmd
}

// ============================================================================
// fields
// ============================================================================

func newFieldsCmd(a *app) *cobra.Command {
	var flatten bool

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the fields usable in filters, groups and queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg schema.Config
			if flatten {
				cfg = schema.Describe(schema.CourseRows(),
					engine.CourseRowFields().Bind(engine.FlattenCourses(a.students)))
			} else {
				cfg = schema.Describe(schema.Students(), engine.StudentFields().Bind(a.students))
			}
			tables := fieldTables(cfg)
			return a.emit(cmd, report{Value: cfg, Tables: tables})
		},
	}

	cmd.Flags().BoolVar(&flatten, "flatten", false, "Fields of (student, course) rows")
	return cmd
}

func fieldTables(cfg schema.Config) []*engine.TableData {
	dims := &engine.TableData{
		Title: "Dimensions (" + cfg.Name + ")",
		Columns: []engine.Column{
			{Key: "key", Label: "Field"}, {Key: "cardinality", Label: "Cardinality"}, {Key: "samples", Label: "Samples"},
		},
	}
	for _, d := range cfg.Dimensions {
		dims.Rows = append(dims.Rows, []string{d.Key, d.CardinalityHint, strings.Join(d.SampleValues, ", ")})
	}

	measures := &engine.TableData{
		Title: "Measures (" + cfg.Name + ")",
		Columns: []engine.Column{
			{Key: "key", Label: "Field"}, {Key: "unit", Label: "Unit"}, {Key: "aggregations", Label: "Aggregations"},
		},
	}
	for _, m := range cfg.Measures {
		measures.Rows = append(measures.Rows, []string{m.Key, m.Unit, strings.Join(m.Aggregations, ", ")})
	}
	return []*engine.TableData{dims, measures}
}

// ============================================================================
// query
// ============================================================================

func newQueryCmd(a *app) *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a JSON QuerySpec",
		Long: `Run a QuerySpec read from a JSON file ("-" for stdin).

Example spec:
  {
    "intent": "table",
    "where": [{"field": "GPA", "operator": ">", "value": 3.0}],
    "flatten": true,
    "groupBy": ["Instructor"],
    "measure": "Grade",
    "aggregation": "avg",
    "sortBy": "value_desc"
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := readSpec(cmd.InOrStdin(), specPath)
			if err != nil {
				return err
			}
			result, err := engine.Execute(spec, a.students, a.engineOptions()...)
			if err != nil {
				return err
			}
			return a.emit(cmd, resultReport(result))
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "QuerySpec JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

func readSpec(stdin io.Reader, path string) (engine.QuerySpec, error) {
	var spec engine.QuerySpec

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return spec, fmt.Errorf("failed to read spec: %w", err)
	}
	if err := sonic.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("failed to parse spec JSON: %w", err)
	}
	return spec, nil
}

// ============================================================================
// export
// ============================================================================

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the loaded roster as roster CSV (or JSON)",
		Long: `Write the loaded roster back out, one row per (student, course), in the
column layout --file reads. Converts an XLSX roster to CSV, or dumps the
built-in sample as a starting point. --format json/pretty writes students
as JSON; any other format writes CSV.

Example: scholar export --file roster.xlsx --out roster.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.write(cmd, func(w io.Writer) error {
				switch a.format {
				case "json", "pretty":
					return writeJSON(w, a.students, a.format == "pretty")
				default:
					return helpers.EncodeRosterCSV(w, a.students)
				}
			})
		},
	}
}
