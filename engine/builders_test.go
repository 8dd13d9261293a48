package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGradeReport(t *testing.T) {
	report := BuildGradeReport(roster()[0])

	want := "Student: Alice Johnson (ID: 1)\n" +
		"Major: Computer Science\n" +
		"GPA: 3.80\n" +
		"Courses:\n" +
		"  CS101 - Intro to Programming: 3.70 (Fall 2022)\n" +
		"  MATH201 - Calculus II: 3.90 (Fall 2022)"
	assert.Equal(t, want, report)

	assert.Equal(t, "Student: New (ID: 9)\nMajor: \nGPA: 0.00\nCourses:", BuildGradeReport(Student{ID: 9, Name: "New"}))
}

func TestBuildStatisticsText(t *testing.T) {
	assert.Equal(t, "No students to analyze.", BuildStatisticsText(StudentStatistics{OutlierIDs: []int{}}, 0))

	text := BuildStatisticsText(StudentStatistics{
		MeanGPA:           3.2,
		MedianGPA:         3.25,
		StandardDeviation: 0.4,
		AgeGPACorrelation: -0.5,
		OutlierIDs:        []int{4, 7},
	}, 1200)

	assert.Contains(t, text, "Students: 1,200\n")
	assert.Contains(t, text, "Mean GPA: 3.20\n")
	assert.Contains(t, text, "Age-GPA Correlation: -0.50\n")
	assert.Contains(t, text, "Outliers (Student IDs): 4, 7")
}

func TestBuildGroupsTable(t *testing.T) {
	table := BuildGroupsTable("Course load", CourseLoadBySemester(roster()),
		[]string{"Major", "Semester"}, "Average Grade",
		func(k MajorSemester) []string { return []string{k.Major, k.Semester} })

	assert.Equal(t, []string{"Major", "Semester", "Count", "Average Grade"}, table.Headers())
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Computer Science", "Fall 2022", "2", "3.80"}, table.Rows[0])
	assert.Equal(t, []string{"Mathematics", "Spring 2023", "2", "3.20"}, table.Rows[1])
}

func TestBuildBandsTable(t *testing.T) {
	table := BuildBandsTable("GPA bands", GPADistributionByMajor(roster()))

	assert.Equal(t, []string{"Major", "Low (<3.5)", "Mid (3.5-3.8)", "High (>=3.8)"}, table.Headers())
	assert.Equal(t, [][]string{
		{"Computer Science", "0", "0", "2"},
		{"Mathematics", "1", "0", "0"},
	}, table.Rows)
}

func TestBuildListTable(t *testing.T) {
	table := BuildListTable("Roster", StudentFields().Bind(roster()))

	dims := len(StudentFields().DimensionNames())
	measures := len(StudentFields().MeasureNames())
	require.Len(t, table.Columns, dims+measures)
	assert.Equal(t, "Enrollment Year", table.Columns[dims-1].Label)
	assert.Equal(t, "number", table.Columns[dims].Type)

	require.Len(t, table.Rows, 3)
	row := table.Rows[0]
	assert.Equal(t, "Alice Johnson", row[0])
	assert.Equal(t, "2022", row[dims-1])
	// measures follow dimensions: Id, Age, GPA, CourseCount, Credits
	assert.Equal(t, "1", row[dims])
	assert.Equal(t, "3.80", row[dims+2])
	assert.Equal(t, "7", row[dims+measures-1])
	assert.Equal(t, "Total (3 records)", table.Summary.Label)
}

func TestBuildTableEmpty(t *testing.T) {
	table := BuildTable(QuerySpec{Title: "none"}, nil, "GPA")

	assert.Equal(t, "none", table.Title)
	assert.Empty(t, table.Columns)
	assert.NotNil(t, table.Rows)
}

func TestBuildChartSingleSeries(t *testing.T) {
	assert.Nil(t, BuildChart(QuerySpec{}, nil))

	groups, err := AggregateView(StudentFields().Bind(roster()), []string{"Major"}, "GPA", "avg", "", 0)
	require.NoError(t, err)

	chart := BuildChart(QuerySpec{GroupBy: []string{"Major"}}, groups)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, "Value", chart.Series[0].Name)
	assert.Equal(t, "bar", chart.ChartType)
	assert.Equal(t, []ChartPoint{
		{Label: "Computer Science", Value: 3.85},
		{Label: "Mathematics", Value: 3.2},
	}, chart.Series[0].Data)
}

func TestBuildChartColorsWrap(t *testing.T) {
	groups := make([]Group, 0, 12)
	for i := 0; i < 12; i++ {
		groups = append(groups, Group{
			Label:  fmt.Sprintf("g%d", i),
			Values: []string{"x", fmt.Sprintf("s%d", i)},
			Value:  float64(i),
		})
	}

	chart := BuildChart(QuerySpec{GroupBy: []string{"A", "B"}}, groups)
	require.Len(t, chart.Colors, 12)
	assert.Equal(t, chart.Colors[0], chart.Colors[10])
}

func TestBuildTextEmptyView(t *testing.T) {
	text := BuildText(QuerySpec{}, StudentFields().Bind(nil), "GPA")
	assert.Equal(t, "0", text.Value)
	assert.Equal(t, 0, text.Count)
}
