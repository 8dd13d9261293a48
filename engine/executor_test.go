package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExecuteStats(t *testing.T) {
	result, err := Execute(QuerySpec{
		Intent: "stats",
		Where:  []Condition{{Field: "GPA", Operator: ">", Value: 3.5}},
	}, roster())
	require.NoError(t, err)

	assert.Equal(t, "stats", result.Type)
	assert.Equal(t, 2, result.Matched)
	require.NotNil(t, result.Statistics)
	assert.InDelta(t, 3.85, result.Statistics.MeanGPA, 1e-9)
	assert.InDelta(t, 0.05, result.Statistics.StandardDeviation, 1e-9)
	assert.Contains(t, result.Summary, "Students: 2")
}

func TestExecuteStatsWithDimensionFilter(t *testing.T) {
	result, err := Execute(QuerySpec{
		Intent:  "stats",
		Filters: Filters{Dimensions: map[string][]string{"Major": {"mathematics"}}},
	}, roster())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 3.2, result.Statistics.MeanGPA)
	assert.Equal(t, 0.0, result.Statistics.StandardDeviation)
	assert.Contains(t, result.Summary, "Outliers (Student IDs): none")
}

func TestExecuteStatsEmpty(t *testing.T) {
	result, err := Execute(QuerySpec{Intent: "stats", AgeRange: &AgeRange{Min: 30, Max: 40}}, roster())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Matched)
	assert.Equal(t, "No students to analyze.", result.Summary)
	assert.Equal(t, []int{}, result.Statistics.OutlierIDs)
}

func TestExecuteTable(t *testing.T) {
	result, err := Execute(QuerySpec{
		Intent:  "table",
		GroupBy: []string{"Major"},
		Title:   "GPA by major",
	}, roster())
	require.NoError(t, err)

	assert.Equal(t, "table", result.Type)
	require.NotNil(t, result.TableData)
	assert.Equal(t, "GPA by major", result.TableData.Title)
	assert.Equal(t, []string{"Major", "Average GPA", "Count"}, result.TableData.Headers())
	assert.Equal(t, [][]string{
		{"Computer Science", "3.85", "2"},
		{"Mathematics", "3.20", "1"},
	}, result.TableData.Rows)
	assert.Equal(t, "Total (2 groups)", result.TableData.Summary.Label)
	assert.Equal(t, "3", result.TableData.Summary.Values["count"])
	assert.Equal(t, "2 groups by Major; highest is Computer Science (3.85).", result.Summary)
}

func TestExecuteChartMultiSeries(t *testing.T) {
	result, err := Execute(QuerySpec{
		Intent:  "chart",
		Flatten: true,
		GroupBy: []string{"Major", "Semester"},
		Measure: "Grade",
	}, roster())
	require.NoError(t, err)

	assert.Equal(t, "chart", result.Type)
	chart := result.ChartConfig
	require.NotNil(t, chart)
	assert.Equal(t, "Major", chart.XAxis)
	assert.Equal(t, "Average", chart.YAxis)
	require.Len(t, chart.Series, 3)
	assert.Len(t, chart.Colors, 3)

	fall22 := chart.Series[0]
	assert.Equal(t, "Fall 2022", fall22.Name)
	assert.Equal(t, []ChartPoint{
		{Label: "Computer Science", Value: 3.8},
		{Label: "Mathematics", Value: 0},
	}, fall22.Data)
	assert.Equal(t, "Spring 2023", chart.Series[1].Name)
	assert.Equal(t, 3.2, chart.Series[1].Data[1].Value)
	assert.Equal(t, 6, result.Matched)
}

func TestExecuteChartNoData(t *testing.T) {
	result, err := Execute(QuerySpec{
		Intent:  "chart",
		Where:   []Condition{{Field: "GPA", Operator: ">", Value: 4}},
		GroupBy: []string{"Major"},
	}, roster())
	require.NoError(t, err)

	assert.Equal(t, "text", result.Type)
	assert.Nil(t, result.ChartConfig)
	assert.Equal(t, "Not enough data to generate a chart.", result.Summary)
}

func TestExecuteText(t *testing.T) {
	result, err := Execute(QuerySpec{Intent: "text"}, roster())
	require.NoError(t, err)

	assert.Equal(t, "text", result.Type)
	require.NotNil(t, result.TextData)
	assert.Equal(t, "3.63", result.TextData.Value)
	assert.Equal(t, "GPA", result.TextData.Measure)
	assert.Equal(t, 3, result.TextData.Count)

	result, err = Execute(QuerySpec{Intent: "text", Aggregation: "count"}, roster())
	require.NoError(t, err)
	assert.Equal(t, "3", result.TextData.Value)
}

func TestExecuteList(t *testing.T) {
	result, err := Execute(QuerySpec{
		Intent:   "list",
		AgeRange: &AgeRange{Min: 19, Max: 20},
	}, roster())
	require.NoError(t, err)

	assert.Equal(t, "table", result.Type)
	assert.Equal(t, 2, result.Matched)
	require.Len(t, result.TableData.Rows, 2)
	assert.Equal(t, "Alice Johnson", result.TableData.Rows[0][0])
	assert.Equal(t, "Carol Davis", result.TableData.Rows[1][0])
	assert.Equal(t, "2 matching records.", result.Summary)
}

func TestExecuteWithDefaultMeasure(t *testing.T) {
	result, err := Execute(QuerySpec{Intent: "text"}, roster(), WithDefaultMeasure("Age"))
	require.NoError(t, err)

	assert.Equal(t, "Age", result.TextData.Measure)
	assert.InDelta(t, 61.0/3, result.TextData.RawValue, 1e-9)

	// an explicit measure wins
	result, err = Execute(QuerySpec{Intent: "text", Measure: "GPA", Aggregation: "max"}, roster(), WithDefaultMeasure("Age"))
	require.NoError(t, err)
	assert.Equal(t, 3.9, result.TextData.RawValue)
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		spec QuerySpec
		want error
	}{
		{
			name: "unknown condition field",
			spec: QuerySpec{Intent: "stats", Where: []Condition{{Field: "Salary", Operator: ">", Value: 1}}},
			want: ErrUnknownField,
		},
		{
			name: "unsupported operator",
			spec: QuerySpec{Intent: "table", Where: []Condition{{Field: "GPA", Operator: ">=", Value: 3}}},
			want: ErrUnsupportedOperator,
		},
		{
			name: "unknown aggregation",
			spec: QuerySpec{Intent: "table", GroupBy: []string{"Major"}, Aggregation: "mode"},
			want: ErrUnknownAggregation,
		},
		{
			name: "unknown filter dimension",
			spec: QuerySpec{Intent: "stats", Filters: Filters{Dimensions: map[string][]string{"Planet": {"Mars"}}}},
			want: ErrUnknownField,
		},
		{
			name: "course dimension on students",
			spec: QuerySpec{Intent: "table", GroupBy: []string{"Instructor"}},
			want: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Execute(tt.spec, roster())
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecuteConditionErrorNamesCondition(t *testing.T) {
	_, err := Execute(QuerySpec{Where: []Condition{{Field: "Salary", Operator: ">", Value: 1.5}}}, roster())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition Salary > 1.5")
}

func TestExecuteDoesNotMutateRoster(t *testing.T) {
	students := roster()
	before := roster()

	_, err := Execute(QuerySpec{Intent: "table", GroupBy: []string{"Major"}, SortBy: "value_asc"}, students)
	require.NoError(t, err)
	_, err = Execute(QuerySpec{Intent: "stats"}, students)
	require.NoError(t, err)

	assert.Equal(t, before, students)
}

func TestExecuteWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	_, err := Execute(QuerySpec{Intent: "table", GroupBy: []string{"Major"}}, roster(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	filtered := logs.FilterMessage("roster filtered").All()
	require.Len(t, filtered, 1)
	fields := filtered[0].ContextMap()
	assert.Equal(t, "table", fields["intent"])
	assert.Equal(t, int64(3), fields["records"])
	assert.Equal(t, 1, logs.FilterMessage("groups aggregated").Len())

	// a nil logger keeps the no-op default
	_, err = Execute(QuerySpec{Intent: "text"}, roster(), WithLogger(nil))
	assert.NoError(t, err)
}
