package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spektr-org/scholar/engine"
)

// ResultTable returns the tabular form of an Execute result, whatever its
// type: tables as-is, charts pivoted to one column per series, statistics and
// single values as two-column tables.
func ResultTable(result *engine.Result) *engine.TableData {
	switch {
	case result == nil:
		return singleCell("Result", "No data")
	case result.TableData != nil:
		return result.TableData
	case result.ChartConfig != nil && len(result.ChartConfig.Series) > 0:
		return ChartTable(result.ChartConfig)
	case result.Statistics != nil:
		return StatisticsTable(result.Title, *result.Statistics, result.Matched)
	case result.TextData != nil:
		return &engine.TableData{
			Title:   result.Title,
			Columns: []engine.Column{textCol("measure", "Measure"), numCol("value", "Value"), numCol("count", "Count")},
			Rows: [][]string{{
				result.TextData.Measure, result.TextData.Value, strconv.Itoa(result.TextData.Count),
			}},
		}
	}
	summary := result.Summary
	if summary == "" {
		summary = "No data"
	}
	return singleCell("Summary", summary)
}

// ChartTable pivots a chart: one row per x label, one column per series.
func ChartTable(chart *engine.ChartConfig) *engine.TableData {
	xLabel := chart.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	columns := []engine.Column{textCol("label", xLabel)}
	if len(chart.Series) == 1 {
		yLabel := chart.YAxis
		if yLabel == "" {
			yLabel = "Value"
		}
		columns = append(columns, numCol("value", yLabel))
	} else {
		for _, s := range chart.Series {
			columns = append(columns, numCol(s.Name, s.Name))
		}
	}

	rows := [][]string{}
	if len(chart.Series) > 0 {
		for i, d := range chart.Series[0].Data {
			row := []string{d.Label}
			for _, s := range chart.Series {
				if i < len(s.Data) {
					row = append(row, fmtNum(s.Data[i].Value))
				} else {
					row = append(row, "")
				}
			}
			rows = append(rows, row)
		}
	}
	return &engine.TableData{Title: chart.Title, Columns: columns, Rows: rows}
}

// StatisticsTable lays statistics out as Statistic / Value rows.
func StatisticsTable(title string, stats engine.StudentStatistics, count int) *engine.TableData {
	outliers := make([]string, len(stats.OutlierIDs))
	for i, id := range stats.OutlierIDs {
		outliers[i] = strconv.Itoa(id)
	}
	return &engine.TableData{
		Title:   title,
		Columns: []engine.Column{textCol("statistic", "Statistic"), numCol("value", "Value")},
		Rows: [][]string{
			{"Students", strconv.Itoa(count)},
			{"Mean GPA", fmt.Sprintf("%.4f", stats.MeanGPA)},
			{"Median GPA", fmt.Sprintf("%.4f", stats.MedianGPA)},
			{"Standard Deviation", fmt.Sprintf("%.4f", stats.StandardDeviation)},
			{"Age-GPA Correlation", fmt.Sprintf("%.4f", stats.AgeGPACorrelation)},
			{"Outliers", strings.Join(outliers, " ")},
		},
	}
}

// GradeReportTable lists one student's courses.
func GradeReportTable(s engine.Student) *engine.TableData {
	rows := make([][]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		rows = append(rows, []string{
			c.Code, c.Name, strconv.Itoa(c.Credits), fmt.Sprintf("%.2f", c.Grade), c.Semester, c.Instructor,
		})
	}
	return &engine.TableData{
		Title: s.Name,
		Columns: []engine.Column{
			textCol("code", "Code"), textCol("course", "Course"), numCol("credits", "Credits"),
			numCol("grade", "Grade"), textCol("semester", "Semester"), textCol("instructor", "Instructor"),
		},
		Rows: rows,
		Summary: &engine.Summary{
			Label:  fmt.Sprintf("GPA %.2f", s.GPA),
			Values: map[string]string{},
		},
	}
}

func singleCell(header, value string) *engine.TableData {
	return &engine.TableData{
		Columns: []engine.Column{textCol(strings.ToLower(header), header)},
		Rows:    [][]string{{value}},
	}
}

func textCol(key, label string) engine.Column {
	return engine.Column{Key: key, Label: label, Type: "text", Align: "left"}
}

func numCol(key, label string) engine.Column {
	return engine.Column{Key: key, Label: label, Type: "number", Align: "right"}
}

// fmtNum prints whole numbers without decimals, fractions with 2 decimals.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
