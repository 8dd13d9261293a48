package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER -- Produces TableData from QuerySpec + Groups
// ============================================================================
// Column discovery uses view.DimensionKeys()/MeasureKeys(), so the same
// builder lists students or flattened course rows.
// ============================================================================

// BuildTable produces an aggregated table: one row per group.
func BuildTable(spec QuerySpec, groups []Group, measure string) *TableData {
	if len(groups) == 0 {
		return &TableData{
			Title:   spec.Title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	columns := make([]Column, 0, len(spec.GroupBy)+2)
	if len(spec.GroupBy) == 0 {
		columns = append(columns, Column{Key: "group", Label: "Group", Type: "text", Align: "left"})
	}
	for _, field := range spec.GroupBy {
		columns = append(columns, Column{Key: field, Label: LabelForField(field), Type: "text", Align: "left"})
	}

	valueLabel := LabelForAggregation(spec.Aggregation)
	if spec.Aggregation != "count" {
		valueLabel = fmt.Sprintf("%s %s", valueLabel, LabelForField(measure))
	}
	columns = append(columns,
		Column{Key: "value", Label: valueLabel, Type: "number", Align: "right"},
		Column{Key: "count", Label: "Count", Type: "number", Align: "center"},
	)

	rows := make([][]string, 0, len(groups))
	totalCount := 0
	for _, g := range groups {
		row := make([]string, 0, len(columns))
		if len(spec.GroupBy) == 0 {
			row = append(row, g.Label)
		} else {
			row = append(row, g.Values...)
		}
		row = append(row, formatValue(g.Value, spec.Aggregation), fmt.Sprintf("%d", g.Count))
		rows = append(rows, row)
		totalCount += g.Count
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d groups)", len(groups)),
			Values: map[string]string{
				"count": FormatInt(totalCount),
			},
		},
	}
}

// BuildListTable produces one row per record of the view: every dimension,
// then every measure.
func BuildListTable(title string, view RecordView) *TableData {
	dimKeys := view.DimensionKeys()
	mesKeys := view.MeasureKeys()

	columns := make([]Column, 0, len(dimKeys)+len(mesKeys))
	for _, key := range dimKeys {
		columns = append(columns, Column{Key: key, Label: LabelForField(key), Type: "text", Align: "left"})
	}
	for _, key := range mesKeys {
		columns = append(columns, Column{Key: key, Label: LabelForField(key), Type: "number", Align: "right"})
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, 0, len(columns))
		for _, key := range dimKeys {
			row = append(row, view.Dimension(i, key))
		}
		for _, key := range mesKeys {
			row = append(row, fmtNum(view.Measure(i, key)))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Total (%d records)", view.Len()),
			Values: map[string]string{},
		},
	}
}

// BuildGroupsTable renders typed aggregates (GroupAndAggregate output).
// keyColumns names the key columns; keyCells splits one key into cells.
func BuildGroupsTable[K comparable](title string, groups Groups[K], keyColumns []string, valueLabel string, keyCells func(K) []string) *TableData {
	columns := make([]Column, 0, len(keyColumns)+2)
	for _, name := range keyColumns {
		columns = append(columns, Column{Key: name, Label: LabelForField(name), Type: "text", Align: "left"})
	}
	columns = append(columns,
		Column{Key: "count", Label: "Count", Type: "number", Align: "center"},
		Column{Key: "average", Label: valueLabel, Type: "number", Align: "right"},
	)

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := append(keyCells(g.Key), fmt.Sprintf("%d", g.Count), fmt.Sprintf("%.2f", g.Average))
		rows = append(rows, row)
	}
	return &TableData{Title: title, Columns: columns, Rows: rows}
}

// BuildBandsTable renders the GPA distribution pivot.
func BuildBandsTable(title string, bands []GPABands) *TableData {
	rows := make([][]string, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, []string{
			b.Major,
			fmt.Sprintf("%d", b.Low),
			fmt.Sprintf("%d", b.Mid),
			fmt.Sprintf("%d", b.High),
		})
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			{Key: "major", Label: "Major", Type: "text", Align: "left"},
			{Key: "low", Label: "Low (<3.5)", Type: "number", Align: "center"},
			{Key: "mid", Label: "Mid (3.5-3.8)", Type: "number", Align: "center"},
			{Key: "high", Label: "High (>=3.8)", Type: "number", Align: "center"},
		},
		Rows: rows,
	}
}

func formatValue(v float64, aggregation string) string {
	if aggregation == "count" {
		return FormatInt(int(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// fmtNum prints whole numbers without decimals, fractions with 2 decimals.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
