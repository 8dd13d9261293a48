package engine

// ============================================================================
// CHART BUILDER -- Produces ChartConfig from QuerySpec + Groups
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart produces a bar chart from a QuerySpec and aggregated groups.
// Two groupBy fields produce one series per value of the second field.
func BuildChart(spec QuerySpec, groups []Group) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	config := &ChartConfig{
		ChartType:  "bar",
		Title:      spec.Title,
		ShowLegend: true,
		ShowGrid:   true,
		YAxis:      LabelForAggregation(spec.Aggregation),
	}
	if len(spec.GroupBy) > 0 {
		config.XAxis = LabelForField(spec.GroupBy[0])
	}

	if len(spec.GroupBy) == 2 {
		config.Series = buildMultiSeries(groups)
	} else {
		config.Series = buildSingleSeries(groups, spec.Title)
	}

	config.Colors = assignColors(len(config.Series))
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

// buildMultiSeries pivots composite (x, series) groups. X labels and series
// names both keep first-seen order; missing cells are 0.
func buildMultiSeries(groups []Group) []ChartSeries {
	var xLabels, seriesNames []string
	seenX := make(map[string]bool)
	seenSeries := make(map[string]bool)
	cells := make(map[[2]string]float64)

	for _, g := range groups {
		if len(g.Values) < 2 {
			continue
		}
		x, s := g.Values[0], g.Values[1]
		if !seenX[x] {
			seenX[x] = true
			xLabels = append(xLabels, x)
		}
		if !seenSeries[s] {
			seenSeries[s] = true
			seriesNames = append(seriesNames, s)
		}
		cells[[2]string{x, s}] = g.Value
	}

	series := make([]ChartSeries, 0, len(seriesNames))
	for i, name := range seriesNames {
		points := make([]ChartPoint, 0, len(xLabels))
		for _, x := range xLabels {
			points = append(points, ChartPoint{
				Label: x,
				Value: RoundTo2(cells[[2]string{x, name}]),
			})
		}
		series = append(series, ChartSeries{
			Name:  name,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return series
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
