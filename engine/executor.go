package engine

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR -- QuerySpec dispatcher
// ============================================================================
// Entry point: Execute(spec, students, opts...)
//
// Pipeline:
//   1. Build predicates from Where + AgeRange, select matching students
//   2. "stats" intent: apply dimension filters, compute StudentStatistics
//   3. Bind a RecordView (students, or flattened course rows)
//   4. Apply dimension filters -> SubView
//   5. Group and aggregate
//   6. Dispatch to builder (list / table / chart / text)
//
// Execute never mutates students and keeps nothing after it returns.
// ============================================================================

// Execute runs a QuerySpec against a roster and returns a render-ready Result.
//
// Options:
//   - WithLogger(logger) -- debug logging (default: no-op)
//   - WithDefaultMeasure(name) -- measure used when QuerySpec.Measure is empty
func Execute(spec QuerySpec, students []Student, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger

	measure := spec.Measure
	if measure == "" {
		measure = cfg.DefaultMeasure
	}

	// 1. Predicates
	pred, err := buildConditions(spec.Where)
	if err != nil {
		return nil, err
	}
	matched := slices.Collect(Where(students, pred))
	if spec.AgeRange != nil {
		matched = slices.Collect(FilterByAgeRange(matched, spec.AgeRange.Min, spec.AgeRange.Max))
	}

	log.Debug("roster filtered",
		zap.String("intent", spec.Intent),
		zap.Int("records", len(students)),
		zap.Int("matched", len(matched)),
		zap.Int("conditions", len(spec.Where)))

	result := &Result{
		Title:   spec.Title,
		Matched: len(matched),
		Query:   &spec,
	}

	// 2. Statistics short-circuit
	if spec.Intent == "stats" {
		matched, err = filterStudents(matched, spec.Filters)
		if err != nil {
			return nil, err
		}
		result.Matched = len(matched)
		stats := ComputeStatistics(matched)
		result.Type = "stats"
		result.Statistics = &stats
		result.Summary = BuildStatisticsText(stats, len(matched))
		return result, nil
	}

	// 3. Bind view
	var view RecordView
	if spec.Flatten {
		view = CourseRowFields().Bind(FlattenCourses(matched))
	} else {
		view = StudentFields().Bind(matched)
	}

	// 4. Dimension filters
	view, err = ApplyFilters(view, spec.Filters)
	if err != nil {
		return nil, err
	}
	result.Matched = view.Len()

	if spec.Intent == "list" {
		result.Type = "table"
		result.TableData = BuildListTable(spec.Title, view)
		result.Summary = fmt.Sprintf("%s matching %s.", FormatInt(view.Len()), plural(view.Len(), "record", "records"))
		return result, nil
	}

	// 5. Group and aggregate
	groups, err := AggregateView(view, spec.GroupBy, measure, spec.Aggregation, spec.SortBy, spec.Limit)
	if err != nil {
		return nil, err
	}

	log.Debug("groups aggregated",
		zap.Strings("groupBy", spec.GroupBy),
		zap.String("measure", measure),
		zap.String("aggregation", spec.Aggregation),
		zap.Int("groups", len(groups)))

	// 6. Dispatch to builder
	switch spec.Intent {
	case "chart":
		result.Type = "chart"
		result.ChartConfig = BuildChart(spec, groups)
		if result.ChartConfig == nil {
			result.Type = "text"
			result.Summary = "Not enough data to generate a chart."
			return result, nil
		}
	case "table":
		result.Type = "table"
		result.TableData = BuildTable(spec, groups, measure)
	default:
		result.Type = "text"
		result.TextData = BuildText(spec, view, measure)
	}

	result.Summary = buildSummary(spec, groups, view, measure)
	return result, nil
}

// buildConditions AND-combines the predicates of every condition.
func buildConditions(conditions []Condition) (Predicate[Student], error) {
	preds := make([]Predicate[Student], 0, len(conditions))
	for _, c := range conditions {
		p, err := BuildPredicate(c.Field, c.Operator, c.Value)
		if err != nil {
			return nil, fmt.Errorf("condition %s %s %g: %w", c.Field, c.Operator, c.Value, err)
		}
		preds = append(preds, p)
	}
	return And(preds...), nil
}

// filterStudents applies dimension filters to students directly.
func filterStudents(students []Student, filters Filters) ([]Student, error) {
	view, err := ApplyFilters(StudentFields().Bind(students), filters)
	if err != nil {
		return nil, err
	}
	sub, ok := view.(*SubView)
	if !ok {
		return students, nil
	}
	out := make([]Student, len(sub.indices))
	for i, idx := range sub.indices {
		out[i] = students[idx]
	}
	return out, nil
}

// buildSummary produces a one-line description of the result.
func buildSummary(spec QuerySpec, groups []Group, view RecordView, measure string) string {
	if view.Len() == 0 {
		return "No records match the query."
	}
	if len(spec.GroupBy) == 0 || len(groups) == 0 {
		return fmt.Sprintf("%s %s, %s %s %.2f.",
			FormatInt(view.Len()), plural(view.Len(), "record", "records"),
			strings.ToLower(LabelForAggregation(spec.Aggregation)), LabelForField(measure),
			groupValue(groups))
	}

	top := groups[0]
	for _, g := range groups[1:] {
		if g.Value > top.Value {
			top = g
		}
	}
	return fmt.Sprintf("%s groups by %s; highest is %s (%.2f).",
		FormatInt(len(groups)), joinLabels(spec.GroupBy), top.Label, top.Value)
}

func groupValue(groups []Group) float64 {
	if len(groups) == 0 {
		return 0
	}
	return groups[0].Value
}

func joinLabels(fields []string) string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = LabelForField(f)
	}
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	}
	return fmt.Sprintf("%s and %s", strings.Join(labels[:len(labels)-1], ", "), labels[len(labels)-1])
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
