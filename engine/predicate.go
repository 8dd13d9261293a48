package engine

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// ============================================================================
// PREDICATES -- runtime-built field/operator/value filters
// ============================================================================
// A predicate is built once from (field, operator, threshold) and reused.
// Field names resolve through a FieldRegistry; operators are a closed set.
// Equality is exact float comparison, no epsilon.
// ============================================================================

// Operator is a comparison operator usable in a predicate.
type Operator int

const (
	GreaterThan Operator = iota + 1
	LessThan
	Equal
)

// ParseOperator maps a surface token (">", "<", "=") to an Operator.
func ParseOperator(token string) (Operator, error) {
	switch token {
	case ">":
		return GreaterThan, nil
	case "<":
		return LessThan, nil
	case "=":
		return Equal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, token)
	}
}

// String returns the surface token of the operator.
func (op Operator) String() string {
	switch op {
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// compare applies op to (a, b).
func (op Operator) compare(a, b float64) bool {
	switch op {
	case GreaterThan:
		return a > b
	case LessThan:
		return a < b
	case Equal:
		return a == b
	}
	return false
}

// Predicate is a reusable boolean test.
type Predicate[T any] func(T) bool

// BuildPredicate builds a Student predicate from a field name registered in
// StudentFields, an operator token and a threshold.
func BuildPredicate(field, operator string, value float64) (Predicate[Student], error) {
	op, err := ParseOperator(operator)
	if err != nil {
		return nil, err
	}
	return BuildFieldPredicate(StudentFields(), field, op, value)
}

// BuildFieldPredicate builds a predicate over any registry.
func BuildFieldPredicate[T any](reg *FieldRegistry[T], field string, op Operator, value float64) (Predicate[T], error) {
	if op < GreaterThan || op > Equal {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}
	accessor, err := reg.Resolve(field)
	if err != nil {
		return nil, err
	}
	return func(item T) bool {
		return op.compare(accessor(item), value)
	}, nil
}

// And matches when every predicate matches. No predicates matches everything.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range preds {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches. No predicates matches nothing.
func Or[T any](preds ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range preds {
			if p(item) {
				return true
			}
		}
		return false
	}
}

// Not inverts p.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(item T) bool { return !p(item) }
}

// WithCoursePrefix matches students taking at least one course whose code
// starts with prefix (case-sensitive).
func WithCoursePrefix(prefix string) Predicate[Student] {
	return func(s Student) bool {
		for _, c := range s.Courses {
			if strings.HasPrefix(c.Code, prefix) {
				return true
			}
		}
		return false
	}
}

// ============================================================================
// LAZY SEQUENCES
// ============================================================================

// Where lazily yields the records matching pred, in input order.
func Where[T any](records []T, pred Predicate[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, r := range records {
			if pred(r) && !yield(r) {
				return
			}
		}
	}
}

// FilterByAgeRange lazily yields students with minAge <= Age <= maxAge.
// The bounds are not validated; minAge > maxAge yields nothing.
func FilterByAgeRange(records []Student, minAge, maxAge int) iter.Seq[Student] {
	return Where(records, func(s Student) bool {
		return s.Age >= minAge && s.Age <= maxAge
	})
}

// ============================================================================
// ORDERING
// ============================================================================

// OrderBy returns a copy of records sorted by a registered measure.
// The sort is stable: ties keep input order.
func OrderBy(records []Student, field string, descending bool) ([]Student, error) {
	accessor, err := StudentFields().Resolve(field)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Student) int {
		c := cmp.Compare(accessor(a), accessor(b))
		if descending {
			return -c
		}
		return c
	})
	return sorted, nil
}

// SortByEnrollment returns a copy of records ordered by enrollment date, oldest first.
func SortByEnrollment(records []Student) []Student {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Student) int {
		return a.EnrollmentDate.Compare(b.EnrollmentDate)
	})
	return sorted
}
