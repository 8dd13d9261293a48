package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a field name is not registered.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnsupportedOperator is returned for operator tokens other than ">", "<" and "=".
	ErrUnsupportedOperator = errors.New("unsupported operator")
	// ErrUnknownAggregation is returned for aggregation names AggregateView does not know.
	ErrUnknownAggregation = errors.New("unknown aggregation")
)

// FieldError reports a field name that could not be resolved.
type FieldError struct {
	Field string
	Kind  string // "measure" or "dimension"
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnknownField, e.Kind, e.Field)
}

// Unwrap lets errors.Is match ErrUnknownField.
func (e *FieldError) Unwrap() error {
	return ErrUnknownField
}
