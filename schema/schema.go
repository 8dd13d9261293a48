package schema

import "slices"

// ============================================================================
// SCHEMA -- Describes the fields a roster view exposes
// ============================================================================
// Built from an engine.FieldRegistry (FromRegistry), optionally enriched with
// sample values taken from bound data (Describe).
// The CLI prints it for `scholar fields`; callers use it to check names before
// building a QuerySpec.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Set by Describe
	RecordCount int `json:"recordCount,omitempty"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description,omitempty"`
	SampleValues    []string `json:"sampleValues"`
	Groupable       bool     `json:"groupable"`
	Filterable      bool     `json:"filterable"`
	IsTemporal      bool     `json:"isTemporal,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric field used for predicates and aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "points", "years", "credits", "courses", "id"
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:          key,
		DisplayName:  displayName,
		SampleValues: []string{},
		Groupable:    true,
		Filterable:   true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Aggregations:       []string{"avg", "sum", "min", "max", "count"},
		DefaultAggregation: "avg",
	}
}

// GetDefaultMeasure returns "GPA" when the catalogue has it, else the first
// measure's key, else "GPA".
func (c Config) GetDefaultMeasure() string {
	if c.HasMeasure("GPA") || len(c.Measures) == 0 {
		return "GPA"
	}
	return c.Measures[0].Key
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// HasDimension reports whether key names a dimension (exact match).
func (c Config) HasDimension(key string) bool {
	return slices.Contains(c.DimensionKeys(), key)
}

// HasMeasure reports whether key names a measure (exact match).
func (c Config) HasMeasure(key string) bool {
	return slices.Contains(c.MeasureKeys(), key)
}
