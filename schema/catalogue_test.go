package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/scholar/engine"
)

func TestStudentsCatalogue(t *testing.T) {
	cfg := Students()

	assert.Equal(t, "students", cfg.Name)
	assert.Equal(t, engine.StudentFields().DimensionNames(), cfg.DimensionKeys())
	assert.Equal(t, engine.StudentFields().MeasureNames(), cfg.MeasureKeys())
	assert.Equal(t, "GPA", cfg.GetDefaultMeasure())

	assert.True(t, cfg.HasDimension("Major"))
	assert.False(t, cfg.HasDimension("major"))
	assert.True(t, cfg.HasMeasure("Credits"))
	assert.False(t, cfg.HasMeasure("Grade"))
}

func TestCatalogueMetadata(t *testing.T) {
	cfg := Students()

	for _, m := range cfg.Measures {
		switch m.Key {
		case "GPA":
			assert.Equal(t, "points", m.Unit)
			assert.Equal(t, "avg", m.DefaultAggregation)
			assert.Contains(t, m.Aggregations, "max")
		case "Id":
			assert.Equal(t, "id", m.Unit)
			assert.Equal(t, []string{"count"}, m.Aggregations)
		}
	}

	for _, d := range cfg.Dimensions {
		assert.True(t, d.Groupable, d.Key)
		assert.True(t, d.Filterable, d.Key)
		if d.Key == "EnrollmentYear" {
			assert.True(t, d.IsTemporal)
			assert.Equal(t, "Enrollment Year", d.DisplayName)
		}
	}
}

func TestCourseRowsCatalogue(t *testing.T) {
	cfg := CourseRows()

	assert.Equal(t, "course_rows", cfg.Name)
	assert.True(t, cfg.HasDimension("Instructor"))
	assert.True(t, cfg.HasMeasure("Grade"))
	assert.Equal(t, "GPA", cfg.GetDefaultMeasure())
}

func TestGetDefaultMeasureFallback(t *testing.T) {
	reg := engine.NewFieldRegistry[engine.Course]().
		Measure("Grade", func(c engine.Course) float64 { return c.Grade })

	assert.Equal(t, "Grade", FromRegistry("courses", reg).GetDefaultMeasure())
	assert.Equal(t, "GPA", Config{}.GetDefaultMeasure())
}

func TestDescribe(t *testing.T) {
	students := []engine.Student{
		{Name: "A", Major: "Physics", Address: &engine.Address{City: "Oslo"}},
		{Name: "B", Major: "Art"},
		{Name: "C", Major: "Physics", Address: &engine.Address{City: "Lima"}},
	}
	base := Students()

	described := Describe(base, engine.StudentFields().Bind(students))

	assert.Equal(t, 3, described.RecordCount)
	byKey := make(map[string]DimensionMeta)
	for _, d := range described.Dimensions {
		byKey[d.Key] = d
	}
	assert.Equal(t, []string{"Physics", "Art"}, byKey["Major"].SampleValues)
	assert.Equal(t, []string{"Oslo", "Lima"}, byKey["City"].SampleValues)
	assert.Equal(t, []string{}, byKey["Street"].SampleValues)
	assert.Equal(t, "low", byKey["Major"].CardinalityHint)

	// the input catalogue is untouched
	assert.Empty(t, base.Dimensions[1].SampleValues)
	assert.Zero(t, base.RecordCount)
}

func TestDescribeCapsSamples(t *testing.T) {
	students := make([]engine.Student, 0, 40)
	for i := 0; i < 40; i++ {
		students = append(students, engine.Student{Name: fmt.Sprintf("s%02d", i)})
	}

	described := Describe(Students(), engine.StudentFields().Bind(students))

	require.Equal(t, "Name", described.Dimensions[0].Key)
	assert.Len(t, described.Dimensions[0].SampleValues, maxSamples)
	assert.Equal(t, "s00", described.Dimensions[0].SampleValues[0])
	assert.Equal(t, "medium", described.Dimensions[0].CardinalityHint)
}

func TestCardinalityHint(t *testing.T) {
	assert.Equal(t, "low", cardinalityHint(0))
	assert.Equal(t, "low", cardinalityHint(10))
	assert.Equal(t, "medium", cardinalityHint(11))
	assert.Equal(t, "high", cardinalityHint(101))
}
