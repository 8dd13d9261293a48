// Package scholar provides an in-memory analytics engine for student rosters.
//
// Usage:
//
//	import "github.com/spektr-org/scholar/engine"
//
//	stats := engine.ComputeStatistics(students)
//
//	highGPA, err := engine.BuildPredicate("GPA", ">", 3.5)
//	for s := range engine.Where(students, highGPA) { ... }
//
//	byMajor := engine.AverageGPAByMajor(students)
//
//	result, err := engine.Execute(querySpec, students,
//	    engine.WithLogger(logger),
//	)
//
// The engine reads a caller-owned, already materialized roster and returns
// fresh value objects (statistics, groups, tables). It never mutates its
// input, performs no I/O, and keeps no state between calls.
package scholar
