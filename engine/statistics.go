package engine

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// STATISTICS -- GPA descriptive statistics and IQR outliers
// ============================================================================
// Everything is recomputed from the input on each call. The input slice is
// never reordered; sorting works on a copy of the GPAs.
// ============================================================================

// Tukey fence multiplier for outlier detection.
const iqrFence = 1.5

// ComputeStatistics returns mean, median, population standard deviation,
// age/GPA correlation and IQR outliers of the roster's GPAs.
// An empty roster yields zero values and an empty outlier list.
// NaN GPAs are not rejected: mean and deviation come back NaN and the
// median and outliers are meaningless.
func ComputeStatistics(records []Student) StudentStatistics {
	n := len(records)
	if n == 0 {
		return StudentStatistics{OutlierIDs: []int{}}
	}

	gpas := make([]float64, n)
	ages := make([]float64, n)
	for i, s := range records {
		gpas[i] = s.GPA
		ages[i] = float64(s.Age)
	}

	sorted := append([]float64(nil), gpas...)
	sort.Float64s(sorted)

	mean, stdDev := populationMeanStdDev(sorted)
	_, stdDevAge := populationMeanStdDev(ages)

	return StudentStatistics{
		MeanGPA:           mean,
		MedianGPA:         median(sorted),
		StandardDeviation: stdDev,
		AgeGPACorrelation: correlation(ages, gpas, stdDevAge, stdDev),
		OutlierIDs:        outliers(records, sorted),
	}
}

// populationMeanStdDev returns the mean and the divisor-n standard deviation.
// A constant sample has deviation exactly 0.
func populationMeanStdDev(x []float64) (float64, float64) {
	if isConstant(x) {
		return x[0], 0
	}
	return stat.PopMeanStdDev(x, nil)
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// median of an ascending, non-empty sample: the middle element for odd n,
// the mean of elements n/2-1 and n/2 for even n.
func median(sorted []float64) float64 {
	m, err := stats.Median(sorted)
	if err != nil {
		return 0
	}
	return m
}

// correlation is Pearson's r between ages and GPAs paired per record.
// It is 0 unless both standard deviations are strictly positive.
func correlation(ages, gpas []float64, stdDevAge, stdDevGPA float64) float64 {
	if stdDevAge <= 0 || stdDevGPA <= 0 {
		return 0
	}
	return stat.Correlation(ages, gpas, nil)
}

// outliers returns the ids of records whose GPA lies strictly outside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR], in input order.
// Q1 = sorted[n/4] and Q3 = sorted[3n/4] with truncating division; no
// interpolation.
func outliers(records []Student, sorted []float64) []int {
	n := len(sorted)
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1
	lower := q1 - iqrFence*iqr
	upper := q3 + iqrFence*iqr

	ids := []int{}
	for _, s := range records {
		if s.GPA < lower || s.GPA > upper {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
