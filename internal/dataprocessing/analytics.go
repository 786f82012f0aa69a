package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CountryStats holds the descriptive statistics of one country column.
// Missing values are skipped; a column with no values has Count 0 and NaN
// everywhere else.
type CountryStats struct {
	Country  string
	Count    int
	Mean     float64
	Std      float64
	Variance float64
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	Sum      float64
}

// Describe computes statistics for every country in column order
func Describe(t *YearTable) []CountryStats {
	countries := t.Countries()
	cols := t.columns()

	out := make([]CountryStats, len(countries))
	for i, c := range countries {
		out[i] = describeColumn(c, cols[i])
	}
	return out
}

func describeColumn(country string, col []float64) CountryStats {
	x := present(col)
	s := CountryStats{Country: country, Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Variance = nan, nan, nan
		s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan
		s.Sum = 0
		return s
	}

	s.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		s.Variance = stat.Variance(x, nil)
		s.Std = math.Sqrt(s.Variance)
	} else {
		s.Variance, s.Std = math.NaN(), math.NaN()
	}
	s.Sum = floats.Sum(x)

	sort.Float64s(x)
	s.Min = x[0]
	s.Max = x[len(x)-1]
	s.Q1 = quantile(x, 0.25)
	s.Median = quantile(x, 0.5)
	s.Q3 = quantile(x, 0.75)
	return s
}

// quantile returns the p-quantile of sorted x, interpolating linearly between
// the two closest ranks at position p*(n-1).
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// present returns the non-missing values of col in a new slice
func present(col []float64) []float64 {
	x := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			x = append(x, v)
		}
	}
	return x
}

// Sums returns each country's total over all years, skipping missing values
func Sums(t *YearTable) map[string]float64 {
	cols := t.columns()
	out := make(map[string]float64, len(cols))
	for i, c := range t.Countries() {
		out[c] = floats.Sum(present(cols[i]))
	}
	return out
}

// MedianOfMedians returns the median of the per-country medians. Countries
// without values are ignored; NaN when none remain.
func MedianOfMedians(t *YearTable) float64 {
	medians := make([]float64, 0, t.Ncountries())
	for _, s := range Describe(t) {
		if !math.IsNaN(s.Median) {
			medians = append(medians, s.Median)
		}
	}
	if len(medians) == 0 {
		return math.NaN()
	}
	sort.Float64s(medians)
	return quantile(medians, 0.5)
}
