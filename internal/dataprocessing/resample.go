package dataprocessing

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"wbstats/internal/errors"
)

// Resample averages consecutive year buckets of the given width. Buckets are
// labelled by their last year and the first bucket ends at the table's first
// year, so label L covers the years after L-years up to and including L.
// Buckets without any value for a country hold NaN for it.
func Resample(t *YearTable, years int) (*YearTable, error) {
	if years < 1 {
		return nil, errors.NewAppValidationError(fmt.Sprintf("resample width must be at least 1, got %d", years))
	}
	if t.Nrow() == 0 {
		return t, nil
	}

	labels := t.Years()
	nums := make([]int, len(labels))
	for i, l := range labels {
		n, err := strconv.Atoi(l)
		if err != nil {
			return nil, errors.NewDataFormatError(fmt.Sprintf("year label %q is not numeric", l))
		}
		nums[i] = n
	}

	first := nums[0]
	last := nums[len(nums)-1]
	nBuckets := 1
	if last > first {
		nBuckets += (last - first + years - 1) / years
	}

	// bucket k ends at first + k*years
	bucketOf := func(year int) int {
		if year <= first {
			return 0
		}
		return (year - first + years - 1) / years
	}

	bucketLabels := make([]string, nBuckets)
	for k := range bucketLabels {
		bucketLabels[k] = strconv.Itoa(first + k*years)
	}

	cols := t.columns()
	out := make([][]float64, len(cols))
	for c, col := range cols {
		groups := make([][]float64, nBuckets)
		for row, v := range col {
			if math.IsNaN(v) {
				continue
			}
			k := bucketOf(nums[row])
			groups[k] = append(groups[k], v)
		}
		out[c] = make([]float64, nBuckets)
		for k, g := range groups {
			if len(g) == 0 {
				out[c][k] = math.NaN()
				continue
			}
			out[c][k] = stat.Mean(g, nil)
		}
	}

	return NewYearTable(bucketLabels, t.Countries(), out)
}
