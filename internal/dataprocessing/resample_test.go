package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wbstats/internal/errors"
)

func TestResample(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name       string
		years      []string
		values     []float64
		width      int
		wantLabels []string
		wantValues []float64
	}{
		{
			name:       "first bucket ends at the first year",
			years:      yearRange(1960, 1968),
			values:     []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
			width:      4,
			wantLabels: []string{"1960", "1964", "1968"},
			wantValues: []float64{1, 3.5, 7.5},
		},
		{
			name:       "partial last bucket",
			years:      yearRange(1960, 1965),
			values:     []float64{1, 2, 3, 4, 5, 6},
			width:      4,
			wantLabels: []string{"1960", "1964", "1968"},
			wantValues: []float64{1, 3.5, 6},
		},
		{
			name:       "gaps produce empty buckets",
			years:      []string{"1960", "1970"},
			values:     []float64{2, 4},
			width:      4,
			wantLabels: []string{"1960", "1964", "1968", "1972"},
			wantValues: []float64{2, nan, nan, 4},
		},
		{
			name:       "missing values are skipped",
			years:      yearRange(1960, 1962),
			values:     []float64{1, nan, 3},
			width:      2,
			wantLabels: []string{"1960", "1962"},
			wantValues: []float64{1, 3},
		},
		{
			name:       "width one is identity",
			years:      yearRange(2000, 2002),
			values:     []float64{1, 2, 3},
			width:      1,
			wantLabels: yearRange(2000, 2002),
			wantValues: []float64{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := mustTable(t, tt.years, []string{"A"}, tt.values)

			out, err := Resample(tbl, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabels, out.Years())

			got, err := out.Values("A")
			require.NoError(t, err)
			require.Len(t, got, len(tt.wantValues))
			for i, want := range tt.wantValues {
				if math.IsNaN(want) {
					assert.True(t, math.IsNaN(got[i]), "bucket %d", i)
					continue
				}
				assert.InDelta(t, want, got[i], 1e-9, "bucket %d", i)
			}
		})
	}
}

func TestResample_Errors(t *testing.T) {
	tbl := mustTable(t, []string{"1960"}, []string{"A"}, []float64{1})
	_, err := Resample(tbl, 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	empty := mustTable(t, []string{}, []string{"A"}, []float64{})
	out, err := Resample(empty, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
}
