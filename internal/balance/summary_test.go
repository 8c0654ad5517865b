package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	records, err := New(DefaultParams()).Simulate(Deep, []float64{10, 30, 0, 2})
	require.NoError(t, err)

	sum := Summarize(records, CropUptake)
	assert.Equal(t, 4, sum.Days)
	assert.InDelta(t, 42.0, sum.Rainfall, tolerance)

	var runoff, uptake, perc float64
	for _, r := range records {
		runoff += r.RunoffExcess
		uptake += r.Uptake
		perc += r.Percolation
	}
	assert.InDelta(t, runoff, sum.RunoffExcess, tolerance)
	assert.InDelta(t, uptake, sum.Uptake, tolerance)
	assert.InDelta(t, perc, sum.Percolation, tolerance)
	assert.InDelta(t, records[3].SoilMoisture, sum.FinalSoilMoisture, tolerance)
	assert.InDelta(t, 21.0, sum.PeakSoilMoisture, tolerance)
	assert.Equal(t, 0, sum.StressDays)
}

func TestSummarizeStressDays(t *testing.T) {
	records, err := New(DefaultParams()).Simulate(Deep, []float64{2, 0, 10})
	require.NoError(t, err)
	sum := Summarize(records, CropUptake)
	assert.Equal(t, 2, sum.StressDays)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, CropUptake))
}
