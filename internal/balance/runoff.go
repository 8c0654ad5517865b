package balance

import "math"

// fallbackCoefficient is used when no band matches the rainfall.
const fallbackCoefficient = 0.7

// RunoffBand maps the half-open rainfall interval [Low, High) to a runoff
// coefficient.
type RunoffBand struct {
	Low         float64
	High        float64
	Coefficient float64
}

// RunoffTable is an ordered list of contiguous bands.
type RunoffTable []RunoffBand

// DefaultRunoffTable returns the rainfall bands used by the model.
func DefaultRunoffTable() RunoffTable {
	return RunoffTable{
		{Low: 0, High: 25, Coefficient: 0.2},
		{Low: 25, High: 50, Coefficient: 0.3},
		{Low: 50, High: 75, Coefficient: 0.4},
		{Low: 75, High: 100, Coefficient: 0.5},
		{Low: 100, High: math.Inf(1), Coefficient: 0.7},
	}
}

// Coefficient returns the runoff coefficient of the first band containing
// rain. Rain outside every band (negative input) gets the fallback.
func (t RunoffTable) Coefficient(rain float64) float64 {
	for _, band := range t {
		if band.Low <= rain && rain < band.High {
			return band.Coefficient
		}
	}
	return fallbackCoefficient
}
