package balance

import (
	"fmt"
	"math"
)

// CropUptake is the daily crop water demand in mm.
const CropUptake = 4.0

// Params is the fixed parameter set of the model.
type Params struct {
	Profiles   map[Soil]Profile
	Runoff     RunoffTable
	CropUptake float64
}

// DefaultParams builds the model parameters. Build it once and share it;
// simulators never modify it.
func DefaultParams() *Params {
	return &Params{
		Profiles: map[Soil]Profile{
			Deep:    {Capacity: 100, GroundwaterFraction: 0.2},
			Shallow: {Capacity: 42, GroundwaterFraction: 0.4},
		},
		Runoff:     DefaultRunoffTable(),
		CropUptake: CropUptake,
	}
}

// Profile returns the parameters for soil.
func (p *Params) Profile(soil Soil) (Profile, error) {
	profile, ok := p.Profiles[soil]
	if !ok {
		return Profile{}, fmt.Errorf("%w: got %q", ErrInvalidSoilType, string(soil))
	}
	return profile, nil
}

// DailyRecord is one simulated day. All quantities are in mm.
type DailyRecord struct {
	Day          int
	Rainfall     float64
	RunoffExcess float64
	Uptake       float64
	SoilMoisture float64
	Percolation  float64
}

// Simulator runs the water balance with a fixed parameter set. It holds no
// per-run state and is safe for concurrent use.
type Simulator struct {
	params *Params
}

// New returns a Simulator over params.
func New(params *Params) *Simulator {
	return &Simulator{params: params}
}

// Params returns the parameters the simulator was built with.
func (s *Simulator) Params() *Params {
	return s.params
}

// Simulate runs the balance over rainfall, one record per day in input
// order. Percolation is reported but stays in the carried soil moisture.
func (s *Simulator) Simulate(soil Soil, rainfall []float64) ([]DailyRecord, error) {
	profile, err := s.params.Profile(soil)
	if err != nil {
		return nil, err
	}

	records := make([]DailyRecord, 0, len(rainfall))
	previous := 0.0
	for i, rain := range rainfall {
		runoff := s.params.Runoff.Coefficient(rain) * rain
		infiltration := rain - runoff

		moisture := previous + infiltration
		excess := math.Max(0, moisture-profile.Capacity)
		moisture = math.Min(moisture, profile.Capacity)

		uptake := math.Min(s.params.CropUptake, moisture)
		moisture -= uptake

		records = append(records, DailyRecord{
			Day:          i + 1,
			Rainfall:     rain,
			RunoffExcess: runoff + excess,
			Uptake:       uptake,
			SoilMoisture: moisture,
			Percolation:  profile.GroundwaterFraction * moisture,
		})
		previous = moisture
	}
	return records, nil
}

// Simulate runs the balance for a soil name with the default parameters.
func Simulate(soilName string, rainfall []float64) ([]DailyRecord, error) {
	soil, err := ParseSoil(soilName)
	if err != nil {
		return nil, err
	}
	return New(DefaultParams()).Simulate(soil, rainfall)
}
