package balance

// Summary holds season totals for a run.
type Summary struct {
	Days              int
	Rainfall          float64
	RunoffExcess      float64
	Uptake            float64
	Percolation       float64
	FinalSoilMoisture float64
	PeakSoilMoisture  float64
	// StressDays counts days where the crop drew less than its demand.
	StressDays int
}

// Summarize totals records. cropUptake is the daily demand used to count
// stress days.
func Summarize(records []DailyRecord, cropUptake float64) Summary {
	sum := Summary{Days: len(records)}
	for _, r := range records {
		sum.Rainfall += r.Rainfall
		sum.RunoffExcess += r.RunoffExcess
		sum.Uptake += r.Uptake
		sum.Percolation += r.Percolation
		if r.SoilMoisture > sum.PeakSoilMoisture {
			sum.PeakSoilMoisture = r.SoilMoisture
		}
		if r.Uptake < cropUptake {
			sum.StressDays++
		}
	}
	if len(records) > 0 {
		sum.FinalSoilMoisture = records[len(records)-1].SoilMoisture
	}
	return sum
}
