package stats

import (
	"context"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/model"
)

// RunLister lists stored runs. *store.Store implements it.
type RunLister interface {
	ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunAggregate, error)
}

// Report contains the runs selected by a history filter.
type Report struct {
	Runs []model.RunAggregate
}

// BuildReport loads runs matching cfg.
func BuildReport(ctx context.Context, st RunLister, cfg model.HistoryConfig) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{Runs: runs}, nil
}

// Totals sums the summaries of the report's runs per soil.
func (r Report) Totals() map[balance.Soil]balance.Summary {
	out := map[balance.Soil]balance.Summary{}
	for _, run := range r.Runs {
		acc := out[run.Soil]
		acc.Days += run.Summary.Days
		acc.Rainfall += run.Summary.Rainfall
		acc.RunoffExcess += run.Summary.RunoffExcess
		acc.Uptake += run.Summary.Uptake
		acc.Percolation += run.Summary.Percolation
		acc.StressDays += run.Summary.StressDays
		acc.FinalSoilMoisture = run.Summary.FinalSoilMoisture
		acc.PeakSoilMoisture = max(acc.PeakSoilMoisture, run.Summary.PeakSoilMoisture)
		out[run.Soil] = acc
	}
	return out
}

// Find returns the run with id.
func (r Report) Find(id int64) (model.RunAggregate, bool) {
	for _, run := range r.Runs {
		if run.RunID == id {
			return run, true
		}
	}
	return model.RunAggregate{}, false
}
