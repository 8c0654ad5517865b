package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/model"
	"github.com/verte-zerg/soilwb/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "soilwb.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	sim := balance.New(balance.DefaultParams())
	var ids []int64
	for i, soil := range []balance.Soil{balance.Deep, balance.Shallow, balance.Deep} {
		records, err := sim.Simulate(soil, []float64{10, 30, 0})
		require.NoError(t, err)
		stats := model.RunStats{
			CreatedAt: time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Soil:      soil,
			Source:    "rain.csv",
			Output:    "out.csv",
			Summary:   balance.Summarize(records, balance.CropUptake),
		}
		id, err := st.InsertRun(ctx, stats, records)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 2})
	require.NoError(t, err)
	require.Len(t, report.Runs, 2)
	assert.Equal(t, ids[1], report.Runs[0].RunID)
	assert.Equal(t, ids[2], report.Runs[1].RunID)

	run, ok := report.Find(ids[2])
	require.True(t, ok)
	assert.Equal(t, balance.Deep, run.Soil)
	_, ok = report.Find(ids[0])
	assert.False(t, ok)

	all, err := BuildReport(ctx, st, model.HistoryConfig{Soil: "deep"})
	require.NoError(t, err)
	totals := all.Totals()
	require.Contains(t, totals, balance.Deep)
	assert.Equal(t, 6, totals[balance.Deep].Days)
	assert.InDelta(t, 80.0, totals[balance.Deep].Rainfall, 1e-9)
	assert.InDelta(t, 21.0, totals[balance.Deep].PeakSoilMoisture, 1e-9)
	assert.NotContains(t, totals, balance.Shallow)
}
