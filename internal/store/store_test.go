package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "soilwb.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertRun(t *testing.T, st *Store, soil balance.Soil, at time.Time, rain []float64) int64 {
	t.Helper()
	records, err := balance.New(balance.DefaultParams()).Simulate(soil, rain)
	require.NoError(t, err)
	stats := model.RunStats{
		CreatedAt: at,
		Soil:      soil,
		Source:    "rain.csv",
		Output:    "out.csv",
		Summary:   balance.Summarize(records, balance.CropUptake),
	}
	id, err := st.InsertRun(context.Background(), stats, records)
	require.NoError(t, err)
	return id
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2022, 6, 1, 8, 0, 0, 0, time.UTC)

	first := insertRun(t, st, balance.Deep, base, []float64{10, 30, 0})
	second := insertRun(t, st, balance.Shallow, base.Add(time.Hour), []float64{200})
	third := insertRun(t, st, balance.Deep, base.Add(2*time.Hour), []float64{5})

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []int64{first, second, third}, []int64{runs[0].RunID, runs[1].RunID, runs[2].RunID})
	assert.Equal(t, balance.Shallow, runs[1].Soil)
	assert.True(t, runs[1].CreatedAt.Equal(base.Add(time.Hour)))
	assert.Equal(t, 1, runs[1].Summary.Days)
	assert.InDelta(t, 158.0, runs[1].Summary.RunoffExcess, 1e-9)
	assert.InDelta(t, 38.0, runs[1].Summary.FinalSoilMoisture, 1e-9)

	deep, err := st.ListRuns(ctx, model.HistoryConfig{Soil: "DEEP"})
	require.NoError(t, err)
	assert.Len(t, deep, 2)

	since := base.Add(30 * time.Minute)
	recent, err := st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	last, err := st.ListRuns(ctx, model.HistoryConfig{Last: 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, third, last[0].RunID)
}

func TestListRunDays(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id := insertRun(t, st, balance.Deep, time.Unix(0, 0), []float64{10, 30, 0})

	days, err := st.ListRunDays(ctx, id)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, 1, days[0].Day)
	assert.InDelta(t, 0.8, days[0].Percolation, 1e-9)
	assert.InDelta(t, 21.0, days[1].SoilMoisture, 1e-9)
	assert.InDelta(t, 17.0, days[2].SoilMoisture, 1e-9)

	empty, err := st.ListRunDays(ctx, id+100)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInsertEmptyRun(t *testing.T) {
	st := openTestStore(t)
	id := insertRun(t, st, balance.Shallow, time.Unix(0, 0), nil)
	days, err := st.ListRunDays(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestDeleteRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id := insertRun(t, st, balance.Deep, time.Unix(0, 0), []float64{1, 2})
	require.NoError(t, st.DeleteRun(ctx, id))

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	require.NoError(t, err)
	assert.Empty(t, runs)
	days, err := st.ListRunDays(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, days)
}
