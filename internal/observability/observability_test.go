package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/soilwb/internal/balance"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info", "json")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("visible", "soil", "deep")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"soil":"deep"`)

	_, err = NewLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestMetricsObserveRun(t *testing.T) {
	m := NewMetrics()
	sum := balance.Summary{Days: 3, Rainfall: 40, RunoffExcess: 11, Uptake: 12, Percolation: 8.4, FinalSoilMoisture: 17, StressDays: 1}
	m.ObserveRun(balance.Deep, sum)
	m.ObserveRun(balance.Deep, sum)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("deep")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.DaysSimulated.WithLabelValues("deep")))
	assert.Equal(t, 11.0, testutil.ToFloat64(m.SeasonTotal.WithLabelValues("deep", "runoff_excess")))
	assert.Equal(t, 17.0, testutil.ToFloat64(m.SoilMoisture.WithLabelValues("deep")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StressDays.WithLabelValues("deep")))
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveRun(balance.Shallow, balance.Summary{Days: 1, FinalSoilMoisture: 38})
	path := filepath.Join(t.TempDir(), "soilwb.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `soilwb_final_soil_moisture_mm{soil="shallow"} 38`)
	assert.Contains(t, string(data), `soilwb_runs_total{soil="shallow"} 1`)
}
