package rainfall

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeries(t *testing.T) {
	data := "Date,Rainfall,Station\n2022-06-01,10,A\n2022-06-02, 30.5 ,A\n2022-06-03,0,A\n"
	series, err := ReadSeries(strings.NewReader(data), "Rainfall")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 30.5, 0}, series)
}

func TestReadSeriesBOMHeader(t *testing.T) {
	series, err := ReadSeries(strings.NewReader("\ufeffRainfall\n1\n2\n"), "")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, series)
}

func TestReadSeriesHeaderOnly(t *testing.T) {
	series, err := ReadSeries(strings.NewReader("Day,Rainfall\n"), "Rainfall")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestReadSeriesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing column", "Day,Rain\n1,2\n", "rainfall column not found"},
		{"empty file", "", "empty file"},
		{"negative", "Rainfall\n1\n-2\n", "row 2: negative rainfall"},
		{"text", "Rainfall\nabc\n", "row 1: invalid rainfall value"},
		{"nan", "Rainfall\nNaN\n", "invalid rainfall value"},
		{"blank", "Day,Rainfall\n1,\n", "row 1: empty rainfall value"},
		{"short row", "Day,Rainfall\n1\n", "row 1: missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSeries(strings.NewReader(tt.data), "Rainfall")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ReadSeries(strings.NewReader("Day,Rain\n1,2\n"), "Rainfall")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestLoadSeriesNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := LoadSeries(path, DefaultColumn)
	require.ErrorIs(t, err, ErrDataSourceNotFound)
	assert.Contains(t, err.Error(), path)
}

func TestLoadSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain.csv")
	require.NoError(t, os.WriteFile(path, []byte("Rainfall\n5\n0\n120\n"), 0o644))
	series, err := LoadSeries(path, DefaultColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 0, 120}, series)
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(42).Generate(120, 0.4, 12)
	b := NewGenerator(42).Generate(120, 0.4, 12)
	require.Len(t, a, 120)
	assert.Equal(t, a, b)

	wet := 0
	for _, v := range a {
		assert.GreaterOrEqual(t, v, 0.0)
		if v > 0 {
			wet++
		}
	}
	assert.Positive(t, wet)
	assert.Less(t, wet, 120)
}

func TestGeneratorDryAndEmpty(t *testing.T) {
	assert.Empty(t, NewGenerator(1).Generate(0, 0.5, 10))
	assert.Equal(t, []float64{0, 0, 0}, NewGenerator(1).Generate(3, 0, 10))
}
