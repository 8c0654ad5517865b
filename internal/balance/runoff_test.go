package balance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunoffCoefficient(t *testing.T) {
	table := DefaultRunoffTable()
	tests := []struct {
		rain float64
		want float64
	}{
		{0, 0.2},
		{10, 0.2},
		{math.Nextafter(25, 0), 0.2},
		{24.999, 0.2},
		{25, 0.3},
		{49.9, 0.3},
		{50, 0.4},
		{75, 0.5},
		{99.99, 0.5},
		{100, 0.7},
		{1000, 0.7},
		{math.Inf(1), 0.7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.Coefficient(tt.rain), "rain=%v", tt.rain)
	}
}

func TestRunoffCoefficientFallback(t *testing.T) {
	assert.Equal(t, 0.7, DefaultRunoffTable().Coefficient(-1))
	assert.Equal(t, 0.7, RunoffTable(nil).Coefficient(10))
}

func TestRunoffTableContiguous(t *testing.T) {
	table := DefaultRunoffTable()
	assert.Equal(t, 0.0, table[0].Low)
	for i := 1; i < len(table); i++ {
		assert.Equal(t, table[i-1].High, table[i].Low, "band %d", i)
	}
	assert.True(t, math.IsInf(table[len(table)-1].High, 1))
}
