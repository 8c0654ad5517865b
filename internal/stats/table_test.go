package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Soil", "Rain", "Days"}
	rows := [][]string{
		{"deep", "812.4", "122"},
		{"shallow", "9.0", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	require.Len(t, lines, 3)
	assert.Equal(t, "Soil      Rain  Days", lines[0])
	assert.Equal(t, "deep     812.4   122", lines[1])
	assert.Equal(t, "shallow    9.0     3", lines[2])
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "mm"}, [][]string{{"雨量", "1"}}, map[int]bool{1: true})
	require.Len(t, lines, 2)
	assert.Equal(t, "Name  mm", lines[0])
	assert.Equal(t, "雨量   1", lines[1])
}

func TestFormatTableEmpty(t *testing.T) {
	assert.Nil(t, formatTable(nil, nil, nil))
}
