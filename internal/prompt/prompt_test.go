package prompt

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/soilwb/internal/balance"
)

func TestReadSoil(t *testing.T) {
	var out bytes.Buffer
	soil, err := ReadSoil(strings.NewReader("  Shallow\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, balance.Shallow, soil)
	assert.Equal(t, LinePrompt, out.String())

	soil, err = ReadSoil(strings.NewReader("deep"), &out)
	require.NoError(t, err)
	assert.Equal(t, balance.Deep, soil)
}

func TestReadSoilInvalid(t *testing.T) {
	var out bytes.Buffer
	_, err := ReadSoil(strings.NewReader("medium\n"), &out)
	assert.ErrorIs(t, err, balance.ErrInvalidSoilType)

	_, err = ReadSoil(strings.NewReader("\n"), &out)
	assert.ErrorIs(t, err, balance.ErrInvalidSoilType)

	_, err = ReadSoil(strings.NewReader(""), &out)
	assert.ErrorIs(t, err, ErrCancelled)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelNavigateAndSelect(t *testing.T) {
	m := NewModel(balance.DefaultParams())
	view := m.View()
	assert.Contains(t, view, "> deep")
	assert.Contains(t, view, "capacity 100 mm, percolation 20%")
	assert.Contains(t, view, "capacity 42 mm, percolation 40%")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.View(), "> shallow")
	m.Update(keyRunes("j"))
	assert.Contains(t, m.View(), "> deep")
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Contains(t, m.View(), "> shallow")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	soil, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, balance.Shallow, soil)
	assert.Empty(t, m.View())
}

func TestModelShortcut(t *testing.T) {
	m := NewModel(balance.DefaultParams())
	_, cmd := m.Update(keyRunes("D"))
	require.NotNil(t, cmd)
	soil, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, balance.Deep, soil)
}

func TestModelCancel(t *testing.T) {
	m := NewModel(balance.DefaultParams())
	_, ok := m.Result()
	assert.False(t, ok)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok = m.Result()
	assert.False(t, ok)
}
