// Package prompt asks the user for a soil type.
package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/soilwb/internal/balance"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea soil picker.
type Model struct {
	params    *balance.Params
	soils     []balance.Soil
	cursor    int
	chosen    balance.Soil
	cancelled bool
}

// NewModel constructs a picker over the supported soils.
func NewModel(params *balance.Params) *Model {
	return &Model{
		params: params,
		soils:  append([]balance.Soil(nil), balance.Soils...),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyUp:
		m.move(-1)
		return m, nil
	case tea.KeyDown, tea.KeyTab:
		m.move(1)
		return m, nil
	case tea.KeyEnter:
		m.chosen = m.soils[m.cursor]
		return m, tea.Quit
	case tea.KeyRunes:
		switch key.String() {
		case "k":
			m.move(-1)
		case "j":
			m.move(1)
		case "q":
			m.cancelled = true
			return m, tea.Quit
		default:
			if soil, ok := m.shortcut(key.Runes); ok {
				m.chosen = soil
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}
	lines := []string{titleStyle.Render("Select the soil type"), ""}
	for i, soil := range m.soils {
		label := fmt.Sprintf("  %s", soil)
		style := itemStyle
		if i == m.cursor {
			label = fmt.Sprintf("> %s", soil)
			style = selectedStyle
		}
		line := style.Render(label)
		if profile, err := m.params.Profile(soil); err == nil {
			line += "  " + detailStyle.Render(fmt.Sprintf("capacity %.0f mm, percolation %.0f%%", profile.Capacity, profile.GroundwaterFraction*100))
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", footerStyle.Render("up/down: move  enter: select  d/s: pick  esc: cancel"))
	return strings.Join(lines, "\n") + "\n"
}

// Result returns the selected soil, or false if the picker was cancelled.
func (m *Model) Result() (balance.Soil, bool) {
	if m.cancelled || m.chosen == "" {
		return "", false
	}
	return m.chosen, true
}

func (m *Model) move(delta int) {
	count := len(m.soils)
	m.cursor = (m.cursor + delta + count) % count
}

func (m *Model) shortcut(runes []rune) (balance.Soil, bool) {
	if len(runes) != 1 {
		return "", false
	}
	r := strings.ToLower(string(runes))
	for _, soil := range m.soils {
		if strings.HasPrefix(string(soil), r) {
			return soil, true
		}
	}
	return "", false
}
