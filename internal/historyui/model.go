// Package historyui provides the Bubble Tea run history browser.
package historyui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/model"
	"github.com/verte-zerg/soilwb/internal/stats"
)

const (
	tabRuns = iota
	tabDays
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source loads runs and their daily rows. *store.Store implements it.
type Source interface {
	stats.RunLister
	ListRunDays(ctx context.Context, runID int64) ([]balance.DailyRecord, error)
}

// Model implements the Bubble Tea history UI.
type Model struct {
	src Source
	cfg model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	runs      table.Model
	days      viewport.Model

	selected *model.RunAggregate
	records  []balance.DailyRecord

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
}

// NewModel constructs a history UI model.
func NewModel(src Source, cfg model.HistoryConfig) *Model {
	m := &Model{
		src:  src,
		cfg:  cfg,
		tabs: []string{"Runs", "Days"},
		days: viewport.New(0, 0),
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Soil: "
	m.filterInput.Placeholder = "deep or shallow, empty for all"
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.runs = table.New(
		table.WithColumns(runColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.runs.SetStyles(runTableStyles())
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderDays()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.cfg.Soil)
			return m, m.filterInput.Focus()
		case "enter":
			if m.activeTab == tabRuns {
				m.openSelected()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabRuns {
			m.runs, cmd = m.runs.Update(msg)
		} else {
			m.days, cmd = m.days.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Selected returns the run opened in the Days tab.
func (m *Model) Selected() (model.RunAggregate, bool) {
	if m.selected == nil {
		return model.RunAggregate{}, false
	}
	return *m.selected, true
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.days.Width = m.width
	m.days.Height = bodyHeight
	m.runs.SetWidth(m.width)
	m.runs.SetHeight(max(1, bodyHeight-1))
	m.filterInput.Width = max(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRuns {
		m.runs.Focus()
	} else {
		m.runs.Blur()
	}
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.filterInput.Value())
		if value != "" {
			soil, err := balance.ParseSoil(value)
			if err != nil {
				m.errMsg = err.Error()
				m.filterMode = false
				m.filterInput.Blur()
				return m, nil
			}
			value = string(soil)
		}
		m.cfg.Soil = value
		m.filterMode = false
		m.filterInput.Blur()
		m.refreshReport()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		m.runs.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	rows := make([]table.Row, 0, len(report.Runs))
	for _, r := range stats.RunTableRows(report.Runs) {
		rows = append(rows, table.Row(r[:len(runColumns())]))
	}
	m.runs.SetRows(rows)
	if len(rows) > 0 {
		m.runs.SetCursor(len(rows) - 1)
	}
}

func (m *Model) openSelected() {
	row := m.runs.SelectedRow()
	if row == nil {
		return
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return
	}
	run, ok := m.report.Find(id)
	if !ok {
		return
	}
	records, err := m.src.ListRunDays(context.Background(), id)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.selected = &run
	m.records = records
	m.activeTab = tabDays
	m.runs.Blur()
	m.renderDays()
	m.days.GotoTop()
}

func (m *Model) renderDays() {
	m.days.SetContent(renderRunDetail(m.selected, m.records, max(m.width, 80)))
}

func renderRunDetail(run *model.RunAggregate, records []balance.DailyRecord, width int) string {
	if run == nil {
		return "No run selected. Pick one in Runs and press enter."
	}
	sum := run.Summary
	title := headerStyle.Render(fmt.Sprintf("Run %d  %s  %s  %s", run.RunID, run.Soil, run.CreatedAt.Local().Format("2006-01-02 15:04"), run.Source))
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Rainfall", fmt.Sprintf("%.1f mm", sum.Rainfall)),
		metricCard("Runoff", fmt.Sprintf("%.1f mm", sum.RunoffExcess)),
		metricCard("Uptake", fmt.Sprintf("%.1f mm", sum.Uptake)),
		metricCard("Percolation", fmt.Sprintf("%.1f mm", sum.Percolation)),
		metricCard("Stress days", strconv.Itoa(sum.StressDays)),
	)
	series := stats.Resample(stats.SoilMoistureSeries(records), max(10, width-4))
	spark := fmt.Sprintf("Soil moisture (final %.1f mm, peak %.1f mm)\n%s", sum.FinalSoilMoisture, sum.PeakSoilMoisture, stats.Sparkline(series))
	var b strings.Builder
	if err := stats.RenderDayTable(&b, records, 2); err != nil {
		return fmt.Sprintf("Failed to render days: %v", err)
	}
	return strings.TrimRight(strings.Join([]string{title, cards, spark, "", b.String()}, "\n"), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func runColumns() []table.Column {
	widths := []int{5, 16, 8, 5, 8, 8, 8, 8, 9}
	columns := make([]table.Column, len(widths))
	for i, w := range widths {
		columns[i] = table.Column{Title: stats.RunTableHeaders[i], Width: w}
	}
	return columns
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	soil := m.cfg.Soil
	if soil == "" {
		soil = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := truncateLine(fmt.Sprintf("Filter: soil=%s  since=%s  last=%s  runs=%d", soil, since, last, len(m.report.Runs)), m.width)
	return m.renderTabs() + "\n" + headerStyle.Render(summary)
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return "Filter runs (enter to apply, esc to cancel)\n" + m.filterInput.View()
	}
	if m.activeTab == tabRuns {
		if len(m.report.Runs) == 0 {
			return "No runs found."
		}
		return tableMutedStyle.Render(m.runs.View())
	}
	return m.days.View()
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Move: up/down  Open: enter  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
