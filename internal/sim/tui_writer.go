package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"impactsim/internal/report"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// rowMsg carries a result row for the comparison table.
type rowMsg struct{ report.Row }

// TUIWriter renders result rows in a bubbletea dashboard.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter() *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	p := tea.NewProgram(newTUIModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
	}()
	return w
}

// Write implements ResultWriter.
func (w *TUIWriter) Write(row report.Row) error {
	line := fmt.Sprintf("[%s] scenario=%s label=%s strategy=%s energy=%.4g Mt crater=%.1f m lethal=%.2f km pop_lethal=%.0f",
		row.Timestamp.Format(time.RFC3339),
		row.Scenario, row.Label, row.Strategy,
		row.EnergyMegatons, row.CraterDiameterM,
		row.LethalRadiusM/1000, row.PopulationLethal)
	w.program.Send(logMsg{line: line})
	w.program.Send(rowMsg{row})
	return nil
}

// WriteBatch outputs multiple result rows.
func (w *TUIWriter) WriteBatch(rows []report.Row) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// Wait blocks until the user quits the dashboard.
func (w *TUIWriter) Wait() {
	<-w.done
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("17")).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tuiModel struct {
	table      table.Model
	vp         viewport.Model
	logs       []string
	rows       []report.Row
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newTUIModel() tuiModel {
	cols := []table.Column{
		{Title: "Scenario", Width: 20},
		{Title: "Label", Width: 7},
		{Title: "Strategy", Width: 18},
		{Title: "Energy (Mt)", Width: 12},
		{Title: "Crater (m)", Width: 11},
		{Title: "Lethal (km)", Width: 11},
		{Title: "Severe (km)", Width: 11},
		{Title: "Moderate (km)", Width: 13},
		{Title: "Pop lethal", Width: 11},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return tuiModel{
		table:      t,
		vp:         viewport.New(0, 0),
		wrap:       true,
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width - 4
		m.vp.Height = max(3, msg.Height-m.table.Height()-8)
		m.refreshLog()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshLog()
		case "a":
			m.autoscroll = !m.autoscroll
		case "up", "k":
			m.vp.ScrollUp(1)
		case "down", "j":
			m.vp.ScrollDown(1)
		}
	case rowMsg:
		m.rows = append(m.rows, msg.Row)
		m.table.SetRows(m.tableRows())
	case logMsg:
		m.logs = append(m.logs, msg.line)
		m.refreshLog()
	}
	return m, nil
}

func (m *tuiModel) tableRows() []table.Row {
	out := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, table.Row{
			r.Scenario,
			r.Label,
			r.Strategy,
			fmt.Sprintf("%.4g", r.EnergyMegatons),
			fmt.Sprintf("%.1f", r.CraterDiameterM),
			fmt.Sprintf("%.2f", r.LethalRadiusM/1000),
			fmt.Sprintf("%.2f", r.SevereRadiusM/1000),
			fmt.Sprintf("%.2f", r.ModerateRadiusM/1000),
			fmt.Sprintf("%.0f", r.PopulationLethal),
		})
	}
	return out
}

func (m *tuiModel) refreshLog() {
	lines := m.logs
	if m.wrap && m.vp.Width > 0 {
		wrapped := make([]string, 0, len(lines))
		for _, l := range lines {
			wrapped = append(wrapped, wordwrap.String(l, m.vp.Width))
		}
		lines = wrapped
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("impactsim — before/after comparison"))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(m.vp.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit · w wrap · a autoscroll · j/k scroll"))
	return b.String()
}
