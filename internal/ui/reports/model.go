package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/keys"
	"github.com/Ruhithpasha/emsfrontend/internal/report"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// BackMsg signals the parent to navigate back to the roster.
type BackMsg struct{}

// BuiltMsg carries a freshly assembled report.
type BuiltMsg struct {
	Summary *report.Summary
	Err     error
}

// ExportedMsg reports the outcome of a file export.
type ExportedMsg struct {
	Path string
	Err  error
}

// Model is the admin workload report view.
type Model struct {
	summary   *report.Summary
	viewport  viewport.Model
	store     store.Store
	keys      *keys.KeyMap
	exportDir string
	notice    string
	width     int
	height    int
	loading   bool
}

// New creates a new reports view model. exportDir receives CSV and
// XLSX files.
func New(s store.Store, k *keys.KeyMap, exportDir string, width, height int) Model {
	vp := viewport.New(width, height-3)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport:  vp,
		store:     s,
		keys:      k,
		exportDir: exportDir,
		width:     width,
		height:    height,
	}
}

// Init returns the initial command for the reports view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Build returns a tea.Cmd that assembles the report from the mirror.
func (m Model) Build() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		sum, err := report.Build(context.Background(), s)
		return BuiltMsg{Summary: sum, Err: err}
	}
}

// Update handles messages for the reports view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BuiltMsg:
		m.loading = false
		if msg.Err != nil {
			m.notice = "Report failed: " + msg.Err.Error()
			return m, nil
		}
		m.summary = msg.Summary
		m.notice = ""
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.notice = "Export failed: " + msg.Err.Error()
		} else {
			m.notice = "Exported " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case msg.String() == "c":
			return m, m.export(report.FormatCSV)

		case msg.String() == "x":
			return m, m.export(report.FormatXLSX)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// export returns a tea.Cmd that writes the current summary to disk.
func (m Model) export(format report.Format) tea.Cmd {
	if m.summary == nil {
		return nil
	}
	sum := m.summary
	dir := m.exportDir
	return func() tea.Msg {
		path, err := report.Export(sum, dir, format)
		return ExportedMsg{Path: path, Err: err}
	}
}

// View renders the reports view.
func (m Model) View() string {
	if m.loading || m.summary == nil {
		style := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		if m.notice != "" {
			return style.Render(m.notice)
		}
		return style.Render("Building report...")
	}

	footer := theme.HelpStyle.Render("c: export CSV  x: export XLSX  esc: back")
	if m.notice != "" {
		footer = lipgloss.NewStyle().
			Foreground(theme.ColorGreen).
			Render(m.notice)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left, m.viewport.View(), footer,
	)
}

// renderContent builds the report table string for the viewport.
func (m Model) renderContent() string {
	sum := m.summary
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render("Workload Report"))
	sections = append(sections, theme.HelpStyle.Render(
		"generated "+sum.GeneratedAt.Format("2006-01-02 15:04:05"),
	))
	sections = append(sections, "")

	sections = append(sections, fmt.Sprintf(
		"%s %d   %s %d",
		theme.HeaderStyle.Render("Employees"), sum.Stats.Employees,
		theme.HeaderStyle.Render("Tasks"), sum.Stats.Tasks,
	))
	sections = append(sections, "")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGray)
	sections = append(sections, headerStyle.Render(fmt.Sprintf(
		"%-20s %-28s %4s %4s %4s %4s %6s %8s %8s",
		"Employee", "Email", "New", "Act", "Cmp", "Fail", "Total", "Done%", "Overdue",
	)))

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	sections = append(sections, sepStyle.Render(
		strings.Repeat("─", min(m.width-4, 96)),
	))

	for _, r := range sum.Rows {
		line := fmt.Sprintf(
			"%-20s %-28s %4d %4d %4d %4d %6d %7d%% %8d",
			truncate(r.Name, 20), truncate(r.Email, 28),
			r.Counts.NewTask, r.Counts.Active,
			r.Counts.Completed, r.Counts.Failed,
			r.Counts.Total, r.CompletionRate, r.Overdue,
		)
		if r.Overdue > 0 {
			line = theme.OverdueStyle.Render(line)
		}
		sections = append(sections, line)
	}

	if len(sum.Rows) == 0 {
		sections = append(sections, theme.HelpStyle.Render(
			"No employees in the roster yet.",
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 3
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
