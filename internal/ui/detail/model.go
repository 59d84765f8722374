package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/keys"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// BackMsg signals the parent to navigate back to the board.
type BackMsg struct{}

// TaskLoadedMsg carries the loaded task.
type TaskLoadedMsg struct {
	Task *model.Task
}

// TransitionMsg asks the parent to start a status change for the
// displayed task.
type TransitionMsg struct {
	Task model.Task
}

// Model is the task detail view.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	store    store.Store
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Load returns a tea.Cmd that reads the task from the local mirror.
func (m Model) Load(taskID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		task, err := s.GetTaskByID(context.Background(), taskID)
		if err != nil {
			return TaskLoadedMsg{Task: nil}
		}
		return TaskLoadedMsg{Task: task}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TaskLoadedMsg:
		m.task = msg.Task
		m.loading = false
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Transition):
			if m.task != nil {
				task := *m.task
				return m, func() tea.Msg {
					return TransitionMsg{Task: task}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading task...")
	}

	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: status + priority + overdue
	statusBadge := theme.StatusStyle(task.Status).Render(task.Status.Display())
	priBadge := theme.PriorityStyle(task.Priority).Render(
		strings.ToUpper(task.Priority),
	)

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, statusBadge, "  ", priBadge,
	)
	if task.Overdue() {
		badgeLine = lipgloss.JoinHorizontal(
			lipgloss.Top, badgeLine, "  ",
			theme.OverdueStyle.Render("OVERDUE"),
		)
	}
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if task.AssigneeName != "" {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Assignee:"),
			valStyle.Render(task.AssigneeName),
		))
	}
	if task.Category != "" {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Category:"),
			valStyle.Render(task.Category),
		))
	}
	if !task.DueDate.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s       %s",
			metaStyle.Render("Due:"),
			valStyle.Render(task.DueDate.Format("2006-01-02")),
		))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(task.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	if !task.UpdatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Updated:"),
			valStyle.Render(task.UpdatedAt.Format("2006-01-02 15:04")),
		))
	}
	if !task.FetchedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s    %s",
			metaStyle.Render("Synced:"),
			valStyle.Render(task.FetchedAt.Format("2006-01-02 15:04")),
		))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	// Description
	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections = append(sections, descHeaderStyle.Render("Description"))

	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	// Available transitions
	nexts := model.TransitionsFrom(task.Status)
	if len(nexts) > 0 {
		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")
		sections = append(sections, descHeaderStyle.Render("Actions (press t)"))
		for _, tr := range nexts {
			sections = append(sections, fmt.Sprintf(
				"%s %s",
				theme.StatusStyle(tr.To).Render("→"),
				valStyle.Render(tr.Label),
			))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask updates the task being displayed and re-renders the content.
func (m *Model) SetTask(task *model.Task) {
	m.task = task
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// Task returns the task currently on display.
func (m Model) Task() *model.Task {
	return m.task
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
