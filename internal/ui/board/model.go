package board

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/keys"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// Mode selects the board flavor: the employee's own board or the
// admin's task list.
type Mode int

const (
	// ModeEmployee shows the signed-in employee's tasks and offers
	// status transitions.
	ModeEmployee Mode = iota

	// ModeAdmin shows tasks across employees and offers assignment
	// and deletion on top of transitions.
	ModeAdmin
)

// TasksLoadedMsg is sent when board rows have been loaded from the
// local mirror.
type TasksLoadedMsg struct {
	Tasks []model.Task
}

// CountsLoadedMsg carries the per-status counts for the filter bar.
type CountsLoadedMsg struct {
	Counts model.TaskCounts
}

// SelectedTaskMsg is sent when a task is opened for detail view.
type SelectedTaskMsg struct {
	TaskID string
}

// TransitionRequestMsg asks the parent to start a status change for
// the selected task.
type TransitionRequestMsg struct {
	Task model.Task
}

// EditTaskMsg asks the parent to open the edit form for a task.
type EditTaskMsg struct {
	TaskID string
}

// DeleteTaskMsg asks the parent to delete a task (after confirmation).
type DeleteTaskMsg struct {
	TaskID string
	Title  string
}

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"due_date",
	"priority",
	"title",
	"status",
	"updated_at",
}

// Model is the task board: a filterable, sortable list of tasks backed
// by the local mirror.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	mode        Mode
	filter      store.TaskFilter
	counts      model.TaskCounts
	sortIndex   int
	searchMode  bool
	searchInput textinput.Model
	stale       bool
	width       int
	height      int
}

// New creates a new board view model. assignedTo narrows the board to
// a single employee's tasks; empty shows all reachable tasks.
func New(s store.Store, k *keys.KeyMap, mode Mode, title, assignedTo string, width, height int) Model {
	delegate := TaskDelegate{ShowAssignee: mode == ModeAdmin && assignedTo == ""}
	l := list.New([]list.Item{}, delegate, width, height-4)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	filter := store.TaskFilter{SortBy: "due_date"}
	if assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		mode:        mode,
		filter:      filter,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial board.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.LoadTasks(), m.LoadCounts())
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		items := make([]list.Item, len(msg.Tasks))
		for i, t := range msg.Tasks {
			items[i] = TaskItem{Task: t}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case CountsLoadedMsg:
		m.counts = msg.Counts
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.filter.Query = &query
		} else {
			m.filter.Query = nil
		}
		return m, m.LoadTasks()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = nil
		return m, m.LoadTasks()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Transition):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return TransitionRequestMsg{Task: item.Task}
		}

	case key.Matches(msg, m.keys.Edit):
		if m.mode != ModeAdmin {
			return m, nil
		}
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return EditTaskMsg{TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Delete):
		if m.mode != ModeAdmin {
			return m, nil
		}
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return DeleteTaskMsg{
				TaskID: item.Task.ID,
				Title:  item.Task.Title,
			}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.filter.SortBy = sortModes[m.sortIndex]
		m.filter.SortDesc = m.filter.SortBy == "updated_at"
		return m, m.LoadTasks()

	case key.Matches(msg, m.keys.FilterNew):
		return m.toggleStatus(model.StatusNew)
	case key.Matches(msg, m.keys.FilterActive):
		return m.toggleStatus(model.StatusActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		return m.toggleStatus(model.StatusCompleted)
	case key.Matches(msg, m.keys.FilterFailed):
		return m.toggleStatus(model.StatusFailed)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleStatus narrows the board to one status column, or widens it
// back when the same column is toggled again.
func (m Model) toggleStatus(s model.Status) (Model, tea.Cmd) {
	if m.filter.Status != nil && *m.filter.Status == string(s) {
		m.filter.Status = nil
	} else {
		status := string(s)
		m.filter.Status = &status
	}
	return m, m.LoadTasks()
}

// View renders the board with the status filter bar on top.
func (m Model) View() string {
	filterBar := m.renderFilterBar()

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(
			lipgloss.Left, filterBar, searchBar, m.list.View(),
		)
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left, filterBar, m.renderEmptyState(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, filterBar, m.list.View())
}

// renderFilterBar draws one segment per status with its count,
// highlighting the active column filter.
func (m Model) renderFilterBar() string {
	segments := make([]string, 0, len(model.AllStatuses)+1)

	for i, s := range model.AllStatuses {
		count := 0
		switch s {
		case model.StatusNew:
			count = m.counts.NewTask
		case model.StatusActive:
			count = m.counts.Active
		case model.StatusCompleted:
			count = m.counts.Completed
		case model.StatusFailed:
			count = m.counts.Failed
		}

		label := fmt.Sprintf("%d:%s %d", i+1, s.Display(), count)
		style := theme.StatusStyle(s)
		if m.filter.Status != nil && *m.filter.Status == string(s) {
			style = style.Underline(true)
		}
		segments = append(segments, style.Render(label))
	}

	segments = append(segments, theme.HelpStyle.Render(
		"sort: "+m.filter.SortBy,
	))

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, segments...),
	)
}

// renderEmptyState shows guidance text when no tasks match.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.filter.Query != nil:
		return style.Render("No matching tasks.\nTry adjusting your search.")
	case m.filter.Status != nil:
		return style.Render("No tasks in this column.\nPress the same number again to show all.")
	default:
		return style.Render("No tasks yet.\nPress r to refresh from the backend.")
	}
}

// LoadTasks returns a tea.Cmd that queries the local mirror with the
// current filter.
func (m Model) LoadTasks() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		tasks, err := s.GetTasks(context.Background(), filter)
		if err != nil {
			return TasksLoadedMsg{Tasks: nil}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// LoadCounts returns a tea.Cmd that recomputes the filter bar counts.
// Counts ignore the column filter so all four segments stay visible.
func (m Model) LoadCounts() tea.Cmd {
	filter := store.TaskFilter{AssignedTo: m.filter.AssignedTo}
	s := m.store
	return func() tea.Msg {
		tasks, err := s.GetTasks(context.Background(), filter)
		if err != nil {
			return CountsLoadedMsg{}
		}

		var counts model.TaskCounts
		for _, t := range tasks {
			switch t.Status {
			case model.StatusNew:
				counts.NewTask++
			case model.StatusActive:
				counts.Active++
			case model.StatusCompleted:
				counts.Completed++
			case model.StatusFailed:
				counts.Failed++
			}
			counts.Total++
		}
		return CountsLoadedMsg{Counts: counts}
	}
}

// SetStale flags whether the last refresh failed, so rows render a
// warning marker next to possibly outdated data.
func (m *Model) SetStale(stale bool) {
	m.stale = stale
	m.list.SetDelegate(TaskDelegate{
		ShowAssignee: m.mode == ModeAdmin && m.filter.AssignedTo == nil,
		Stale:        stale,
	})
}

// Reload returns commands that refresh both the rows and the counts.
func (m Model) Reload() tea.Cmd {
	return tea.Batch(m.LoadTasks(), m.LoadCounts())
}

// Searching reports whether the search input has keyboard focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// AssignedTo returns the employee the board is narrowed to, if any.
func (m Model) AssignedTo() string {
	if m.filter.AssignedTo == nil {
		return ""
	}
	return *m.filter.AssignedTo
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
	m.searchInput.Width = width - 4
}
