package roster

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

// EmployeesLoadedMsg is sent when roster entries have been loaded from
// the local mirror.
type EmployeesLoadedMsg struct {
	Employees []model.Employee
}

// StatsLoadedMsg carries the latest dashboard stats snapshot.
type StatsLoadedMsg struct {
	Stats *model.DashboardStats
}

// SelectedEmployeeMsg is sent when the admin opens an employee's tasks.
type SelectedEmployeeMsg struct {
	EmployeeID string
	Name       string
}

// DeleteEmployeeMsg asks the parent to delete an employee (after
// confirmation).
type DeleteEmployeeMsg struct {
	EmployeeID string
	Name       string
}

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"first_name",
	"email",
	"total",
	"completed",
}

// Model is the admin roster view: the employee list with the stats
// panel above it.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	filter      store.EmployeeFilter
	stats       *model.DashboardStats
	sortIndex   int
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new roster view model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	delegate := EmployeeDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-6)
	l.Title = "Employees"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search employees..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:  l,
		store: s,
		keys:  k,
		filter: store.EmployeeFilter{
			SortBy: "first_name",
		},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial roster.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.LoadEmployees(), m.LoadStats())
}

// Update handles messages for the roster view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EmployeesLoadedMsg:
		items := make([]list.Item, len(msg.Employees))
		for i, e := range msg.Employees {
			items[i] = EmployeeItem{Employee: e}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case StatsLoadedMsg:
		m.stats = msg.Stats
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
		return m, m.LoadEmployees()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = nil
		return m, m.LoadEmployees()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(EmployeeItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedEmployeeMsg{
				EmployeeID: item.Employee.ID,
				Name:       item.Employee.FirstName,
			}
		}

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(EmployeeItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return DeleteEmployeeMsg{
				EmployeeID: item.Employee.ID,
				Name:       item.Employee.FirstName,
			}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.filter.SortBy = sortModes[m.sortIndex]
		m.filter.SortDesc = m.filter.SortBy == "total" ||
			m.filter.SortBy == "completed"
		return m, m.LoadEmployees()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the roster view with the stats panel on top.
func (m Model) View() string {
	statsPanel := m.renderStats()

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(
			lipgloss.Left, statsPanel, searchBar, m.list.View(),
		)
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left, statsPanel, m.renderEmptyState(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, statsPanel, m.list.View())
}

// renderStats draws the dashboard counters row. A missing snapshot
// renders zeroes; the roster below stays fully usable.
func (m Model) renderStats() string {
	var stats model.DashboardStats
	if m.stats != nil {
		stats = *m.stats
	}

	panels := []string{
		theme.StatPanelStyle.Render(
			fmt.Sprintf("Employees\n%d", stats.Employees),
		),
		theme.StatPanelStyle.Render(
			fmt.Sprintf("Tasks\n%d", stats.Tasks),
		),
	}
	for _, s := range model.AllStatuses {
		count := 0
		switch s {
		case model.StatusNew:
			count = stats.Counts.NewTask
		case model.StatusActive:
			count = stats.Counts.Active
		case model.StatusCompleted:
			count = stats.Counts.Completed
		case model.StatusFailed:
			count = stats.Counts.Failed
		}
		panels = append(panels, theme.StatPanelStyle.Render(
			theme.StatusStyle(s).Render(s.Display())+
				fmt.Sprintf("\n%d", count),
		))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// renderEmptyState shows guidance text when the roster is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 6).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Query != nil {
		return style.Render("No matching employees.\nTry adjusting your search.")
	}

	return style.Render("No employees yet.\nPress r to refresh from the backend.")
}

// LoadEmployees returns a tea.Cmd that queries the local mirror with
// the current filter.
func (m Model) LoadEmployees() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		employees, err := s.GetEmployees(context.Background(), filter)
		if err != nil {
			return EmployeesLoadedMsg{Employees: nil}
		}
		return EmployeesLoadedMsg{Employees: employees}
	}
}

// LoadStats returns a tea.Cmd that reads the latest stats snapshot.
func (m Model) LoadStats() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		stats, err := s.LatestStats(context.Background())
		if err != nil {
			return StatsLoadedMsg{Stats: nil}
		}
		return StatsLoadedMsg{Stats: stats}
	}
}

// Searching reports whether the search input has keyboard focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-6)
	m.searchInput.Width = width - 4
}
