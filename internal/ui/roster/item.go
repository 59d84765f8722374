package roster

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// EmployeeItem wraps a model.Employee so it can be used in a bubbles/list.
type EmployeeItem struct {
	Employee model.Employee
}

// FilterValue returns the string used for fuzzy filtering.
func (i EmployeeItem) FilterValue() string { return i.Employee.FirstName }

// Title returns the employee name for the list.
func (i EmployeeItem) Title() string { return i.Employee.FirstName }

// Description returns a short summary line for the list.
func (i EmployeeItem) Description() string {
	c := i.Employee.TaskCounts
	return fmt.Sprintf(
		"%s | %d tasks (%d new, %d active, %d done, %d failed)",
		i.Employee.Email, c.Total, c.NewTask, c.Active, c.Completed, c.Failed,
	)
}

// EmployeeDelegate implements list.ItemDelegate for roster rows.
type EmployeeDelegate struct{}

// Height returns the number of lines each item takes.
func (d EmployeeDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d EmployeeDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d EmployeeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single roster line: name, email, per-status counts,
// and the completion rate.
func (d EmployeeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EmployeeItem)
	if !ok {
		return
	}

	e := ei.Employee
	c := e.TaskCounts

	name := lipgloss.NewStyle().Bold(true).Render(e.FirstName)
	email := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(e.Email)

	counts := fmt.Sprintf(
		"%s %s %s %s",
		theme.StatusStyle(model.StatusNew).Render(fmt.Sprintf("N:%d", c.NewTask)),
		theme.StatusStyle(model.StatusActive).Render(fmt.Sprintf("A:%d", c.Active)),
		theme.StatusStyle(model.StatusCompleted).Render(fmt.Sprintf("C:%d", c.Completed)),
		theme.StatusStyle(model.StatusFailed).Render(fmt.Sprintf("F:%d", c.Failed)),
	)

	rate := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%d%% done", e.CompletionRate()))

	line := fmt.Sprintf("● %s %s %s  %s", name, email, counts, rate)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
