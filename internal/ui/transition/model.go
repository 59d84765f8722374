package transition

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// ChosenMsg is dispatched when the user picks and confirms a status
// change.
type ChosenMsg struct {
	TaskID string
	To     model.Status
	Label  string
}

// CancelMsg is dispatched when the user abandons the picker.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	to        model.Status
	confirmed bool
}

// Model is the status change picker: a select over the transitions
// legal from the task's current status, plus a confirmation step.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	task   model.Task
	width  int
	height int
}

// New creates a new transition picker model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start configures the picker for the given task and returns the
// command that activates it. Returns nil when no transition is legal.
func (m *Model) Start(task model.Task) tea.Cmd {
	nexts := model.TransitionsFrom(task.Status)
	if len(nexts) == 0 {
		return nil
	}

	m.task = task
	m.fb.to = nexts[0].To
	m.fb.confirmed = false

	opts := make([]huh.Option[model.Status], len(nexts))
	for i, tr := range nexts {
		opts[i] = huh.NewOption(tr.Label, tr.To)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Status]().
				Title("Change status").
				Description("Current: "+task.Status.Display()).
				Options(opts...).
				Value(&m.fb.to),
			huh.NewConfirm().
				Title("Apply this change?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.confirmed),
		),
	).WithWidth(min(m.width-4, 60))

	return m.form.Init()
}

// Update handles messages for the picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if !m.fb.confirmed {
			return m, func() tea.Msg { return CancelMsg{} }
		}
		taskID := m.task.ID
		to := m.fb.to
		label := model.TransitionLabel(m.task.Status, to)
		return m, func() tea.Msg {
			return ChosenMsg{TaskID: taskID, To: to, Label: label}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the picker.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.task.Title) + "\n" + m.form.View()

	return theme.BorderStyle.
		Padding(1, 2).
		Render(content)
}

// SetSize updates the picker dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
