package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// ResultMsg reports the user's answer. Payload is the value passed to
// Start, handed back untouched so the parent knows what was confirmed.
type ResultMsg struct {
	Confirmed bool
	Payload   any
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	confirmed bool
}

// Model is a reusable yes/no confirmation dialog.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	title   string
	payload any
	width   int
	height  int
}

// New creates a new confirmation dialog model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start configures the dialog with a prompt and an opaque payload and
// returns the command that activates it.
func (m *Model) Start(title, prompt string, payload any) tea.Cmd {
	m.title = title
	m.payload = payload
	m.fb.confirmed = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.confirmed),
		),
	).WithWidth(min(m.width-4, 60))

	return m.form.Init()
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		confirmed := m.fb.confirmed
		payload := m.payload
		return m, func() tea.Msg {
			return ResultMsg{Confirmed: confirmed, Payload: payload}
		}
	}
	if m.form.State == huh.StateAborted {
		payload := m.payload
		return m, func() tea.Msg {
			return ResultMsg{Confirmed: false, Payload: payload}
		}
	}

	return m, cmd
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.title) + "\n" + m.form.View()

	return theme.BorderStyle.
		Padding(1, 2).
		Render(content)
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
