package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// SubmitMsg carries the credentials of a submitted login form.
type SubmitMsg struct {
	Email    string
	Password string
}

// ShowRegisterMsg asks the parent to switch to the registration form.
type ShowRegisterMsg struct{}

// ShowForgotMsg asks the parent to switch to the password-reset flow.
type ShowForgotMsg struct{}

// QuitMsg asks the parent to exit the program.
type QuitMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the Bubble Tea model for the sign-in form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	errMsg  string
	busy    bool
	width   int
	height  int
}

// New creates a new login form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start (re)initializes the form. Called on first show and after a
// failed attempt so the user can retry.
func (m *Model) Start() tea.Cmd {
	m.busy = false
	m.fb.password = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// SetError records a failed login; the form is rebuilt so the user
// can retry.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	return m.Start()
}

// SetBusy marks the form as waiting on the backend.
func (m *Model) SetBusy() {
	m.busy = true
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+n":
			return m, func() tea.Msg { return ShowRegisterMsg{} }
		case "ctrl+f":
			return m, func() tea.Msg { return ShowForgotMsg{} }
		}
	}

	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		m.errMsg = ""
		email := strings.TrimSpace(m.fb.email)
		password := m.fb.password
		return m, func() tea.Msg {
			return SubmitMsg{Email: email, Password: password}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return QuitMsg{} }
	}

	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Employee Management — Sign In")}

	if m.busy {
		parts = append(parts, theme.HelpStyle.Render("Signing in..."))
	} else if m.form != nil {
		parts = append(parts, m.form.View())
	}

	if m.errMsg != "" {
		parts = append(parts, theme.OverdueStyle.Render(m.errMsg))
	}

	parts = append(parts, theme.HelpStyle.Render(
		"ctrl+n register | ctrl+f forgot password | esc quit",
	))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// validateRequired returns a validator rejecting empty input.
func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

// validateEmail rejects values that cannot be email addresses. Real
// validation belongs to the backend; this only catches obvious typos
// before a request is sent.
func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return fmt.Errorf("Enter a valid email address")
	}
	return nil
}
