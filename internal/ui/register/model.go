package register

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/api"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// SubmitMsg carries a completed registration form.
type SubmitMsg struct {
	Role  model.Role
	Input api.RegisterInput
}

// CancelMsg asks the parent to return to the login form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	role      string
	firstName string
	email     string
	password  string
	confirm   string
}

// Model is the Bubble Tea model for the registration form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	errMsg string
	busy   bool
	width  int
	height int
}

// New creates a new registration form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{role: string(model.RoleEmployee)},
		width:  width,
		height: height,
	}
}

// Start (re)initializes the form.
func (m *Model) Start() tea.Cmd {
	m.busy = false
	m.fb.password = ""
	m.fb.confirm = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account type").
				Options(
					huh.NewOption("Employee", string(model.RoleEmployee)),
					huh.NewOption("Admin", string(model.RoleAdmin)),
				).
				Value(&m.fb.role),
			huh.NewInput().
				Title("First name").
				Value(&m.fb.firstName).
				Validate(validateRequired("First name")),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(m.validateConfirm),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// SetError records a failed registration; the form is rebuilt so the
// user can retry.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	return m.Start()
}

// Update handles messages for the registration form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
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
		submit := SubmitMsg{
			Role: model.Role(m.fb.role),
			Input: api.RegisterInput{
				FirstName: strings.TrimSpace(m.fb.firstName),
				Email:     strings.TrimSpace(m.fb.email),
				Password:  m.fb.password,
			},
		}
		return m, func() tea.Msg { return submit }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the registration form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Create Account")}

	if m.busy {
		parts = append(parts, theme.HelpStyle.Render("Creating account..."))
	} else if m.form != nil {
		parts = append(parts, m.form.View())
	}

	if m.errMsg != "" {
		parts = append(parts, theme.OverdueStyle.Render(m.errMsg))
	}

	parts = append(parts, theme.HelpStyle.Render("esc back to sign in"))

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

// validateConfirm checks the password confirmation against the
// password field.
func (m *Model) validateConfirm(s string) error {
	if s != m.fb.password {
		return fmt.Errorf("Passwords do not match")
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

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

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("Password must be at least 6 characters")
	}
	return nil
}
