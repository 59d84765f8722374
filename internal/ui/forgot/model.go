package forgot

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// RequestMsg asks the parent to request a password-reset mail.
type RequestMsg struct {
	Email string
}

// ResetMsg asks the parent to set a new password with a reset token.
type ResetMsg struct {
	Token    string
	Password string
}

// CancelMsg asks the parent to return to the login form.
type CancelMsg struct{}

// phase tracks which half of the flow the form is in.
type phase int

const (
	phaseRequest phase = iota
	phaseReset
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	token    string
	password string
}

// Model is the Bubble Tea model for the two-step password-reset flow:
// request a reset mail, then redeem the token it contains.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	phase   phase
	infoMsg string
	errMsg  string
	busy    bool
	width   int
	height  int
}

// New creates a new password-reset flow model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the flow at the request step.
func (m *Model) Start() tea.Cmd {
	m.phase = phaseRequest
	m.busy = false
	m.infoMsg = ""
	m.errMsg = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// StartReset advances to the token-redemption step, showing the
// backend's acknowledgment from the request step.
func (m *Model) StartReset(info string) tea.Cmd {
	m.phase = phaseReset
	m.busy = false
	m.infoMsg = info
	m.errMsg = ""
	m.fb.token = ""
	m.fb.password = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reset token").
				Placeholder("from the reset email").
				Value(&m.fb.token).
				Validate(validateRequired("Reset token")),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// SetError records a failed request and rebuilds the current step.
func (m *Model) SetError(msg string) tea.Cmd {
	if m.phase == phaseReset {
		info := m.infoMsg
		cmd := m.StartReset(info)
		m.errMsg = msg
		return cmd
	}
	cmd := m.Start()
	m.errMsg = msg
	return cmd
}

// Update handles messages for the password-reset flow.
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
		if m.phase == phaseRequest {
			email := strings.TrimSpace(m.fb.email)
			return m, func() tea.Msg { return RequestMsg{Email: email} }
		}
		reset := ResetMsg{
			Token:    strings.TrimSpace(m.fb.token),
			Password: m.fb.password,
		}
		return m, func() tea.Msg { return reset }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the password-reset flow.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "Forgot Password"
	if m.phase == phaseReset {
		title = "Reset Password"
	}

	parts := []string{titleStyle.Render(title)}

	if m.infoMsg != "" {
		parts = append(parts, theme.HelpStyle.Render(m.infoMsg))
	}

	if m.busy {
		parts = append(parts, theme.HelpStyle.Render("Contacting backend..."))
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
