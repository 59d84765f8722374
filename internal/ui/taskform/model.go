package taskform

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/api"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// SubmitMsg is dispatched when the assignment form is submitted.
// TaskID is empty for a new assignment and set when editing.
type SubmitMsg struct {
	TaskID string
	Input  api.TaskInput
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	dueDate     string
	category    string
	priority    string
	assignedTo  string
}

// Model is the admin task assignment form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	editID    string
	employees []model.Employee
	width     int
	height    int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// SetEmployees sets the roster used for the assignee selector.
func (m *Model) SetEmployees(employees []model.Employee) {
	m.employees = employees
}

// StartCreate initializes the form for assigning a new task.
// preselected picks the assignee up front, for the per-employee board.
func (m *Model) StartCreate(preselected string) tea.Cmd {
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.dueDate = ""
	m.fb.category = ""
	m.fb.priority = model.PriorityMedium
	m.fb.assignedTo = preselected
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editID = task.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.category = task.Category
	m.fb.priority = task.Priority
	m.fb.assignedTo = task.AssignedTo
	if !task.DueDate.IsZero() {
		m.fb.dueDate = task.DueDate.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Assign Task"
	if m.editID != "" {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs doing?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Category").
			Placeholder("design, dev, qa...").
			Value(&m.fb.category),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		m.assigneeField(),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := make([]huh.Option[string], 0, len(m.employees))
	for _, e := range m.employees {
		label := fmt.Sprintf("%s (%s)", e.FirstName, e.Email)
		opts = append(opts, huh.NewOption(label, e.ID))
	}
	return huh.NewSelect[string]().
		Title("Assign To").
		Options(opts...).
		Value(&m.fb.assignedTo).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("an assignee is required")
			}
			return nil
		})
}

func (m Model) handleSubmit() tea.Cmd {
	input := api.TaskInput{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		DueDate:     strings.TrimSpace(m.fb.dueDate),
		Category:    strings.TrimSpace(m.fb.category),
		Priority:    m.fb.priority,
		AssignedTo:  m.fb.assignedTo,
	}

	editID := m.editID
	return func() tea.Msg {
		return SubmitMsg{TaskID: editID, Input: input}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
