package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ruhithpasha/emsfrontend/internal/api"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
)

// bootMsg kicks off initial routing once the program is running.
type bootMsg struct{}

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	res *api.AuthResult
	err error
}

// registerResultMsg carries the outcome of a registration attempt.
type registerResultMsg struct {
	res *api.AuthResult
	err error
}

// forgotResultMsg carries the outcome of a password-reset request.
type forgotResultMsg struct {
	info string
	err  error
}

// resetResultMsg carries the outcome of a password reset.
type resetResultMsg struct {
	err error
}

// transitionResultMsg carries the outcome of a status update.
type transitionResultMsg struct {
	label string
	err   error
}

// taskSavedMsg carries the outcome of a task create or update.
type taskSavedMsg struct {
	created bool
	err     error
}

// taskDeletedMsg carries the outcome of a task deletion.
type taskDeletedMsg struct {
	err error
}

// employeeDeletedMsg carries the outcome of an employee deletion.
type employeeDeletedMsg struct {
	name string
	err  error
}

// rosterLoadedMsg carries employees for the assignment form selector.
type rosterLoadedMsg struct {
	employees []model.Employee
}

// editLoadedMsg carries a freshly fetched task plus the roster for the
// edit form.
type editLoadedMsg struct {
	task      *model.Task
	employees []model.Employee
	err       error
}

// confirmEmployeeMsg carries the employee's current record so the
// delete confirmation can state what is being removed.
type confirmEmployeeMsg struct {
	id   string
	name string
	emp  *model.Employee
	err  error
}

// employeeTasksSyncedMsg reports a targeted mirror update of one
// employee's tasks.
type employeeTasksSyncedMsg struct {
	err error
}

// unreadCountMsg carries the number of unread notifications.
type unreadCountMsg struct {
	count int
}

// deleteTaskPayload identifies the task a confirm dialog is about.
type deleteTaskPayload struct {
	id    string
	title string
}

// deleteEmployeePayload identifies the employee a confirm dialog is
// about.
type deleteEmployeePayload struct {
	id   string
	name string
}

// login returns a command performing the login round trip.
func (m Model) login(email, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		res, err := c.Login(context.Background(), email, password)
		return loginResultMsg{res: res, err: err}
	}
}

// register returns a command performing the registration round trip.
func (m Model) register(role model.Role, in api.RegisterInput) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var (
			res *api.AuthResult
			err error
		)
		if role == model.RoleAdmin {
			res, err = c.RegisterAdmin(context.Background(), in)
		} else {
			res, err = c.RegisterEmployee(context.Background(), in)
		}
		return registerResultMsg{res: res, err: err}
	}
}

// requestReset returns a command asking the backend for a reset mail.
func (m Model) requestReset(email string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		info, err := c.ForgotPassword(context.Background(), email)
		return forgotResultMsg{info: info, err: err}
	}
}

// resetPassword returns a command redeeming a reset token.
func (m Model) resetPassword(token, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.ResetPassword(context.Background(), token, password)
		return resetResultMsg{err: err}
	}
}

// applyTransition returns a command performing a status update.
func (m Model) applyTransition(taskID string, to model.Status, label string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.UpdateTaskStatus(context.Background(), taskID, to)
		return transitionResultMsg{label: label, err: err}
	}
}

// saveTask returns a command creating or updating a task.
func (m Model) saveTask(taskID string, in api.TaskInput) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var err error
		if taskID == "" {
			_, err = c.CreateTask(context.Background(), in)
		} else {
			_, err = c.UpdateTask(context.Background(), taskID, in)
		}
		return taskSavedMsg{created: taskID == "", err: err}
	}
}

// deleteTask returns a command deleting a task.
func (m Model) deleteTask(taskID string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.DeleteTask(context.Background(), taskID)
		return taskDeletedMsg{err: err}
	}
}

// deleteEmployee returns a command deleting an employee.
func (m Model) deleteEmployee(id, name string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.DeleteEmployee(context.Background(), id)
		return employeeDeletedMsg{name: name, err: err}
	}
}

// loadRoster returns a command loading employees from the mirror for
// the assignment form selector.
func (m Model) loadRoster() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		employees, err := s.GetEmployees(context.Background(), store.EmployeeFilter{
			SortBy: "first_name",
		})
		if err != nil {
			return rosterLoadedMsg{}
		}
		return rosterLoadedMsg{employees: employees}
	}
}

// loadTaskForEdit returns a command fetching the task fresh from the
// backend (the mirror may lag another admin's changes) together with
// the roster for the assignee selector.
func (m Model) loadTaskForEdit(taskID string) tea.Cmd {
	c := m.client
	s := m.store
	return func() tea.Msg {
		task, err := c.GetTask(context.Background(), taskID)
		if err != nil {
			return editLoadedMsg{err: err}
		}
		employees, err := s.GetEmployees(context.Background(), store.EmployeeFilter{
			SortBy: "first_name",
		})
		if err != nil {
			return editLoadedMsg{err: err}
		}
		return editLoadedMsg{task: task, employees: employees}
	}
}

// loadEmployeeForDelete returns a command fetching the employee's
// current record before the delete confirmation opens.
func (m Model) loadEmployeeForDelete(id, name string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		emp, err := c.GetEmployee(context.Background(), id)
		return confirmEmployeeMsg{id: id, name: name, emp: emp, err: err}
	}
}

// syncEmployeeTasks returns a command fetching one employee's tasks
// into the mirror, so the drill-down board is fresher than the last
// full refresh.
func (m Model) syncEmployeeTasks(id string) tea.Cmd {
	c := m.client
	s := m.store
	return func() tea.Msg {
		tasks, err := c.EmployeeTasks(context.Background(), id)
		if err != nil {
			return employeeTasksSyncedMsg{err: err}
		}
		return employeeTasksSyncedMsg{err: s.UpsertTasks(context.Background(), tasks)}
	}
}

// fetchUnreadCount returns a command counting unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notifications, err := s.GetUnreadNotifications(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(notifications)}
	}
}

// markNotificationsRead returns a command clearing the unread counter.
func (m Model) markNotificationsRead() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.MarkAllNotificationsRead(context.Background())
		return unreadCountMsg{count: 0}
	}
}
