package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/api"
	"github.com/Ruhithpasha/emsfrontend/internal/keys"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/session"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
	appsync "github.com/Ruhithpasha/emsfrontend/internal/sync"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
	"github.com/Ruhithpasha/emsfrontend/internal/ui"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/board"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/command"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/confirm"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/detail"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/forgot"
	helpview "github.com/Ruhithpasha/emsfrontend/internal/ui/help"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/login"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/register"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/reports"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/roster"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/taskform"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/transition"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewRegister
	ViewForgot
	ViewRoster
	ViewBoard
	ViewDetail
	ViewTaskForm
	ViewTransition
	ViewConfirm
	ViewReports
	ViewHelp
	ViewCommand
	ViewDenied
)

// Model is the root Bubble Tea model that manages view routing,
// session state, and the background refresher.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	client    *api.Client
	store     store.Store
	sessions  *session.Manager
	refresher *appsync.Refresher
	keys      *keys.KeyMap

	loginView      login.Model
	registerView   register.Model
	forgotView     forgot.Model
	rosterView     roster.Model
	boardView      board.Model
	detailView     detail.Model
	taskFormView   taskform.Model
	transitionView transition.Model
	confirmView    confirm.Model
	reportsView    reports.Model
	helpView       helpview.Model
	commandView    command.Model

	session     *model.Session
	notice      string
	noticeError bool
	stale       bool
	unreadCount int
	ready       bool
}

// New creates the root application model. exportDir receives report
// files.
func New(
	client *api.Client,
	s store.Store,
	sessions *session.Manager,
	refresher *appsync.Refresher,
	exportDir string,
) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView:    ViewLogin,
		client:         client,
		store:          s,
		sessions:       sessions,
		refresher:      refresher,
		keys:           k,
		loginView:      login.New(80, 24),
		registerView:   register.New(80, 24),
		forgotView:     forgot.New(80, 24),
		rosterView:     roster.New(s, k, 80, 24),
		boardView:      board.New(s, k, board.ModeEmployee, "My Tasks", "", 80, 24),
		detailView:     detail.New(s, k, 80, 24),
		taskFormView:   taskform.New(80, 24),
		transitionView: transition.New(80, 24),
		confirmView:    confirm.New(80, 24),
		reportsView:    reports.New(s, k, exportDir, 80, 24),
		helpView:       helpview.New(k, 80, 24),
		commandView:    command.New(80, 24),
	}

	if sess, err := sessions.Load(); err == nil && sess != nil {
		m.session = sess
		client.SetToken(sess.Token)
		refresher.SetRole(sess.Role)
	}

	return m
}

// Init schedules the boot message that performs initial routing.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return bootMsg{} }
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.registerView.SetSize(w, h)
		m.forgotView.SetSize(w, h)
		m.rosterView.SetSize(w, h)
		m.boardView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.taskFormView.SetSize(w, h)
		m.transitionView.SetSize(w, h)
		m.confirmView.SetSize(w, h)
		m.reportsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case bootMsg:
		if m.session == nil {
			m.currentView = ViewLogin
			return m, m.loginView.Start()
		}
		if !m.session.Role.Valid() {
			m.currentView = ViewDenied
			return m, nil
		}
		return m.enterHome(m.refresher.Start())

	case appsync.RefreshResultMsg:
		return m.handleRefreshResult(msg)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	// === Auth flows ===

	case login.SubmitMsg:
		m.loginView.SetBusy()
		return m, m.login(msg.Email, msg.Password)

	case login.ShowRegisterMsg:
		m.currentView = ViewRegister
		return m, m.registerView.Start()

	case login.ShowForgotMsg:
		m.currentView = ViewForgot
		return m, m.forgotView.Start()

	case login.QuitMsg:
		m.refresher.Stop()
		return m, tea.Quit

	case loginResultMsg:
		if msg.err != nil {
			return m, m.loginView.SetError(authErrorText(msg.err))
		}
		return m.startSession(msg.res, "Signed in as "+msg.res.Profile.FirstName)

	case register.SubmitMsg:
		return m, m.register(msg.Role, msg.Input)

	case register.CancelMsg:
		m.currentView = ViewLogin
		return m, m.loginView.Start()

	case registerResultMsg:
		if msg.err != nil {
			return m, m.registerView.SetError(authErrorText(msg.err))
		}
		return m.startSession(msg.res, "Welcome, "+msg.res.Profile.FirstName)

	case forgot.RequestMsg:
		return m, m.requestReset(msg.Email)

	case forgot.CancelMsg:
		m.currentView = ViewLogin
		return m, m.loginView.Start()

	case forgotResultMsg:
		if msg.err != nil {
			return m, m.forgotView.SetError(authErrorText(msg.err))
		}
		return m, m.forgotView.StartReset(msg.info)

	case forgot.ResetMsg:
		return m, m.resetPassword(msg.Token, msg.Password)

	case resetResultMsg:
		if msg.err != nil {
			return m, m.forgotView.SetError(authErrorText(msg.err))
		}
		m.currentView = ViewLogin
		m.setNotice("Password updated. Sign in with the new password.", false)
		return m, m.loginView.Start()

	// === Roster (admin) ===

	case roster.SelectedEmployeeMsg:
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		if !m.ready {
			w, h = 80, 24
		}
		m.boardView = board.New(
			m.store, m.keys, board.ModeAdmin,
			msg.Name+"'s Tasks", msg.EmployeeID,
			w, h,
		)
		m.boardView.SetStale(m.stale)
		m.previousView = m.currentView
		m.currentView = ViewBoard
		return m, tea.Batch(
			m.boardView.Init(),
			m.syncEmployeeTasks(msg.EmployeeID),
		)

	case employeeTasksSyncedMsg:
		// The mirror copy still serves when the targeted fetch fails;
		// the periodic refresh covers recovery.
		if msg.err != nil || m.currentView != ViewBoard {
			return m, nil
		}
		return m, m.boardView.Reload()

	case roster.DeleteEmployeeMsg:
		return m, m.loadEmployeeForDelete(msg.EmployeeID, msg.Name)

	case confirmEmployeeMsg:
		prompt := fmt.Sprintf("Delete %s and unassign their tasks?", msg.name)
		if msg.err == nil && msg.emp != nil {
			open := msg.emp.TaskCounts.Total - msg.emp.TaskCounts.Completed
			prompt = fmt.Sprintf(
				"Delete %s? %d open task(s) will be unassigned.",
				msg.name, open,
			)
		}
		m.previousView = m.currentView
		m.currentView = ViewConfirm
		return m, m.confirmView.Start(
			"Delete Employee", prompt,
			deleteEmployeePayload{id: msg.id, name: msg.name},
		)

	case employeeDeletedMsg:
		if msg.err != nil {
			m.setNotice("Delete failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setNotice("Deleted "+msg.name, false)
		return m, tea.Batch(m.refresher.Refresh(), m.rosterView.Init())

	// === Board ===

	case board.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetLoading(true)
		return m, m.detailView.Load(msg.TaskID)

	case board.TransitionRequestMsg:
		return m.startTransition(msg.Task)

	case board.EditTaskMsg:
		return m, m.loadTaskForEdit(msg.TaskID)

	case editLoadedMsg:
		if msg.err != nil {
			m.setNotice("Load failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.taskFormView.SetEmployees(msg.employees)
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskFormView.StartEdit(*msg.task)

	case board.DeleteTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewConfirm
		return m, m.confirmView.Start(
			"Delete Task",
			fmt.Sprintf("Delete %q?", msg.Title),
			deleteTaskPayload{id: msg.TaskID, title: msg.Title},
		)

	case taskDeletedMsg:
		if msg.err != nil {
			m.setNotice("Delete failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setNotice("Task deleted", false)
		return m, tea.Batch(m.refresher.Refresh(), m.boardView.Reload())

	// === Detail ===

	case detail.BackMsg:
		m.currentView = m.previousView
		if m.currentView == ViewDetail {
			m.currentView = m.homeView()
		}
		return m, nil

	case detail.TransitionMsg:
		return m.startTransition(msg.Task)

	// === Transitions ===

	case transition.ChosenMsg:
		m.currentView = m.previousView
		return m, m.applyTransition(msg.TaskID, msg.To, msg.Label)

	case transition.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case transitionResultMsg:
		if msg.err != nil {
			// The board keeps rendering the pre-update status.
			m.setNotice("Update failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setNotice(msg.label+" — refreshing", false)
		cmds := []tea.Cmd{m.refresher.Refresh(), m.boardView.Reload()}
		if m.currentView == ViewDetail {
			if t := m.detailView.Task(); t != nil {
				cmds = append(cmds, m.detailView.Load(t.ID))
			}
		}
		return m, tea.Batch(cmds...)

	// === Task form (admin) ===

	case rosterLoadedMsg:
		m.taskFormView.SetEmployees(msg.employees)
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskFormView.StartCreate(m.boardView.AssignedTo())

	case taskform.SubmitMsg:
		m.currentView = m.previousView
		return m, m.saveTask(msg.TaskID, msg.Input)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			m.setNotice("Save failed: "+msg.err.Error(), true)
			return m, nil
		}
		if msg.created {
			m.setNotice("Task assigned", false)
		} else {
			m.setNotice("Task updated", false)
		}
		return m, tea.Batch(m.refresher.Refresh(), m.reloadHome())

	// === Confirm dialog ===

	case confirm.ResultMsg:
		m.currentView = m.previousView
		if !msg.Confirmed {
			return m, nil
		}
		switch p := msg.Payload.(type) {
		case deleteTaskPayload:
			return m, m.deleteTask(p.id)
		case deleteEmployeePayload:
			return m, m.deleteEmployee(p.id, p.name)
		}
		return m, nil

	// === Reports ===

	case reports.BackMsg:
		m.currentView = ViewRoster
		return m, m.rosterView.Init()

	// === Command palette ===

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleRefreshResult folds a completed refresh into the UI: staleness
// flag, auth failures, unread counter, and a reload of the active view.
func (m Model) handleRefreshResult(msg appsync.RefreshResultMsg) (tea.Model, tea.Cmd) {
	if msg.AuthError != nil {
		return m.forceLogout("Session expired. Sign in again.")
	}

	m.stale = msg.Failed()
	m.boardView.SetStale(m.stale)
	if m.stale {
		m.setNotice("Backend unreachable. Press r to retry.", true)
	} else if m.noticeError {
		m.clearNotice()
	}

	cmds := []tea.Cmd{
		m.refresher.WaitForNextResult(),
		m.fetchUnreadCount(),
	}

	switch m.currentView {
	case ViewRoster:
		cmds = append(cmds, m.rosterView.Init())
	case ViewBoard:
		cmds = append(cmds, m.boardView.Reload())
	case ViewDetail:
		if t := m.detailView.Task(); t != nil {
			cmds = append(cmds, m.detailView.Load(t.ID))
		}
	case ViewReports:
		cmds = append(cmds, m.reportsView.Build())
	}

	return m, tea.Batch(cmds...)
}

// startSession persists a fresh login and routes to the role's home
// view.
func (m Model) startSession(res *api.AuthResult, greeting string) (tea.Model, tea.Cmd) {
	sess, err := m.sessions.Set(res.Token, res.Role, res.Profile)
	if err != nil {
		m.setNotice("Session not persisted: "+err.Error(), true)
		sess = &model.Session{Role: res.Role, Profile: res.Profile, Token: res.Token}
	} else {
		m.setNotice(greeting, false)
	}

	m.session = sess
	m.refresher.SetRole(sess.Role)

	if !sess.Role.Valid() {
		m.currentView = ViewDenied
		return m, nil
	}

	return m.enterHome(m.refresher.Start())
}

// enterHome routes to the role's landing view and starts its loads.
func (m Model) enterHome(extra tea.Cmd) (tea.Model, tea.Cmd) {
	if m.session == nil {
		m.currentView = ViewLogin
		return m, m.loginView.Start()
	}

	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()
	if !m.ready {
		w, h = 80, 24
	}

	if m.session.Role == model.RoleAdmin {
		m.currentView = ViewRoster
		return m, tea.Batch(extra, m.rosterView.Init())
	}

	m.boardView = board.New(
		m.store, m.keys, board.ModeEmployee, "My Tasks", "", w, h,
	)
	m.boardView.SetStale(m.stale)
	m.currentView = ViewBoard
	return m, tea.Batch(extra, m.boardView.Init())
}

// homeView returns the landing view for the current role.
func (m Model) homeView() ViewState {
	if m.session != nil && m.session.Role == model.RoleAdmin {
		return ViewRoster
	}
	return ViewBoard
}

// reloadHome reloads the data behind the current role's landing view.
func (m Model) reloadHome() tea.Cmd {
	if m.currentView == ViewRoster {
		return m.rosterView.Init()
	}
	return m.boardView.Reload()
}

// startTransition opens the status change picker for a task. Only the
// assignee's own session may change status.
func (m Model) startTransition(task model.Task) (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.Role != model.RoleEmployee {
		m.setNotice("Only the assignee can change task status.", true)
		return m, nil
	}

	cmd := m.transitionView.Start(task)
	if cmd == nil {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewTransition
	return m, cmd
}

// forceLogout clears the session and returns to the login form with a
// message.
func (m Model) forceLogout(message string) (tea.Model, tea.Cmd) {
	m.refresher.Stop()
	m.client.ClearToken()
	if err := m.sessions.Clear(); err != nil {
		message = message + " (" + err.Error() + ")"
	}
	m.session = nil
	m.unreadCount = 0
	m.currentView = ViewLogin
	if message == "" {
		return m, m.loginView.Start()
	}
	return m, m.loginView.SetError(message)
}

// handleGlobalKeys processes keys that apply across views. Returns
// handled=false when the active view should receive the key instead.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.refresher.Stop()
		return true, m, tea.Quit
	}

	// Text-entry views own the keyboard.
	if m.inTextEntry() {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == m.homeView() {
			m.refresher.Stop()
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return true, m, m.commandView.Focus()

	case "r":
		m.setNotice("Refreshing...", false)
		return true, m, m.refresher.Refresh()

	case "n":
		if m.isAdmin() && (m.currentView == ViewRoster || m.currentView == ViewBoard) {
			return true, m, m.loadRoster()
		}

	case "R":
		if m.isAdmin() {
			m.previousView = m.currentView
			m.currentView = ViewReports
			m.reportsView.SetLoading(true)
			return true, m, m.reportsView.Build()
		}

	case "N":
		if m.unreadCount > 0 {
			m.setNotice(fmt.Sprintf("%d new task(s) marked seen", m.unreadCount), false)
			return true, m, m.markNotificationsRead()
		}

	case "ctrl+l":
		if m.session != nil {
			m.setNotice("Signed out.", false)
			mdl, cmd := m.forceLogout("")
			return true, mdl, cmd
		}

	case "esc":
		// Back out of the admin drill-down board to the roster.
		if m.currentView == ViewBoard && m.isAdmin() {
			m.currentView = ViewRoster
			return true, m, m.rosterView.Init()
		}
		if m.currentView == ViewHelp || m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
	}

	return false, m, nil
}

// inTextEntry reports whether the active view owns raw keyboard input.
func (m Model) inTextEntry() bool {
	switch m.currentView {
	case ViewLogin, ViewRegister, ViewForgot, ViewTaskForm,
		ViewTransition, ViewConfirm, ViewCommand:
		return true
	case ViewRoster:
		return m.rosterView.Searching()
	case ViewBoard:
		return m.boardView.Searching()
	}
	return false
}

// isAdmin reports whether the current session holds the admin role.
func (m Model) isAdmin() bool {
	return m.session != nil && m.session.Role == model.RoleAdmin
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "refresh", "sync":
		return m, m.refresher.Refresh()

	case "reports":
		if m.isAdmin() {
			m.previousView = m.currentView
			m.currentView = ViewReports
			m.reportsView.SetLoading(true)
			return m, m.reportsView.Build()
		}

	case "board", "tasks":
		if m.isAdmin() {
			w := m.layout.ContentWidth()
			h := m.layout.ContentHeight()
			m.boardView = board.New(
				m.store, m.keys, board.ModeAdmin, "All Tasks", "", w, h,
			)
			m.boardView.SetStale(m.stale)
			m.previousView = m.currentView
			m.currentView = ViewBoard
			return m, m.boardView.Init()
		}
		m.currentView = ViewBoard
		return m, m.boardView.Reload()

	case "employees", "roster":
		if m.isAdmin() {
			m.currentView = ViewRoster
			return m, m.rosterView.Init()
		}

	case "assign", "new":
		if m.isAdmin() {
			return m, m.loadRoster()
		}

	case "logout":
		if m.session != nil {
			mdl, c := m.forceLogout("")
			return mdl, c
		}

	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case "quit", "q":
		m.refresher.Stop()
		return m, tea.Quit
	}

	m.setNotice("Unknown command: "+cmd, true)
	return m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewRegister:
		m.registerView, cmd = m.registerView.Update(msg)
	case ViewForgot:
		m.forgotView, cmd = m.forgotView.Update(msg)
	case ViewRoster:
		m.rosterView, cmd = m.rosterView.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewTaskForm:
		m.taskFormView, cmd = m.taskFormView.Update(msg)
	case ViewTransition:
		m.transitionView, cmd = m.transitionView.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	case ViewReports:
		m.reportsView, cmd = m.reportsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.refreshStatus())
	content := m.renderContent()

	var statusBar string
	if m.notice != "" && m.noticeError {
		statusBar = m.layout.RenderErrorBar(m.notice)
	} else if m.notice != "" {
		statusBar = m.layout.RenderStatusBar(m.notice)
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerTitle builds the top bar title, with the signed-in identity
// and the unread new-task badge.
func (m Model) headerTitle() string {
	title := "EMS Dashboard"
	if m.session != nil {
		title = fmt.Sprintf(
			"EMS Dashboard — %s (%s)",
			m.session.Profile.FirstName, m.session.Role,
		)
	}
	if m.unreadCount > 0 {
		title = fmt.Sprintf("%s [%d new]", title, m.unreadCount)
	}
	return title
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewRegister:
		return m.registerView.View()
	case ViewForgot:
		return m.forgotView.View()
	case ViewRoster:
		return m.rosterView.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewTaskForm:
		return m.taskFormView.View()
	case ViewTransition:
		return m.transitionView.View()
	case ViewConfirm:
		return m.confirmView.View()
	case ViewReports:
		return m.reportsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewDenied:
		return m.renderDenied()
	default:
		return ""
	}
}

// renderDenied draws the full-page access-denied view.
func (m Model) renderDenied() string {
	msg := lipgloss.JoinVertical(
		lipgloss.Center,
		theme.OverdueStyle.Render("Access denied"),
		"",
		"Your account's role does not grant access to this dashboard.",
		theme.HelpStyle.Render("press ctrl+l to sign out"),
	)
	return lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Render(msg)
}

// refreshStatus returns a short string describing the refresher state.
func (m Model) refreshStatus() string {
	if m.session == nil {
		return "signed out"
	}

	state, lastSync, _ := m.refresher.Status()
	switch state {
	case appsync.RefreshRunning:
		return "refreshing..."
	case appsync.RefreshError:
		return "⚠ backend unreachable"
	default:
		if lastSync.IsZero() {
			return "idle"
		}
		return "synced " + lastSync.Format("15:04:05")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter sign in | ctrl+n register | ctrl+f forgot password"
	case ViewRegister, ViewForgot:
		return "enter submit | esc back"
	case ViewRoster:
		return "enter tasks | n assign | R reports | d delete | / search | tab sort | r refresh | ? help"
	case ViewBoard:
		if m.isAdmin() {
			return "enter detail | n assign | e edit | d delete | 1-4 filter | / search | esc roster"
		}
		return "enter detail | t change status | 1-4 filter | / search | tab sort | r refresh"
	case ViewDetail:
		return "t change status | j/k scroll | esc back"
	case ViewTaskForm, ViewTransition, ViewConfirm:
		return "enter submit | esc cancel"
	case ViewReports:
		return "c export CSV | x export XLSX | esc back"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDenied:
		return "ctrl+l sign out | ctrl+c quit"
	default:
		return "q quit | ? help"
	}
}

// setNotice replaces the status bar content until the next notice.
func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeError = isError
}

// clearNotice restores the default status bar hints.
func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeError = false
}

// authErrorText maps request errors to the line shown under auth forms.
func authErrorText(err error) string {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return err.Error()
}
