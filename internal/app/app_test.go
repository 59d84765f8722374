package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ruhithpasha/emsfrontend/internal/api"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/session"
	appsync "github.com/Ruhithpasha/emsfrontend/internal/sync"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/board"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/command"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/roster"
	"github.com/Ruhithpasha/emsfrontend/internal/ui/taskform"
	"github.com/Ruhithpasha/emsfrontend/tests/testutil"
)

// memTokenStore keeps the bearer token in memory so tests never touch
// the system keyring.
type memTokenStore struct {
	token string
}

func (s *memTokenStore) Get() (string, error) {
	if s.token == "" {
		return "", errors.New("no token stored")
	}
	return s.token, nil
}
func (s *memTokenStore) Set(token string) error { s.token = token; return nil }
func (s *memTokenStore) Delete() error          { s.token = ""; return nil }

// newTestModel builds a root model over a stub backend and an
// in-memory cache. The backend answers every request with 503 so any
// refresh cycle the model starts completes quickly without data.
func newTestModel(t *testing.T) (Model, *session.Manager) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message": "unavailable"}`))
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, time.Second)
	s := testutil.NewTestStore(t)
	sessions := session.NewManagerWithTokenStore(t.TempDir(), &memTokenStore{})

	refresher := appsync.New(client, s, time.Hour)
	t.Cleanup(refresher.Stop)

	return New(client, s, sessions, refresher, t.TempDir()), sessions
}

func authResult(role model.Role) *api.AuthResult {
	return &api.AuthResult{
		Token:   "opaque-token",
		Role:    role,
		Profile: model.Profile{ID: "u1", FirstName: "Ada", Email: "ada@corp.io"},
	}
}

// signIn drives the model through a successful login.
func signIn(t *testing.T, m Model, role model.Role) Model {
	t.Helper()

	mdl, _ := m.Update(loginResultMsg{res: authResult(role)})
	next, ok := mdl.(Model)
	if !ok {
		t.Fatalf("Update returned %T", mdl)
	}
	return next
}

func TestBootWithoutSessionShowsLogin(t *testing.T) {
	m, _ := newTestModel(t)

	mdl, _ := m.Update(bootMsg{})
	if mdl.(Model).currentView != ViewLogin {
		t.Errorf("view = %v, want login", mdl.(Model).currentView)
	}
}

func TestBootResumesPersistedSession(t *testing.T) {
	m, sessions := newTestModel(t)

	// A session persisted by a previous run.
	if _, err := sessions.Set("opaque-token", model.RoleAdmin, model.Profile{ID: "u1"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if sess, err := sessions.Load(); err != nil || sess == nil {
		t.Fatalf("Load: (%+v, %v)", sess, err)
	}
	m.session = sessions.Current()

	mdl, _ := m.Update(bootMsg{})
	if mdl.(Model).currentView != ViewRoster {
		t.Errorf("view = %v, want roster for resumed admin", mdl.(Model).currentView)
	}
}

func TestAdminLandsOnRoster(t *testing.T) {
	m, sessions := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	if m.currentView != ViewRoster {
		t.Errorf("view = %v, want roster", m.currentView)
	}
	if m.session == nil || m.session.Role != model.RoleAdmin {
		t.Errorf("session = %+v", m.session)
	}
	if sessions.Current() == nil {
		t.Error("session not persisted on login")
	}
}

func TestEmployeeLandsOnBoard(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleEmployee)

	if m.currentView != ViewBoard {
		t.Errorf("view = %v, want board", m.currentView)
	}
}

func TestUnknownRoleIsDenied(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.Role("superuser"))

	if m.currentView != ViewDenied {
		t.Errorf("view = %v, want denied", m.currentView)
	}
}

func TestFailedLoginStaysOnLoginForm(t *testing.T) {
	m, sessions := newTestModel(t)

	mdl, _ := m.Update(loginResultMsg{err: &api.AuthError{Message: "invalid credentials"}})
	m = mdl.(Model)

	if m.currentView != ViewLogin {
		t.Errorf("view = %v, want login", m.currentView)
	}
	if m.session != nil || sessions.Current() != nil {
		t.Error("failed login produced a session")
	}
}

func TestAdminCannotChangeTaskStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	task := model.Task{ID: "t1", Title: "Deploy", Status: model.StatusNew}
	mdl, _ := m.Update(board.TransitionRequestMsg{Task: task})
	m = mdl.(Model)

	if m.currentView == ViewTransition {
		t.Error("transition picker opened for an admin")
	}
	if m.notice == "" || !m.noticeError {
		t.Errorf("notice = (%q, %v), want an error notice", m.notice, m.noticeError)
	}
}

func TestEmployeeOpensTransitionPicker(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleEmployee)

	task := model.Task{ID: "t1", Title: "Deploy", Status: model.StatusNew}
	mdl, cmd := m.Update(board.TransitionRequestMsg{Task: task})
	m = mdl.(Model)

	if m.currentView != ViewTransition {
		t.Errorf("view = %v, want transition picker", m.currentView)
	}
	if cmd == nil {
		t.Error("no cmd returned to initialize the picker")
	}
}

func TestRejectedTransitionKeepsBoardUnchanged(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleEmployee)

	mdl, _ := m.Update(transitionResultMsg{
		label: "Mark Complete",
		err:   errors.New("task already closed"),
	})
	m = mdl.(Model)

	if m.currentView != ViewBoard {
		t.Errorf("view = %v, want board", m.currentView)
	}
	if !m.noticeError {
		t.Errorf("notice = (%q, %v), want an error notice", m.notice, m.noticeError)
	}
}

func TestRefreshAuthErrorForcesLogout(t *testing.T) {
	m, sessions := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, _ := m.Update(appsync.RefreshResultMsg{
		AuthError: &appsync.AuthErrorMsg{Message: "Session expired."},
	})
	m = mdl.(Model)

	if m.currentView != ViewLogin {
		t.Errorf("view = %v, want login after auth rejection", m.currentView)
	}
	if m.session != nil {
		t.Error("session survived an auth rejection")
	}
	if sessions.Current() != nil {
		t.Error("persisted session survived an auth rejection")
	}
}

func TestFailedRefreshMarksDataStale(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	down := errors.New("backend down")
	mdl, _ := m.Update(appsync.RefreshResultMsg{
		StatsErr: down, EmployeesErr: down, TasksErr: down,
	})
	m = mdl.(Model)

	if !m.stale {
		t.Error("stale = false after a fully failed refresh")
	}
	if !m.noticeError {
		t.Errorf("notice = (%q, %v), want an error notice", m.notice, m.noticeError)
	}

	// The next clean refresh clears the warning.
	mdl, _ = m.Update(appsync.RefreshResultMsg{})
	m = mdl.(Model)
	if m.stale {
		t.Error("stale = true after a clean refresh")
	}
	if m.noticeError {
		t.Errorf("error notice %q survived a clean refresh", m.notice)
	}
}

func TestLogoutKeyClearsSession(t *testing.T) {
	m, sessions := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = mdl.(Model)

	if m.currentView != ViewLogin {
		t.Errorf("view = %v, want login after logout", m.currentView)
	}
	if m.session != nil || sessions.Current() != nil {
		t.Error("logout left a session behind")
	}
	if m.notice != "Signed out." {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestUnknownCommandSetsNotice(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, _ := m.Update(command.CommandMsg("frobnicate"))
	m = mdl.(Model)

	if m.notice != "Unknown command: frobnicate" || !m.noticeError {
		t.Errorf("notice = (%q, %v)", m.notice, m.noticeError)
	}
}

func TestRosterCommandNeedsAdmin(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleEmployee)

	mdl, _ := m.Update(command.CommandMsg("employees"))
	m = mdl.(Model)

	if m.currentView == ViewRoster {
		t.Error("employee reached the admin roster")
	}
}

func TestHelpToggles(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = mdl.(Model)
	if m.currentView != ViewHelp {
		t.Fatalf("view = %v, want help", m.currentView)
	}

	mdl, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = mdl.(Model)
	if m.currentView != ViewRoster {
		t.Errorf("view = %v, want roster after closing help", m.currentView)
	}
}

func TestEditFlowOpensPrefilledForm(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, cmd := m.Update(board.EditTaskMsg{TaskID: "t1"})
	m = mdl.(Model)
	if cmd == nil {
		t.Fatal("no cmd returned to load the task for editing")
	}

	task := model.Task{
		ID: "t1", Title: "Deploy staging", Status: model.StatusActive,
		AssignedTo: "u1", Priority: model.PriorityHigh,
	}
	roster := []model.Employee{{ID: "u1", FirstName: "Ada", Email: "ada@corp.io"}}

	mdl, cmd = m.Update(editLoadedMsg{task: &task, employees: roster})
	m = mdl.(Model)
	if m.currentView != ViewTaskForm {
		t.Fatalf("view = %v, want task form", m.currentView)
	}
	if cmd == nil {
		t.Fatal("no cmd returned to initialize the edit form")
	}

	// Submitting with the task ID takes the update path.
	mdl, cmd = m.Update(taskform.SubmitMsg{
		TaskID: "t1",
		Input:  api.TaskInput{Title: "Deploy staging", AssignedTo: "u1"},
	})
	m = mdl.(Model)
	if m.currentView == ViewTaskForm {
		t.Error("form still open after submit")
	}
	if cmd == nil {
		t.Fatal("no save cmd returned")
	}

	mdl, _ = m.Update(taskSavedMsg{created: false})
	m = mdl.(Model)
	if m.notice != "Task updated" {
		t.Errorf("notice = %q, want %q", m.notice, "Task updated")
	}
}

func TestEditLoadFailureStaysOnBoard(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, _ := m.Update(editLoadedMsg{err: errors.New("task gone")})
	m = mdl.(Model)

	if m.currentView == ViewTaskForm {
		t.Error("form opened despite a failed load")
	}
	if !m.noticeError {
		t.Errorf("notice = (%q, %v), want an error notice", m.notice, m.noticeError)
	}
}

func TestDeleteEmployeeConfirmStatesOpenTasks(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	emp := &model.Employee{
		ID: "u1", FirstName: "Ada",
		TaskCounts: model.TaskCounts{Completed: 1, Active: 2, Total: 4},
	}
	mdl, cmd := m.Update(confirmEmployeeMsg{id: "u1", name: "Ada", emp: emp})
	m = mdl.(Model)

	if m.currentView != ViewConfirm {
		t.Fatalf("view = %v, want confirm", m.currentView)
	}
	if cmd == nil {
		t.Fatal("no cmd returned to initialize the confirm dialog")
	}
}

func TestDeleteEmployeeConfirmFallsBackWithoutRecord(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, _ := m.Update(confirmEmployeeMsg{
		id: "u1", name: "Ada", err: errors.New("backend down"),
	})
	m = mdl.(Model)

	// The delete must still be offered when the lookup fails.
	if m.currentView != ViewConfirm {
		t.Errorf("view = %v, want confirm", m.currentView)
	}
}

func TestDrillDownReloadsAfterTargetedSync(t *testing.T) {
	m, _ := newTestModel(t)
	m = signIn(t, m, model.RoleAdmin)

	mdl, cmd := m.Update(roster.SelectedEmployeeMsg{EmployeeID: "u1", Name: "Ada"})
	m = mdl.(Model)
	if m.currentView != ViewBoard {
		t.Fatalf("view = %v, want board", m.currentView)
	}
	if cmd == nil {
		t.Fatal("no cmd returned for the drill-down")
	}

	mdl, cmd = m.Update(employeeTasksSyncedMsg{})
	if cmd == nil {
		t.Error("board not reloaded after the targeted sync")
	}

	// A failed targeted fetch leaves the mirror copy on screen.
	m = mdl.(Model)
	_, cmd = m.Update(employeeTasksSyncedMsg{err: errors.New("backend down")})
	if cmd != nil {
		t.Error("failed sync still triggered a reload")
	}
}
