// Package sync implements the dashboard refresh cycle: re-fetching
// stats, employees, and tasks from the backend after a mutation or on
// a timer, and mirroring the results into the local cache.
package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ruhithpasha/emsfrontend/internal/api"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
)

// RefreshState represents the current state of the refresh cycle.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// RefreshResultMsg is a tea.Msg sent when a full dashboard refresh
// completes. Each panel's fetch fails independently: a nil Stats or an
// empty slice with the matching error set means that panel renders its
// zero value while the others stay live.
type RefreshResultMsg struct {
	Stats     *model.DashboardStats
	Employees []model.Employee
	Tasks     []model.Task

	StatsErr     error
	EmployeesErr error
	TasksErr     error

	AuthError    *AuthErrorMsg
	NewTaskCount int
}

// AuthErrorMsg is sent when the backend rejects the bearer token
// during a refresh.
type AuthErrorMsg struct {
	Message string
}

// Failed reports whether every fetch in the refresh failed.
func (m RefreshResultMsg) Failed() bool {
	return m.StatsErr != nil && m.EmployeesErr != nil && m.TasksErr != nil
}

// fetchTimeout bounds a full refresh cycle.
const fetchTimeout = 30 * time.Second

// Refresher orchestrates dashboard refreshes for the active session.
type Refresher struct {
	client *api.Client
	store  store.Store

	resultCh  chan RefreshResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu       gosync.Mutex
	role     model.Role
	state    RefreshState
	lastSync time.Time
	lastErr  error
	interval time.Duration
	running  bool
}

// New creates a Refresher over the given backend client and cache.
func New(client *api.Client, s store.Store, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Refresher{
		client:    client,
		store:     s,
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
		interval:  interval,
	}
}

// SetRole selects which surface the refresh cycle fetches from: the
// admin endpoints or the employee profile.
func (r *Refresher) SetRole(role model.Role) {
	r.mu.Lock()
	r.role = role
	r.mu.Unlock()
}

// Start launches the background refresh loop and returns a tea.Cmd
// subscribed to its results. Calling Start twice is a no-op.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return r.waitForResult()
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	go r.loop()

	return r.waitForResult()
}

// Stop halts the background refresh loop.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	close(r.stopCh)
	r.running = false
}

// Refresh triggers an immediate refresh cycle.
func (r *Refresher) Refresh() tea.Cmd {
	select {
	case r.triggerCh <- struct{}{}:
	default:
		// A refresh is already queued.
	}
	return nil
}

// Status returns the current refresh state, last completion time, and
// last error.
func (r *Refresher) Status() (RefreshState, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.lastSync, r.lastErr
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. Call it after processing a RefreshResultMsg to keep
// listening.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}

// loop runs the periodic refresh cycle until stopped.
func (r *Refresher) loop() {
	r.mu.Lock()
	interval := r.interval
	stopCh := r.stopCh
	r.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.runOnce()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			r.runOnce()
		case <-r.triggerCh:
			r.runOnce()
		}
	}
}

// runOnce performs one full refresh and publishes the result.
func (r *Refresher) runOnce() {
	r.setState(RefreshRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	r.mu.Lock()
	role := r.role
	r.mu.Unlock()

	var msg RefreshResultMsg
	if role == model.RoleAdmin {
		msg = r.refreshAdmin(ctx)
	} else {
		msg = r.refreshEmployee(ctx)
	}

	if msg.AuthError != nil || msg.Failed() {
		err := firstError(msg.StatsErr, msg.EmployeesErr, msg.TasksErr)
		r.setState(RefreshError, err)
	} else {
		r.setState(RefreshIdle, nil)
	}

	r.sendResult(msg)
}

// refreshAdmin fetches stats, employees, and tasks concurrently and
// joins them before publishing. A failure in one fetch never aborts
// the other two.
func (r *Refresher) refreshAdmin(ctx context.Context) RefreshResultMsg {
	var (
		wg  gosync.WaitGroup
		msg RefreshResultMsg
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		msg.Stats, msg.StatsErr = r.client.Stats(ctx)
	}()
	go func() {
		defer wg.Done()
		msg.Employees, msg.EmployeesErr = r.client.ListEmployees(ctx)
	}()
	go func() {
		defer wg.Done()
		msg.Tasks, msg.TasksErr = r.client.ListTasks(ctx)
	}()
	wg.Wait()

	if authErr := authErrorFrom(msg.StatsErr, msg.EmployeesErr, msg.TasksErr); authErr != nil {
		msg.AuthError = authErr
		return msg
	}

	r.persist(ctx, &msg)
	return msg
}

// refreshEmployee fetches the employee's own profile, which carries
// the task board and counts in one response.
func (r *Refresher) refreshEmployee(ctx context.Context) RefreshResultMsg {
	var msg RefreshResultMsg

	profile, err := r.client.Profile(ctx)
	if err != nil {
		if authErr := authErrorFrom(err); authErr != nil {
			msg.AuthError = authErr
			return msg
		}
		msg.StatsErr = err
		msg.EmployeesErr = err
		msg.TasksErr = err
		return msg
	}

	msg.Tasks = profile.Tasks
	msg.Stats = &model.DashboardStats{
		Tasks:   profile.Counts.Total,
		Counts:  profile.Counts,
		TakenAt: time.Now(),
	}

	r.persist(ctx, &msg)
	return msg
}

// persist mirrors the successfully fetched parts into the cache and
// records notifications for newly assigned tasks.
func (r *Refresher) persist(ctx context.Context, msg *RefreshResultMsg) {
	if msg.TasksErr == nil {
		existing, err := r.store.TaskIDs(ctx)
		if err != nil {
			existing = nil
		}

		if err := r.store.ReplaceTasks(ctx, msg.Tasks); err != nil {
			msg.TasksErr = err
		} else if len(existing) > 0 {
			for _, t := range msg.Tasks {
				if existing[t.ID] {
					continue
				}
				msg.NewTaskCount++
				_ = r.store.CreateNotification(ctx, model.Notification{
					TaskID:    t.ID,
					Message:   fmt.Sprintf("New task: %s", t.Title),
					CreatedAt: time.Now(),
				})
			}
		}
	}

	if msg.EmployeesErr == nil && msg.Employees != nil {
		if err := r.store.ReplaceEmployees(ctx, msg.Employees); err != nil {
			msg.EmployeesErr = err
		}
	}

	if msg.StatsErr == nil && msg.Stats != nil {
		if err := r.store.SaveStats(ctx, *msg.Stats); err != nil {
			msg.StatsErr = err
		}
	}
}

// setState updates the refresh status fields.
func (r *Refresher) setState(state RefreshState, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = state
	r.lastErr = err
	if state == RefreshIdle && err == nil {
		r.lastSync = time.Now()
	}
}

// sendResult sends a RefreshResultMsg without blocking the loop.
func (r *Refresher) sendResult(msg RefreshResultMsg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the loop.
	}
}

// waitForResult returns a tea.Cmd that waits for the next result.
func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// authErrorFrom returns an AuthErrorMsg when any of the errors is a
// backend auth rejection.
func authErrorFrom(errs ...error) *AuthErrorMsg {
	for _, err := range errs {
		if err != nil && api.IsAuthError(err) {
			return &AuthErrorMsg{
				Message: "Session expired. Please log in again.",
			}
		}
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
