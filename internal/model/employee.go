package model

import "time"

// TaskCounts is the per-status task tally the backend reports for an
// employee. Total is the backend's figure, not a derived sum.
type TaskCounts struct {
	NewTask   int `json:"newTask"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// Employee is the read-only roster mirror owned by the backend and
// refreshed on demand.
type Employee struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"first_name"`
	Email      string     `json:"email"`
	TaskCounts TaskCounts `json:"task_counts"`

	// FetchedAt is when this mirror was last refreshed from the backend.
	FetchedAt time.Time `json:"fetched_at"`
}

// CompletionRate returns the completed share of the employee's tasks
// in percent, or 0 when the employee has no tasks.
func (e Employee) CompletionRate() int {
	if e.TaskCounts.Total == 0 {
		return 0
	}
	return e.TaskCounts.Completed * 100 / e.TaskCounts.Total
}

// DashboardStats is the backend's top-level counters snapshot shown in
// the admin header panel.
type DashboardStats struct {
	Employees int        `json:"employees"`
	Tasks     int        `json:"tasks"`
	Counts    TaskCounts `json:"counts"`

	// TakenAt is when this snapshot was fetched.
	TakenAt time.Time `json:"taken_at"`
}
