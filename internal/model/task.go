package model

import "time"

// Status is the canonical task status. The backend exposes two
// representations of the same state (a taskStatus string and four
// boolean flags); this enum is the single client-side form and
// everything else is reconciled into it on decode.
type Status string

const (
	StatusNew       Status = "newTask"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// AllStatuses lists every status in board-column order.
var AllStatuses = []Status{
	StatusNew, StatusActive, StatusCompleted, StatusFailed,
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusActive, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Display returns the human-readable column label for the status.
func (s Status) Display() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return "New"
	}
}

// Transition is a single permitted status change together with the
// action label shown in the UI.
type Transition struct {
	To    Status
	Label string
}

// transitions is the full table of UI-permitted status changes.
// Anything not listed here is rejected before a request is made;
// the backend remains the final authority.
var transitions = map[Status][]Transition{
	StatusNew: {
		{To: StatusActive, Label: "Accept & Start"},
		{To: StatusFailed, Label: "Decline"},
	},
	StatusActive: {
		{To: StatusCompleted, Label: "Mark Complete"},
		{To: StatusFailed, Label: "Mark Failed"},
		{To: StatusNew, Label: "Pause"},
	},
	StatusCompleted: {
		{To: StatusActive, Label: "Reopen"},
	},
	StatusFailed: {
		{To: StatusActive, Label: "Reopen"},
		{To: StatusNew, Label: "Reset"},
	},
}

// TransitionsFrom returns the permitted transitions out of s, in the
// order they appear in the UI.
func TransitionsFrom(s Status) []Transition {
	ts := transitions[s]
	out := make([]Transition, len(ts))
	copy(out, ts)
	return out
}

// CanTransition reports whether the UI permits moving from one status
// to another.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t.To == to {
			return true
		}
	}
	return false
}

// TransitionLabel returns the action label for a permitted transition,
// or an empty string when the transition is not permitted.
func TransitionLabel(from, to Status) string {
	for _, t := range transitions[from] {
		if t.To == to {
			return t.Label
		}
	}
	return ""
}

// ReconcileStatus collapses the backend's mixed status representations
// into the canonical enum. The string form wins when it is valid;
// otherwise the first set flag (in column order) decides. When nothing
// usable is present the task renders as new.
func ReconcileStatus(taskStatus string, isNew, isActive, isCompleted, isFailed bool) Status {
	if s := Status(taskStatus); s.Valid() {
		return s
	}
	switch {
	case isNew:
		return StatusNew
	case isActive:
		return StatusActive
	case isCompleted:
		return StatusCompleted
	case isFailed:
		return StatusFailed
	}
	return StatusNew
}

// Priority levels used by the assignment form and board rendering.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task is the read-only mirror of a backend task. Status is the only
// field the client ever asks the backend to change, and only through
// the update-status endpoint followed by a full refresh.
type Task struct {
	// ID is the backend identifier for this task.
	ID string `json:"id"`

	// Title is the short summary shown on the board.
	Title string `json:"title"`

	// Description is the full assignment text.
	Description string `json:"description"`

	// DueDate is the assignment deadline; zero when none is set.
	DueDate time.Time `json:"due_date"`

	// Category is the free-form grouping chosen at assignment time.
	Category string `json:"category"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority"`

	// AssignedTo is the employee ID the task is assigned to.
	AssignedTo string `json:"assigned_to"`

	// AssigneeName is the display name of the assignee.
	AssigneeName string `json:"assignee_name"`

	// Status is the canonical reconciled status.
	Status Status `json:"status"`

	// CreatedAt and UpdatedAt mirror the backend timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// FetchedAt is when this mirror was last refreshed from the backend.
	FetchedAt time.Time `json:"fetched_at"`
}

// Overdue reports whether the task has a due date in the past and is
// not completed.
func (t Task) Overdue() bool {
	if t.DueDate.IsZero() || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(time.Now())
}
