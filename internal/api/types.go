package api

import (
	"time"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

// userDTO is the backend's user document shape.
type userDTO struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// taskCountsDTO is the per-status tally attached to employee documents
// and the dashboard stats response.
type taskCountsDTO struct {
	NewTask   int `json:"newTask"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// taskDTO is the backend's task document shape. The backend emits both
// a taskStatus string and four boolean flags for the same state; the
// conversion reconciles them into the canonical enum.
type taskDTO struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      string `json:"date"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	AssignedTo   string `json:"assignedTo"`
	AssigneeName string `json:"assigneeName"`
	TaskStatus   string `json:"taskStatus"`
	NewTask      bool   `json:"newTask"`
	Active       bool   `json:"active"`
	Completed    bool   `json:"completed"`
	Failed       bool   `json:"failed"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// employeeDTO is the backend's roster entry shape.
type employeeDTO struct {
	ID         string        `json:"_id"`
	FirstName  string        `json:"firstName"`
	Email      string        `json:"email"`
	TaskCounts taskCountsDTO `json:"taskCounts"`
}

// statsDTO is the response of GET /admin/stats.
type statsDTO struct {
	Employees int           `json:"employees"`
	Tasks     int           `json:"tasks"`
	Counts    taskCountsDTO `json:"counts"`
}

// authResponse is the body returned by login and register.
type authResponse struct {
	Token string  `json:"token"`
	Role  string  `json:"role"`
	User  userDTO `json:"user"`
}

// messageResponse is the generic {message} acknowledgment body.
type messageResponse struct {
	Message string `json:"message"`
}

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Token   string
	Role    model.Role
	Profile model.Profile
}

// RegisterInput carries the fields of the registration forms.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// TaskInput carries the fields of the task assignment form.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"date"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assignedTo"`
}

// ProfileResult is the employee's own view: profile, task board
// contents, and per-status counts, all from one round trip.
type ProfileResult struct {
	Profile model.Profile
	Tasks   []model.Task
	Counts  model.TaskCounts
}

func (d taskCountsDTO) toModel() model.TaskCounts {
	return model.TaskCounts{
		NewTask:   d.NewTask,
		Active:    d.Active,
		Completed: d.Completed,
		Failed:    d.Failed,
		Total:     d.Total,
	}
}

func (d userDTO) toProfile() model.Profile {
	return model.Profile{
		ID:        d.ID,
		FirstName: d.FirstName,
		Email:     d.Email,
	}
}

func (d employeeDTO) toModel(fetchedAt time.Time) model.Employee {
	return model.Employee{
		ID:         d.ID,
		FirstName:  d.FirstName,
		Email:      d.Email,
		TaskCounts: d.TaskCounts.toModel(),
		FetchedAt:  fetchedAt,
	}
}

func (d taskDTO) toModel(fetchedAt time.Time) model.Task {
	return model.Task{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		DueDate:      parseBackendTime(d.DueDate),
		Category:     d.Category,
		Priority:     d.Priority,
		AssignedTo:   d.AssignedTo,
		AssigneeName: d.AssigneeName,
		Status: model.ReconcileStatus(
			d.TaskStatus, d.NewTask, d.Active, d.Completed, d.Failed,
		),
		CreatedAt: parseBackendTime(d.CreatedAt),
		UpdatedAt: parseBackendTime(d.UpdatedAt),
		FetchedAt: fetchedAt,
	}
}

// parseBackendTime parses the backend's timestamp strings. Mongo-style
// backends emit RFC 3339 with milliseconds; date-only fields come as
// plain YYYY-MM-DD.
func parseBackendTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
