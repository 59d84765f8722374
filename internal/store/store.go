package store

import (
	"context"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

// TaskFilter controls filtering, sorting, and pagination for task
// queries over the local mirror.
type TaskFilter struct {
	Status     *string
	AssignedTo *string
	Category   *string
	Priority   *string
	Query      *string
	SortBy     string // "due_date", "priority", "title", "status", "created_at", "updated_at"
	SortDesc   bool
	Limit      int
	Offset     int
}

// EmployeeFilter controls filtering and sorting for roster queries.
type EmployeeFilter struct {
	Query    *string // search first_name + email
	SortBy   string  // "first_name", "email", "total", "completed"
	SortDesc bool
	Limit    int
	Offset   int
}

// Store is the local read-through cache of the backend-owned mirrors.
// Each refresh replaces the mirrors wholesale; the backend is always
// the source of truth.
type Store interface {
	// === Tasks ===

	ReplaceTasks(ctx context.Context, tasks []model.Task) error
	UpsertTasks(ctx context.Context, tasks []model.Task) error
	GetTasks(ctx context.Context, opts TaskFilter) ([]model.Task, error)
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	TaskIDs(ctx context.Context) (map[string]bool, error)

	// === Employees ===

	ReplaceEmployees(ctx context.Context, employees []model.Employee) error
	GetEmployees(ctx context.Context, opts EmployeeFilter) ([]model.Employee, error)
	GetEmployeeByID(ctx context.Context, id string) (*model.Employee, error)

	// === Stats snapshots ===

	SaveStats(ctx context.Context, stats model.DashboardStats) error
	LatestStats(ctx context.Context) (*model.DashboardStats, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}
