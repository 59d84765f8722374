package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
)

// Row is one employee's line in the workload report.
type Row struct {
	EmployeeID     string
	Name           string
	Email          string
	Counts         model.TaskCounts
	CompletionRate int // percent
	Overdue        int
}

// Summary is a point-in-time workload report across the roster,
// assembled from the local mirror.
type Summary struct {
	GeneratedAt time.Time
	Stats       model.DashboardStats
	Rows        []Row
}

// Build assembles a report from the mirror's current contents.
func Build(ctx context.Context, s store.Store) (*Summary, error) {
	employees, err := s.GetEmployees(ctx, store.EmployeeFilter{
		SortBy: "first_name",
	})
	if err != nil {
		return nil, fmt.Errorf("report: loading roster: %w", err)
	}

	tasks, err := s.GetTasks(ctx, store.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("report: loading tasks: %w", err)
	}

	overdueByEmployee := make(map[string]int)
	var stats model.DashboardStats
	for _, t := range tasks {
		if t.Overdue() {
			overdueByEmployee[t.AssignedTo]++
		}
		switch t.Status {
		case model.StatusNew:
			stats.Counts.NewTask++
		case model.StatusActive:
			stats.Counts.Active++
		case model.StatusCompleted:
			stats.Counts.Completed++
		case model.StatusFailed:
			stats.Counts.Failed++
		}
		stats.Counts.Total++
	}
	stats.Employees = len(employees)
	stats.Tasks = len(tasks)
	stats.TakenAt = time.Now()

	rows := make([]Row, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, Row{
			EmployeeID:     e.ID,
			Name:           e.FirstName,
			Email:          e.Email,
			Counts:         e.TaskCounts,
			CompletionRate: e.CompletionRate(),
			Overdue:        overdueByEmployee[e.ID],
		})
	}

	return &Summary{
		GeneratedAt: time.Now(),
		Stats:       stats,
		Rows:        rows,
	}, nil
}

// header is the shared column layout for both export formats.
var header = []string{
	"Employee", "Email",
	"New", "Active", "Completed", "Failed",
	"Total", "Completion %", "Overdue",
}

// rowCells renders one report row into export cells.
func rowCells(r Row) []string {
	return []string{
		r.Name,
		r.Email,
		fmt.Sprintf("%d", r.Counts.NewTask),
		fmt.Sprintf("%d", r.Counts.Active),
		fmt.Sprintf("%d", r.Counts.Completed),
		fmt.Sprintf("%d", r.Counts.Failed),
		fmt.Sprintf("%d", r.Counts.Total),
		fmt.Sprintf("%d", r.CompletionRate),
		fmt.Sprintf("%d", r.Overdue),
	}
}
