package api

import (
	"context"
	"fmt"
	"time"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

// ListEmployees retrieves the full employee roster.
func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var dtos []employeeDTO
	if err := c.Get(ctx, "/admin/employees", &dtos); err != nil {
		return nil, fmt.Errorf("fetching employees: %w", err)
	}

	now := time.Now()
	employees := make([]model.Employee, 0, len(dtos))
	for _, d := range dtos {
		employees = append(employees, d.toModel(now))
	}

	return employees, nil
}

// GetEmployee retrieves a single roster entry.
func (c *Client) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	var dto employeeDTO
	if err := c.Get(ctx, "/admin/employees/"+id, &dto); err != nil {
		return nil, fmt.Errorf("fetching employee %s: %w", id, err)
	}

	emp := dto.toModel(time.Now())
	return &emp, nil
}

// DeleteEmployee removes an employee account.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/admin/employees/"+id); err != nil {
		return fmt.Errorf("deleting employee %s: %w", id, err)
	}
	return nil
}

// EmployeeTasks retrieves the tasks assigned to one employee.
func (c *Client) EmployeeTasks(ctx context.Context, id string) ([]model.Task, error) {
	var dtos []taskDTO
	if err := c.Get(ctx, "/admin/employees/"+id+"/tasks", &dtos); err != nil {
		return nil, fmt.Errorf("fetching tasks for employee %s: %w", id, err)
	}

	return tasksToModel(dtos), nil
}

// ListTasks retrieves every task across all employees.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var dtos []taskDTO
	if err := c.Get(ctx, "/admin/tasks", &dtos); err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	return tasksToModel(dtos), nil
}

// GetTask retrieves a single task.
func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var dto taskDTO
	if err := c.Get(ctx, "/admin/tasks/"+id, &dto); err != nil {
		return nil, fmt.Errorf("fetching task %s: %w", id, err)
	}

	task := dto.toModel(time.Now())
	return &task, nil
}

// CreateTask assigns a new task to an employee.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	var dto taskDTO
	if err := c.Post(ctx, "/admin/tasks", in, &dto); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	task := dto.toModel(time.Now())
	return &task, nil
}

// UpdateTask rewrites a task's assignment fields.
func (c *Client) UpdateTask(ctx context.Context, id string, in TaskInput) (*model.Task, error) {
	var dto taskDTO
	if err := c.Put(ctx, "/admin/tasks/"+id, in, &dto); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}

	task := dto.toModel(time.Now())
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/admin/tasks/"+id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

// Stats retrieves the dashboard counters snapshot.
func (c *Client) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var dto statsDTO
	if err := c.Get(ctx, "/admin/stats", &dto); err != nil {
		return nil, fmt.Errorf("fetching dashboard stats: %w", err)
	}

	return &model.DashboardStats{
		Employees: dto.Employees,
		Tasks:     dto.Tasks,
		Counts:    dto.Counts.toModel(),
		TakenAt:   time.Now(),
	}, nil
}

func tasksToModel(dtos []taskDTO) []model.Task {
	now := time.Now()
	tasks := make([]model.Task, 0, len(dtos))
	for _, d := range dtos {
		tasks = append(tasks, d.toModel(now))
	}
	return tasks
}
