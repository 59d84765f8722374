package store

import (
	"context"
	"testing"
	"time"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

func seedTasks(t *testing.T, s *SQLiteStore, tasks []model.Task) {
	t.Helper()
	if err := s.ReplaceTasks(context.Background(), tasks); err != nil {
		t.Fatalf("seeding tasks: %v", err)
	}
}

func sampleTasks(now time.Time) []model.Task {
	return []model.Task{
		{
			ID: "t1", Title: "Design login page", Category: "design",
			Priority: model.PriorityHigh, AssignedTo: "e1",
			AssigneeName: "Ada", Status: model.StatusNew,
			DueDate:   now.Add(48 * time.Hour),
			CreatedAt: now, UpdatedAt: now, FetchedAt: now,
		},
		{
			ID: "t2", Title: "Fix signup bug", Category: "dev",
			Priority: model.PriorityMedium, AssignedTo: "e1",
			AssigneeName: "Ada", Status: model.StatusActive,
			DueDate:   now.Add(24 * time.Hour),
			CreatedAt: now, UpdatedAt: now, FetchedAt: now,
		},
		{
			ID: "t3", Title: "Write release notes", Category: "docs",
			Priority: model.PriorityLow, AssignedTo: "e2",
			AssigneeName: "Bo", Status: model.StatusCompleted,
			CreatedAt: now, UpdatedAt: now, FetchedAt: now,
		},
	}
}

func TestReplaceTasksIsFullSwap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	seedTasks(t, s, sampleTasks(now))

	// A refresh that no longer contains t1 and t3 must drop them.
	seedTasks(t, s, sampleTasks(now)[1:2])

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Fatalf("after replace got %+v, want only t2", tasks)
	}
}

func TestGetTasksFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedTasks(t, s, sampleTasks(time.Now()))

	status := string(model.StatusActive)
	got, err := s.GetTasks(ctx, TaskFilter{Status: &status})
	if err != nil {
		t.Fatalf("GetTasks by status: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t2" {
		t.Errorf("status filter got %+v, want t2", got)
	}

	assignee := "e1"
	got, err = s.GetTasks(ctx, TaskFilter{AssignedTo: &assignee})
	if err != nil {
		t.Fatalf("GetTasks by assignee: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("assignee filter got %d tasks, want 2", len(got))
	}

	query := "signup"
	got, err = s.GetTasks(ctx, TaskFilter{Query: &query})
	if err != nil {
		t.Fatalf("GetTasks by query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t2" {
		t.Errorf("query filter got %+v, want t2", got)
	}

	category := "docs"
	priority := model.PriorityLow
	got, err = s.GetTasks(ctx, TaskFilter{Category: &category, Priority: &priority})
	if err != nil {
		t.Fatalf("GetTasks by category+priority: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t3" {
		t.Errorf("combined filter got %+v, want t3", got)
	}
}

func TestGetTasksSortByTitle(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s, sampleTasks(time.Now()))

	got, err := s.GetTasks(context.Background(), TaskFilter{SortBy: "title"})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}

	want := []string{"t1", "t2", "t3"} // Design, Fix, Write
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("sort by title order = %v", taskIDs(got))
		}
	}

	got, err = s.GetTasks(context.Background(), TaskFilter{SortBy: "title", SortDesc: true})
	if err != nil {
		t.Fatalf("GetTasks desc: %v", err)
	}
	if got[0].ID != "t3" {
		t.Errorf("desc sort first = %s, want t3", got[0].ID)
	}
}

func TestGetTaskByID(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s, sampleTasks(time.Now()))

	task, err := s.GetTaskByID(context.Background(), "t3")
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if task.Title != "Write release notes" || task.Status != model.StatusCompleted {
		t.Errorf("got %+v", task)
	}
	if !task.DueDate.IsZero() {
		t.Errorf("t3 DueDate = %v, want zero", task.DueDate)
	}

	if _, err := s.GetTaskByID(context.Background(), "nope"); err == nil {
		t.Error("GetTaskByID(nope) succeeded, want error")
	}
}

func TestTaskIDs(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s, sampleTasks(time.Now()))

	ids, err := s.TaskIDs(context.Background())
	if err != nil {
		t.Fatalf("TaskIDs: %v", err)
	}
	if len(ids) != 3 || !ids["t1"] || !ids["t2"] || !ids["t3"] {
		t.Errorf("TaskIDs = %v", ids)
	}
}

func TestEmployeesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	employees := []model.Employee{
		{
			ID: "e1", FirstName: "Ada", Email: "ada@corp.io",
			TaskCounts: model.TaskCounts{NewTask: 1, Active: 1, Total: 2},
			FetchedAt:  now,
		},
		{
			ID: "e2", FirstName: "Bo", Email: "bo@corp.io",
			TaskCounts: model.TaskCounts{Completed: 1, Total: 1},
			FetchedAt:  now,
		},
	}
	if err := s.ReplaceEmployees(ctx, employees); err != nil {
		t.Fatalf("ReplaceEmployees: %v", err)
	}

	got, err := s.GetEmployees(ctx, EmployeeFilter{SortBy: "first_name"})
	if err != nil {
		t.Fatalf("GetEmployees: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e1" {
		t.Fatalf("GetEmployees = %+v", got)
	}
	if got[0].TaskCounts.Active != 1 {
		t.Errorf("e1 active count = %d, want 1", got[0].TaskCounts.Active)
	}

	query := "bo@"
	got, err = s.GetEmployees(ctx, EmployeeFilter{Query: &query})
	if err != nil {
		t.Fatalf("GetEmployees query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e2" {
		t.Errorf("query filter = %+v, want e2", got)
	}

	got, err = s.GetEmployees(ctx, EmployeeFilter{SortBy: "completed", SortDesc: true})
	if err != nil {
		t.Fatalf("GetEmployees sort: %v", err)
	}
	if got[0].ID != "e2" {
		t.Errorf("sort by completed desc first = %s, want e2", got[0].ID)
	}

	one, err := s.GetEmployeeByID(ctx, "e1")
	if err != nil {
		t.Fatalf("GetEmployeeByID: %v", err)
	}
	if one.FirstName != "Ada" {
		t.Errorf("GetEmployeeByID = %+v", one)
	}
}

func TestStatsSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	latest, err := s.LatestStats(ctx)
	if err != nil {
		t.Fatalf("LatestStats on empty store: %v", err)
	}
	if latest != nil {
		t.Fatalf("LatestStats on empty store = %+v, want nil", latest)
	}

	older := model.DashboardStats{
		Employees: 2, Tasks: 3,
		Counts:  model.TaskCounts{NewTask: 1, Active: 1, Completed: 1, Total: 3},
		TakenAt: time.Now().Add(-time.Hour),
	}
	newer := model.DashboardStats{
		Employees: 2, Tasks: 4,
		Counts:  model.TaskCounts{NewTask: 2, Active: 1, Completed: 1, Total: 4},
		TakenAt: time.Now(),
	}
	if err := s.SaveStats(ctx, older); err != nil {
		t.Fatalf("SaveStats: %v", err)
	}
	if err := s.SaveStats(ctx, newer); err != nil {
		t.Fatalf("SaveStats: %v", err)
	}

	latest, err = s.LatestStats(ctx)
	if err != nil {
		t.Fatalf("LatestStats: %v", err)
	}
	if latest == nil || latest.Tasks != 4 {
		t.Errorf("LatestStats = %+v, want the newer snapshot", latest)
	}
}

func TestNotificationsLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n1 := model.Notification{ID: "n1", TaskID: "t1", Message: "New task: Design login page", CreatedAt: time.Now()}
	n2 := model.Notification{ID: "n2", TaskID: "t2", Message: "New task: Fix signup bug", CreatedAt: time.Now()}
	for _, n := range []model.Notification{n1, n2} {
		if err := s.CreateNotification(ctx, n); err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
	}

	unread, err := s.GetUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("GetUnreadNotifications: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("unread = %d, want 2", len(unread))
	}

	if err := s.MarkNotificationRead(ctx, "n1"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	unread, err = s.GetUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("GetUnreadNotifications: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != "n2" {
		t.Fatalf("unread after mark = %+v, want only n2", unread)
	}

	if err := s.MarkAllNotificationsRead(ctx); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	unread, err = s.GetUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("GetUnreadNotifications: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("unread after mark all = %d, want 0", len(unread))
	}
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestUpsertTasksTouchesOnlyGivenRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	seedTasks(t, s, sampleTasks(now))

	changed := sampleTasks(now)[1]
	changed.Title = "Fix signup bug (reopened)"
	changed.Status = model.StatusActive
	fresh := model.Task{
		ID: "t4", Title: "Audit permissions", Category: "security",
		Priority: model.PriorityHigh, AssignedTo: "e1",
		AssigneeName: "Ada", Status: model.StatusNew,
		CreatedAt: now, UpdatedAt: now, FetchedAt: now,
	}
	if err := s.UpsertTasks(ctx, []model.Task{changed, fresh}); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}

	tasks, err := s.GetTasks(ctx, TaskFilter{SortBy: "title"})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("got %d tasks, want 4 (upsert must not drop rows)", len(tasks))
	}

	t2, err := s.GetTaskByID(ctx, "t2")
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if t2.Title != "Fix signup bug (reopened)" {
		t.Errorf("t2.Title = %q, not overwritten", t2.Title)
	}

	t1, err := s.GetTaskByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if t1.Title != "Design login page" {
		t.Errorf("t1.Title = %q, untouched row changed", t1.Title)
	}

	if _, err := s.GetTaskByID(ctx, "t4"); err != nil {
		t.Errorf("t4 not inserted: %v", err)
	}
}
