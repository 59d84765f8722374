package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceTasks swaps the full task mirror for the given set inside a
// single transaction. A dashboard refresh is always a full re-fetch,
// so rows absent from the new set are gone on the backend too.
func (s *SQLiteStore) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	const query = `
		INSERT INTO tasks (
			id, title, description, due_date, category, priority,
			assigned_to, assignee_name, status,
			created_at, updated_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		_, err = stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, nullableTime(t.DueDate),
			t.Category, t.Priority, t.AssignedTo, t.AssigneeName,
			string(t.Status),
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(), t.FetchedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// UpsertTasks inserts or overwrites the given tasks without touching
// the rest of the mirror. Targeted per-employee fetches use this
// between full refreshes.
func (s *SQLiteStore) UpsertTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO tasks (
			id, title, description, due_date, category, priority,
			assigned_to, assignee_name, status,
			created_at, updated_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing task upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		_, err = stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, nullableTime(t.DueDate),
			t.Category, t.Priority, t.AssignedTo, t.AssigneeName,
			string(t.Status),
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(), t.FetchedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// GetTasks retrieves tasks matching the provided filter options.
func (s *SQLiteStore) GetTasks(
	ctx context.Context,
	opts TaskFilter,
) ([]model.Task, error) {
	var conditions []string
	var args []interface{}

	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if opts.AssignedTo != nil {
		conditions = append(conditions, "assigned_to = ?")
		args = append(args, *opts.AssignedTo)
	}
	if opts.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *opts.Category)
	}
	if opts.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *opts.Priority)
	}
	if opts.Query != nil && *opts.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + *opts.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT * FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "updated_at"
	if opts.SortBy != "" {
		allowedSorts := map[string]bool{
			"title":      true,
			"status":     true,
			"priority":   true,
			"due_date":   true,
			"created_at": true,
			"updated_at": true,
		}
		if allowedSorts[opts.SortBy] {
			sortBy = opts.SortBy
		}
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// GetTaskByID retrieves a single task by its ID.
func (s *SQLiteStore) GetTaskByID(
	ctx context.Context,
	id string,
) (*model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("task %s not found", id)
	}

	task, err := scanTask(rows)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	return &task, nil
}

// TaskIDs returns the set of task IDs currently mirrored, used to
// detect newly assigned tasks during a refresh.
func (s *SQLiteStore) TaskIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT id FROM tasks")
	if err != nil {
		return nil, fmt.Errorf("querying task ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning task id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

// ReplaceEmployees swaps the full roster mirror for the given set.
func (s *SQLiteStore) ReplaceEmployees(ctx context.Context, employees []model.Employee) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM employees"); err != nil {
		return fmt.Errorf("clearing employees: %w", err)
	}

	const query = `
		INSERT INTO employees (
			id, first_name, email,
			count_new, count_active, count_completed, count_failed, count_total,
			fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing employee insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range employees {
		_, err = stmt.ExecContext(ctx,
			e.ID, e.FirstName, e.Email,
			e.TaskCounts.NewTask, e.TaskCounts.Active,
			e.TaskCounts.Completed, e.TaskCounts.Failed, e.TaskCounts.Total,
			e.FetchedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("inserting employee %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// GetEmployees retrieves roster entries matching the filter.
func (s *SQLiteStore) GetEmployees(
	ctx context.Context,
	opts EmployeeFilter,
) ([]model.Employee, error) {
	var conditions []string
	var args []interface{}

	if opts.Query != nil && *opts.Query != "" {
		conditions = append(conditions, "(first_name LIKE ? OR email LIKE ?)")
		q := "%" + *opts.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT * FROM employees"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "first_name"
	if opts.SortBy != "" {
		allowedSorts := map[string]string{
			"first_name": "first_name",
			"email":      "email",
			"total":      "count_total",
			"completed":  "count_completed",
		}
		if col, ok := allowedSorts[opts.SortBy]; ok {
			sortBy = col
		}
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

// GetEmployeeByID retrieves a single roster entry.
func (s *SQLiteStore) GetEmployeeByID(
	ctx context.Context,
	id string,
) (*model.Employee, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM employees WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting employee %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("employee %s not found", id)
	}

	e, err := scanEmployee(rows)
	if err != nil {
		return nil, fmt.Errorf("getting employee %s: %w", id, err)
	}

	return &e, nil
}

// SaveStats records a dashboard stats snapshot.
func (s *SQLiteStore) SaveStats(ctx context.Context, stats model.DashboardStats) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stats_snapshots (
			id, employees, tasks,
			count_new, count_active, count_completed, count_failed, count_total,
			taken_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), stats.Employees, stats.Tasks,
		stats.Counts.NewTask, stats.Counts.Active,
		stats.Counts.Completed, stats.Counts.Failed, stats.Counts.Total,
		stats.TakenAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving stats snapshot: %w", err)
	}

	return nil
}

// LatestStats returns the most recent stats snapshot, or nil when no
// snapshot has ever been taken.
func (s *SQLiteStore) LatestStats(ctx context.Context) (*model.DashboardStats, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM stats_snapshots ORDER BY taken_at DESC LIMIT 1",
	)

	var (
		id      string
		stats   model.DashboardStats
		takenAt time.Time
	)
	err := row.Scan(
		&id, &stats.Employees, &stats.Tasks,
		&stats.Counts.NewTask, &stats.Counts.Active,
		&stats.Counts.Completed, &stats.Counts.Failed, &stats.Counts.Total,
		&takenAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest stats: %w", err)
	}

	stats.TakenAt = takenAt
	return &stats, nil
}

// CreateNotification inserts a new notification record.
func (s *SQLiteStore) CreateNotification(
	ctx context.Context,
	n model.Notification,
) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, task_id, message, read, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.TaskID, n.Message, boolToInt(n.Read), n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

// GetUnreadNotifications retrieves all notifications that have not
// been read, ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM notifications WHERE read = 0 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(
	ctx context.Context,
	id string,
) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1")
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task      model.Task
		status    string
		dueDate   sql.NullTime
		createdAt time.Time
		updatedAt time.Time
		fetchedAt time.Time
	)

	err := rows.Scan(
		&task.ID, &task.Title, &task.Description, &dueDate,
		&task.Category, &task.Priority, &task.AssignedTo,
		&task.AssigneeName, &status,
		&createdAt, &updatedAt, &fetchedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Status = model.Status(status)
	if !task.Status.Valid() {
		task.Status = model.StatusNew
	}
	if dueDate.Valid {
		task.DueDate = dueDate.Time
	}
	task.CreatedAt = createdAt
	task.UpdatedAt = updatedAt
	task.FetchedAt = fetchedAt

	return task, nil
}

// scanEmployee scans a roster row from a sqlx.Rows result set.
func scanEmployee(rows *sqlx.Rows) (model.Employee, error) {
	var (
		e         model.Employee
		fetchedAt time.Time
	)

	err := rows.Scan(
		&e.ID, &e.FirstName, &e.Email,
		&e.TaskCounts.NewTask, &e.TaskCounts.Active,
		&e.TaskCounts.Completed, &e.TaskCounts.Failed, &e.TaskCounts.Total,
		&fetchedAt,
	)
	if err != nil {
		return model.Employee{}, fmt.Errorf("scanning employee row: %w", err)
	}

	e.FetchedAt = fetchedAt
	return e, nil
}

// scanNotification scans a notification row from a sqlx.Rows result set.
func scanNotification(rows *sqlx.Rows) (model.Notification, error) {
	var (
		n         model.Notification
		readInt   int
		createdAt time.Time
	)

	err := rows.Scan(&n.ID, &n.TaskID, &n.Message, &readInt, &createdAt)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Read = readInt != 0
	n.CreatedAt = createdAt

	return n, nil
}

// nullableTime converts a zero time into NULL for SQLite storage.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
